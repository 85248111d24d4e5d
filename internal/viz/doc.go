// Package viz provides terminal rendering for the capacitive sensor scene.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - [Surface]: path-and-stroke adapter used by the waveform renderer
//   - [WireframeBackend]: perspective wireframe of the sensor plate and cube
//   - Theme selection with 4 built-in color schemes
package viz
