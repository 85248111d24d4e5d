package gui

import (
	"errors"
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var ErrUnsupportedKey = errors.New("unsupported key")

var namedKeys = map[string]int32{
	"space":  rl.KeySpace,
	"up":     rl.KeyUp,
	"down":   rl.KeyDown,
	"left":   rl.KeyLeft,
	"right":  rl.KeyRight,
	"pgup":   rl.KeyPageUp,
	"pgdown": rl.KeyPageDown,
}

// keyCode maps a key identifier as used in the config to a raylib key.
func keyCode(id string) (int32, error) {
	id = strings.ToLower(id)
	if k, ok := namedKeys[id]; ok {
		return k, nil
	}
	if len(id) == 1 {
		switch r := id[0]; {
		case r >= 'a' && r <= 'z':
			return rl.KeyA + int32(r-'a'), nil
		case r >= '0' && r <= '9':
			return rl.KeyZero + int32(r-'0'), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedKey, id)
}
