// Package physics models the sensor as a parallel plate capacitor in an LC
// tank:
//
//	C = ε0·A / d
//	f = 1 / (2π·√(L·C))
//
// A [Capacitor] is built once from [Constants] and then evaluated per frame:
//
//	c, err := physics.NewCapacitor(physics.DefaultConstants())
//	r := c.Evaluate(0.5) // r.Capacitance, r.Frequency
package physics
