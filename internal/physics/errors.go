package physics

import "errors"

// ErrInvalidConstant indicates a physical constant that is zero, negative or not finite.
var ErrInvalidConstant = errors.New("physics: constant must be positive and finite")
