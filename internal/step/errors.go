package step

import "errors"

// ErrIndexOutOfBounds indicates a step that names a slot outside the array
// it was recorded against. It is a sorter/engine contract violation, never a
// user input error.
var ErrIndexOutOfBounds = errors.New("step: index out of bounds")
