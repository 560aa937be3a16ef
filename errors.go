package kinematic

import "errors"

var (
	ErrNilWorld        = errors.New("kinematic: nil collision world")
	ErrInvalidCapsule  = errors.New("kinematic: invalid capsule")
	ErrInvalidSettings = errors.New("kinematic: invalid settings")
	ErrInvalidUpAxis   = errors.New("kinematic: invalid up axis")
)
