package domain

import (
	"errors"
	"fmt"
)

// registry construction errors
var (
	ErrDuplicateKey        = errors.New("duplicate descriptor key")
	ErrInvalidKey          = errors.New("invalid descriptor key")
	ErrReservedKey         = errors.New("descriptor key collides with a reserved key")
	ErrInvalidBounds       = errors.New("invalid numeric bounds")
	ErrInvalidOptions      = errors.New("invalid option list")
	ErrUnknownKind         = errors.New("unknown entity kind")
	ErrTypeCollision       = errors.New("synthesized type collision")
	ErrMissingBindingPoint = errors.New("missing binding point")
	ErrUnboundBindingPoint = errors.New("binding point without descriptor")
)

// generation errors
var (
	ErrUnknownInstance = errors.New("unknown instance")
	ErrDuplicateID     = errors.New("instance id already defined")
	ErrRegistration    = errors.New("registration failed")
)

type GenerationError struct {
	Step string
	Key  string
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("generation failed at %s %q: %v", e.Step, e.Key, e.Err)
	}
	return fmt.Sprintf("generation failed at %s: %v", e.Step, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
