package command

import (
	"errors"
	"fmt"
)

var (
	ErrMissingChannel    = errors.New("command: channel required")
	ErrMissingLayer      = errors.New("command: layer required")
	ErrInvalidParams     = errors.New("command: invalid parameters")
	ErrNotValidated      = errors.New("command: parameters not validated")
	ErrIllegalTransition = errors.New("command: illegal status transition")
	ErrResponseRecorded  = errors.New("command: response already recorded")
	ErrUnknownVerb       = errors.New("command: unknown verb")
	ErrMalformedWire     = errors.New("command: malformed wire text")
)

// AddressError is a construction failure: the addressing mode needs a
// channel or layer the caller did not supply.
type AddressError struct {
	Verb string
	Mode AddressingMode
	Err  error
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%s (verb=%s mode=%s)", e.Err, e.Verb, e.Mode)
}

func (e *AddressError) Unwrap() error {
	return e.Err
}

// ParamError names the signature that failed validation.
type ParamError struct {
	Verb  string
	Param string
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("command: %s param %q: %v", e.Verb, e.Param, e.Err)
}

func (e *ParamError) Unwrap() []error {
	return []error{ErrInvalidParams, e.Err}
}
