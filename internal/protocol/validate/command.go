package validate

import (
	"errors"
	"fmt"
)

// Embeddable is the capability a value needs to be embedded as a
// sub-command parameter.
type Embeddable interface {
	ValidateParams() error
	WireText() (string, error)
}

// CommandRef embeds another command's wire text. A value that is not a
// command is a programming error and yields ErrNotCommand.
type CommandRef struct{}

func (CommandRef) Resolve(in Input, _ string) (Resolved, error) {
	field, ok := in.(Field)
	if !ok {
		return Resolved{}, fmt.Errorf("%w: got token list", ErrNotCommand)
	}
	cmd, ok := field.Value.(Embeddable)
	if !ok {
		return Resolved{}, fmt.Errorf("%w: got %T", ErrNotCommand, field.Value)
	}
	if err := cmd.ValidateParams(); err != nil {
		if errors.Is(err, ErrNotCommand) {
			return Resolved{}, err
		}
		return Resolved{}, unresolved("embedded command invalid: " + err.Error())
	}
	text, err := cmd.WireText()
	if err != nil {
		return Resolved{}, unresolved("embedded command not serializable: " + err.Error())
	}
	return Value(text), nil
}
