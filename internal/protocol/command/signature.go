package command

import (
	"github.com/danmuck/amcpctl/internal/protocol/validate"
)

// Signature declares one parameter slot and, on a command instance, holds
// its resolution state.
type Signature struct {
	Name      string
	Key       string
	Required  bool
	Validator validate.Validator

	Resolved bool
	Payload  any
	Raw      any
}

// Optional declares a parameter that may be absent.
func Optional(name string, v validate.Validator) Signature {
	return Signature{Name: name, Validator: v}
}

// Required declares a parameter whose absence invalidates the command.
func Required(name string, v validate.Validator) Signature {
	return Signature{Name: name, Validator: v, Required: true}
}

// Keyed sets the wire keyword written before the value.
func (s Signature) Keyed(key string) Signature {
	s.Key = key
	return s
}

func (s Signature) lookupKey() string {
	if s.Key != "" {
		return s.Key
	}
	return s.Name
}

// PayloadEntry is one resolved parameter ready for the wire.
type PayloadEntry struct {
	Key   string `json:"key,omitempty" yaml:"key,omitempty"`
	Value any    `json:"value" yaml:"value"`
	Raw   any    `json:"raw,omitempty" yaml:"raw,omitempty"`
}

func cloneSignatures(in []Signature) []Signature {
	out := make([]Signature, len(in))
	copy(out, in)
	for i := range out {
		out[i].Resolved = false
		out[i].Payload = nil
		out[i].Raw = nil
	}
	return out
}

func indexOf(sigs []Signature, name string) int {
	for i := range sigs {
		if sigs[i].Name == name {
			return i
		}
	}
	return -1
}
