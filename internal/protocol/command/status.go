package command

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a command.
type Status int

const (
	Invalid     Status = -1
	StatusNew   Status = 0
	Initialized Status = 1
	Queued      Status = 2
	Sent        Status = 3
	Succeeded   Status = 4
	Failed      Status = 5
	Timeout     Status = 6
)

var statusNames = map[Status]string{
	Invalid:     "invalid",
	StatusNew:   "new",
	Initialized: "initialized",
	Queued:      "queued",
	Sent:        "sent",
	Succeeded:   "succeeded",
	Failed:      "failed",
	Timeout:     "timeout",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	want := strings.ToLower(strings.TrimSpace(string(b)))
	for st, name := range statusNames {
		if name == want {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("command: unknown status %q", string(b))
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	switch s {
	case Invalid, Succeeded, Failed, Timeout:
		return true
	default:
		return false
	}
}

// Describe is the human readable status line.
func (s Status) Describe() string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:] + " command"
}

// canTransition encodes the forward-only machine. Failed and Timeout are
// reachable from every live state after StatusNew; Invalid only from StatusNew.
func canTransition(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	switch to {
	case Invalid:
		return from == StatusNew
	case Failed, Timeout:
		return from != StatusNew
	case Initialized:
		return from == StatusNew
	case Queued:
		return from == Initialized
	case Sent:
		return from == Queued
	case Succeeded:
		return from == Sent
	default:
		return false
	}
}
