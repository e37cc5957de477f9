package command

import (
	"fmt"
	"slices"

	"github.com/danmuck/amcpctl/internal/logging"
	"github.com/danmuck/amcpctl/internal/protocol/response"
)

func (c *Command) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// OnStatusChanged registers fn to run once per status change.
func (c *Command) OnStatusChanged(fn func(Status)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Done is closed when the command reaches a terminal status.
func (c *Command) Done() <-chan struct{} {
	return c.done
}

// SetStatus moves the command to next. Writing the current status is a
// no-op; anything the state machine forbids returns ErrIllegalTransition.
func (c *Command) SetStatus(next Status) error {
	return c.transition(next, nil, nil)
}

// transition applies next and, when it takes effect, keeps cause as the
// first recorded error. apply runs under the lock only when the transition
// is allowed.
func (c *Command) transition(next Status, cause error, apply func()) error {
	c.mu.Lock()
	prev := c.status
	if prev == next {
		c.mu.Unlock()
		return nil
	}
	if !canTransition(prev, next) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s (verb=%s token=%s)", ErrIllegalTransition, prev, next, c.Name(), c.token)
	}
	if apply != nil {
		apply()
	}
	c.status = next
	if cause != nil && c.err == nil {
		c.err = cause
	}
	observers := slices.Clone(c.observers)
	if next.Terminal() {
		close(c.done)
	}
	c.mu.Unlock()

	logging.Tracef("command status verb=%s token=%s %s->%s", c.Name(), c.token, prev, next)
	for _, fn := range observers {
		fn(next)
	}
	return nil
}

func (c *Command) MarkQueued() error { return c.SetStatus(Queued) }
func (c *Command) MarkSent() error   { return c.SetStatus(Sent) }
func (c *Command) MarkTimeout() error {
	return c.SetStatus(Timeout)
}

// MarkFailed records cause and moves the command to Failed.
func (c *Command) MarkFailed(cause error) error {
	return c.transition(Failed, cause, nil)
}

// ValidateResponse records the reply and checks it against the verb's
// response signature. Only a Sent command accepts a reply. Code and raw text
// are kept even on failure; data is only stored on success. The command
// moves to Succeeded or Failed.
func (c *Command) ValidateResponse(msg response.Message) error {
	c.mu.Lock()
	if c.responded {
		c.mu.Unlock()
		return fmt.Errorf("%w: token=%s", ErrResponseRecorded, c.token)
	}
	if c.status != Sent {
		status := c.status
		c.mu.Unlock()
		return fmt.Errorf("%w: reply while %s (verb=%s token=%s)", ErrIllegalTransition, status, c.Name(), c.token)
	}
	c.responded = true
	c.response = Response{Code: msg.Code, Raw: msg.Raw}
	c.mu.Unlock()

	data, err := c.def.Response.Evaluate(msg, c.parserContext())
	if err != nil {
		logging.Debugf("command response rejected verb=%s token=%s code=%d err=%v", c.Name(), c.token, msg.Code, err)
		if serr := c.MarkFailed(err); serr != nil {
			return fmt.Errorf("%w (%v)", err, serr)
		}
		return err
	}
	return c.transition(Succeeded, nil, func() { c.response.Data = data })
}
