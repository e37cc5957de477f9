package command

import (
	"errors"
	"fmt"

	"github.com/danmuck/amcpctl/internal/logging"
	"github.com/danmuck/amcpctl/internal/protocol/validate"
)

// ValidateParams resolves every signature, applies protocol logic rules and
// builds the payload. Success moves StatusNew to Initialized, failure to Invalid.
// The outcome is cached; later calls return it unchanged.
func (c *Command) ValidateParams() error {
	if c.validated {
		return c.validateErr
	}
	c.validated = true

	params, err := c.resolveParams()
	if err != nil {
		c.validateErr = err
		logging.Debugf("command invalid verb=%s token=%s err=%v", c.Name(), c.token, err)
		if serr := c.transition(Invalid, err, nil); serr != nil {
			return errors.Join(err, serr)
		}
		return err
	}

	c.params = params
	for _, sig := range params {
		if !sig.Resolved || sig.Payload == nil {
			continue
		}
		c.payload[sig.Name] = PayloadEntry{Key: sig.Key, Value: sig.Payload, Raw: sig.Raw}
	}
	return c.SetStatus(Initialized)
}

func (c *Command) resolveParams() ([]Signature, error) {
	params := cloneSignatures(c.params)

	for i := range params {
		if !params[i].Required {
			continue
		}
		if err := c.resolveParam(&params[i]); err != nil {
			if errors.Is(err, validate.ErrNotCommand) {
				return nil, err
			}
			return nil, &ParamError{Verb: c.Name(), Param: params[i].Name, Err: err}
		}
	}

	for i := range params {
		if params[i].Required {
			continue
		}
		if err := c.resolveParam(&params[i]); errors.Is(err, validate.ErrNotCommand) {
			return nil, err
		}
	}

	for _, rule := range c.def.Rules {
		params = rule.Apply(params, c.ruleCtx)
	}

	for _, sig := range params {
		if sig.Required && sig.Resolved && sig.Payload == nil {
			return nil, &ParamError{Verb: c.Name(), Param: sig.Name, Err: fmt.Errorf("%w: empty payload", validate.ErrUnresolved)}
		}
	}
	return params, nil
}

// resolveParam looks input up by field name, falling back to the token list.
func (c *Command) resolveParam(sig *Signature) error {
	var in validate.Input
	if v, ok := c.args.Fields[sig.Name]; ok {
		if v == nil {
			return fmt.Errorf("%w: %s is nil", validate.ErrUnresolved, sig.Name)
		}
		in = validate.Field{Value: v}
	} else if len(c.args.Tokens) > 0 {
		in = validate.Tokens(c.args.Tokens)
	} else {
		return fmt.Errorf("%w: %s not supplied", validate.ErrUnresolved, sig.Name)
	}

	res, err := sig.Validator.Resolve(in, sig.lookupKey())
	if err != nil {
		return err
	}
	sig.Resolved = true
	sig.Payload = res.Payload
	sig.Raw = res.Raw
	return nil
}
