package command

import (
	"maps"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/coreos/go-semver/semver"

	"github.com/danmuck/amcpctl/internal/protocol/response"
)

const (
	tokenLength   = 7
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Definition is the static description of one verb.
type Definition struct {
	// Verb is the first wire word, e.g. "CG".
	Verb string
	// Sub follows the address, e.g. "ADD" in "CG 1-20 ADD".
	Sub string
	// Alias is the catalog key for variants sharing a wire verb, e.g.
	// "MIXER FILL QUERY". Defaults to Name.
	Alias    string
	Mode     AddressingMode
	Params   []Signature
	Rules    []Rule
	Response response.Signature
	Summary  string
}

// Name is the catalog key, "CG ADD" or "PLAY".
func (d *Definition) Name() string {
	if d.Sub == "" {
		return d.Verb
	}
	return d.Verb + " " + d.Sub
}

// Key is the catalog key.
func (d *Definition) Key() string {
	if d.Alias != "" {
		return d.Alias
	}
	return d.Name()
}

// Response is the recorded reply. It is written once.
type Response struct {
	Code int    `json:"code" yaml:"code"`
	Raw  string `json:"raw" yaml:"raw"`
	Data any    `json:"data,omitempty" yaml:"data,omitempty"`
}

// Command is one single-use request.
type Command struct {
	def     *Definition
	token   string
	args    Args
	channel int
	layer   int
	created time.Time

	ruleCtx RuleContext
	caller  any

	params      []Signature
	payload     map[string]PayloadEntry
	validated   bool
	validateErr error

	mu        sync.Mutex
	status    Status
	response  Response
	responded bool
	err       error
	observers []func(Status)
	done      chan struct{}
}

// Option configures a command at construction.
type Option func(*Command)

// WithVersion sets the server version protocol logic rules see.
func WithVersion(v *semver.Version) Option {
	return func(c *Command) {
		c.ruleCtx.Version = v
	}
}

// WithCaller attaches caller state handed to the response parser.
func WithCaller(v any) Option {
	return func(c *Command) {
		c.caller = v
	}
}

// WithToken overrides the generated correlation token.
func WithToken(token string) Option {
	return func(c *Command) {
		if token != "" {
			c.token = token
		}
	}
}

// WithObserver registers a status observer before any transition happens.
func WithObserver(fn func(Status)) Option {
	return func(c *Command) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// New builds a command for def. It fails with an *AddressError when the
// addressing mode needs a channel or layer that args lack.
func New(def *Definition, args Args, opts ...Option) (*Command, error) {
	args = args.clone()
	channel, layer, err := def.Mode.resolveAddress(args.Fields)
	if err != nil {
		return nil, &AddressError{Verb: def.Name(), Mode: def.Mode, Err: err}
	}
	c := &Command{
		def:     def,
		token:   newToken(),
		args:    args,
		channel: channel,
		layer:   layer,
		created: time.Now(),
		params:  cloneSignatures(def.Params),
		payload: map[string]PayloadEntry{},
		status:  StatusNew,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newToken() string {
	b := make([]byte, tokenLength)
	for i := range b {
		b[i] = tokenAlphabet[rand.IntN(len(tokenAlphabet))]
	}
	return string(b)
}

func (c *Command) Definition() *Definition { return c.def }
func (c *Command) Name() string            { return c.def.Name() }
func (c *Command) Token() string           { return c.token }
func (c *Command) Channel() int            { return c.channel }
func (c *Command) Layer() int              { return c.layer }
func (c *Command) Created() time.Time      { return c.created }

// Address is the wire address fragment, possibly empty.
func (c *Command) Address() string {
	return FormatAddress(c.channel, c.layer)
}

// Params returns the signature list, rule-modified once validated.
func (c *Command) Params() []Signature {
	out := make([]Signature, len(c.params))
	copy(out, c.params)
	return out
}

// Payload returns the resolved entries keyed by parameter name.
func (c *Command) Payload() map[string]PayloadEntry {
	return maps.Clone(c.payload)
}

// Param returns the caller's structured value for name.
func (c *Command) Param(name string) (any, bool) {
	v, ok := c.args.Fields[name]
	return v, ok && v != nil
}

func (c *Command) Response() Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.response
}

// Err is the reason the command ended Invalid or Failed, if any.
func (c *Command) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// String is the human readable status line, e.g. "Sent command".
func (c *Command) String() string {
	return c.Status().Describe()
}

func (c *Command) parserContext() response.Context {
	return response.Context{Channel: c.channel, Layer: c.layer, Caller: c.caller}
}
