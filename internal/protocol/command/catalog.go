package command

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Catalog indexes verb definitions by key.
type Catalog struct {
	defs map[string]*Definition
}

// NewCatalog indexes defs. Keys must be unique.
func NewCatalog(defs ...*Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]*Definition, len(defs))}
	for _, def := range defs {
		key := strings.ToUpper(def.Key())
		if _, exists := c.defs[key]; exists {
			return nil, fmt.Errorf("command: duplicate catalog key %q", key)
		}
		c.defs[key] = def
	}
	return c, nil
}

// Lookup is case-insensitive.
func (c *Catalog) Lookup(key string) (*Definition, bool) {
	def, ok := c.defs[strings.ToUpper(strings.Join(strings.Fields(key), " "))]
	return def, ok
}

// Keys returns every catalog key, sorted.
func (c *Catalog) Keys() []string {
	out := make([]string, 0, len(c.defs))
	for key := range c.defs {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Build looks key up and constructs a command from args.
func (c *Catalog) Build(key string, args Args, opts ...Option) (*Command, error) {
	def, ok := c.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVerb, key)
	}
	return New(def, args, opts...)
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	defs := make([]*Definition, 0, 96)
	defs = append(defs, playoutVerbs()...)
	defs = append(defs, templateVerbs()...)
	defs = append(defs, mixerVerbs()...)
	defs = append(defs, queryVerbs()...)
	defs = append(defs, systemVerbs()...)
	c, err := NewCatalog(defs...)
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the built-in AMCP verb catalog.
func Default() *Catalog {
	return defaultCatalog()
}
