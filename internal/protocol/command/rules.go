package command

import (
	"slices"

	"github.com/coreos/go-semver/semver"

	"github.com/danmuck/amcpctl/internal/protocol/version"
)

// RuleContext is the ambient state rules may consult.
type RuleContext struct {
	// Version is the negotiated server version; nil means newest.
	Version *semver.Version
}

// Rule rewrites a signature list after resolution. Rules must not mutate
// their input and must be idempotent for a fixed context.
type Rule interface {
	Apply(sigs []Signature, ctx RuleContext) []Signature
}

func resolvedAt(sigs []Signature, name string) bool {
	i := indexOf(sigs, name)
	return i >= 0 && sigs[i].Resolved && sigs[i].Payload != nil
}

func without(sigs []Signature, drop func(Signature) bool) []Signature {
	out := make([]Signature, 0, len(sigs))
	for _, sig := range sigs {
		if !drop(sig) {
			out = append(out, sig)
		}
	}
	return out
}

// Depends drops Param unless On resolved.
type Depends struct {
	Param string
	On    string
}

func (r Depends) Apply(sigs []Signature, _ RuleContext) []Signature {
	if resolvedAt(sigs, r.On) {
		return sigs
	}
	return without(sigs, func(s Signature) bool { return s.Name == r.Param })
}

// Coupled keeps its parameters only when all of them resolved.
type Coupled struct {
	Params []string
}

func (r Coupled) Apply(sigs []Signature, _ RuleContext) []Signature {
	for _, name := range r.Params {
		if !resolvedAt(sigs, name) {
			return without(sigs, func(s Signature) bool { return slices.Contains(r.Params, s.Name) })
		}
	}
	return sigs
}

// OneOf keeps the first resolved parameter of the group, in Params order,
// and drops the others.
type OneOf struct {
	Params []string
}

func (r OneOf) Apply(sigs []Signature, _ RuleContext) []Signature {
	keep := ""
	for _, name := range r.Params {
		if resolvedAt(sigs, name) {
			keep = name
			break
		}
	}
	if keep == "" {
		return sigs
	}
	return without(sigs, func(s Signature) bool {
		return s.Name != keep && slices.Contains(r.Params, s.Name) && s.Resolved
	})
}

// MinVersion drops Param when the server predates Version.
type MinVersion struct {
	Param   string
	Version semver.Version
}

func (r MinVersion) Apply(sigs []Signature, ctx RuleContext) []Signature {
	if version.AtLeast(ctx.Version, r.Version) {
		return sigs
	}
	return without(sigs, func(s Signature) bool { return s.Name == r.Param })
}

// MaxVersion drops Param once the server reaches Version.
type MaxVersion struct {
	Param   string
	Version semver.Version
}

func (r MaxVersion) Apply(sigs []Signature, ctx RuleContext) []Signature {
	if !version.AtLeast(ctx.Version, r.Version) {
		return sigs
	}
	return without(sigs, func(s Signature) bool { return s.Name == r.Param })
}
