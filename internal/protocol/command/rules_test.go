package command

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danmuck/amcpctl/internal/protocol/validate"
	"github.com/danmuck/amcpctl/internal/protocol/version"
	"github.com/danmuck/amcpctl/internal/testutil/testlog"
)

func resolved(name string) Signature {
	s := Optional(name, validate.String{})
	s.Resolved, s.Payload, s.Raw = true, name, name
	return s
}

func names(sigs []Signature) []string {
	out := make([]string, 0, len(sigs))
	for _, s := range sigs {
		out = append(out, s.Name)
	}
	return out
}

func TestRulesAreIdempotent(t *testing.T) {
	testlog.Start(t)
	sigs := []Signature{
		resolved("transition"),
		Optional("transitionDuration", validate.String{}),
		resolved("duration"),
		resolved("tween"),
		resolved("stingProperties"),
		resolved("transitionDirection"),
		resolved("x"),
		Optional("y", validate.String{}),
		resolved("clearOn404"),
		resolved("filter"),
	}
	old := RuleContext{Version: version.MustParse("2.0.7")}
	rules := []Rule{
		Depends{Param: "tween", On: "missing"},
		Depends{Param: "transitionDuration", On: "transition"},
		Coupled{Params: []string{"x", "y"}},
		OneOf{Params: []string{"stingProperties", "transitionDirection"}},
		MinVersion{Param: "clearOn404", Version: version.V220},
		MaxVersion{Param: "filter", Version: version.V207},
	}
	for _, rule := range rules {
		once := rule.Apply(sigs, old)
		twice := rule.Apply(once, old)
		if diff := cmp.Diff(names(once), names(twice)); diff != "" {
			t.Fatalf("%T not idempotent (-once +twice):\n%s", rule, diff)
		}
	}
}

func TestRuleEffects(t *testing.T) {
	testlog.Start(t)
	sigs := []Signature{resolved("a"), resolved("b"), Optional("c", validate.String{}), resolved("d")}
	ctx := RuleContext{}

	if got := names(Depends{Param: "b", On: "c"}.Apply(sigs, ctx)); !cmp.Equal(got, []string{"a", "c", "d"}) {
		t.Fatalf("depends: %v", got)
	}
	if got := names(Depends{Param: "b", On: "a"}.Apply(sigs, ctx)); !cmp.Equal(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("depends satisfied: %v", got)
	}
	if got := names(Coupled{Params: []string{"a", "c"}}.Apply(sigs, ctx)); !cmp.Equal(got, []string{"b", "d"}) {
		t.Fatalf("coupled: %v", got)
	}
	if got := names(OneOf{Params: []string{"d", "a"}}.Apply(sigs, ctx)); !cmp.Equal(got, []string{"b", "c", "d"}) {
		t.Fatalf("one of: %v", got)
	}
	if got := names(MinVersion{Param: "a", Version: version.V220}.Apply(sigs, RuleContext{Version: version.MustParse("2.1.8")})); !cmp.Equal(got, []string{"b", "c", "d"}) {
		t.Fatalf("min version: %v", got)
	}
	if got := names(MinVersion{Param: "a", Version: version.V220}.Apply(sigs, ctx)); len(got) != 4 {
		t.Fatalf("unknown version is treated as newest: %v", got)
	}
	if got := names(MaxVersion{Param: "a", Version: version.V220}.Apply(sigs, ctx)); !cmp.Equal(got, []string{"b", "c", "d"}) {
		t.Fatalf("max version: %v", got)
	}

	before := names(sigs)
	Coupled{Params: []string{"a", "c"}}.Apply(sigs, ctx)
	if !cmp.Equal(before, names(sigs)) {
		t.Fatalf("rules must not mutate their input")
	}
}
