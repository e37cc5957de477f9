package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/amcpctl/internal/testutil/testlog"
)

func TestCatalogLookup(t *testing.T) {
	testlog.Start(t)
	cat := Default()
	if _, ok := cat.Lookup("  mixer   fill "); !ok {
		t.Fatalf("lookup should normalize case and spacing")
	}
	if _, err := cat.Build("NOPE", Args{}); !errors.Is(err, ErrUnknownVerb) {
		t.Fatalf("expected ErrUnknownVerb, got %v", err)
	}
	if _, err := NewCatalog(&Definition{Verb: "A"}, &Definition{Verb: "a"}); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestEveryVerbConstructs(t *testing.T) {
	testlog.Start(t)
	cat := Default()
	keys := cat.Keys()
	if len(keys) < 60 {
		t.Fatalf("catalog unexpectedly small: %d", len(keys))
	}
	for _, key := range keys {
		if _, err := cat.Build(key, Fields(map[string]any{"channel": 1, "layer": 1})); err != nil {
			t.Fatalf("%s: %v", key, err)
		}
	}
}

func TestWireRoundTrip(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		key     string
		fields  map[string]any
		name    string
		channel int
		layer   int
	}{
		{"CLEAR", map[string]any{"channel": 1}, "CLEAR", 1, NoLayer},
		{"PLAY", map[string]any{"channel": 2, "layer": 10, "clip": "AMB", "loop": true}, "PLAY", 2, 10},
		{"CG ADD", map[string]any{"channel": 1, "flashLayer": 1, "template": "t", "playOnLoad": false}, "CG ADD", 1, CGHostLayer},
		{"MIXER OPACITY", map[string]any{"channel": 1, "layer": 5, "opacity": 0.5, "duration": 10}, "MIXER OPACITY", 1, 5},
		{"INFO TEMPLATE", map[string]any{"template": "lower"}, "INFO TEMPLATE", NoChannel, NoLayer},
		{"CLS", nil, "CLS", NoChannel, NoLayer},
		{"MIXER MASTERVOLUME", map[string]any{"channel": 3, "volume": 0.8}, "MIXER MASTERVOLUME", 3, NoLayer},
		{"MIXER FILL QUERY", map[string]any{"channel": 1, "layer": 1}, "MIXER FILL", 1, 1},
		{"MIXER OPACITY QUERY", map[string]any{"channel": 2}, "MIXER OPACITY", 2, 0},
	}
	for _, tc := range cases {
		cmd := build(t, tc.key, tc.fields)
		wire := compile(t, cmd)
		got, err := ParseWire(wire, Default())
		if err != nil {
			t.Fatalf("%s: parse %q: %v", tc.key, wire, err)
		}
		if got.Name != tc.name || got.Key != tc.key || got.Channel != tc.channel || got.Layer != tc.layer {
			t.Fatalf("%s: round trip mismatch for %q: %+v", tc.key, wire, got)
		}
		if got.Channel != cmd.Channel() || got.Layer != cmd.Layer() {
			t.Fatalf("%s: command/wire address mismatch %d-%d vs %+v", tc.key, cmd.Channel(), cmd.Layer(), got)
		}
	}
	if _, err := ParseWire("FROB 1", Default()); !errors.Is(err, ErrUnknownVerb) {
		t.Fatalf("expected unknown verb, got %v", err)
	}
	if _, err := ParseWire("   ", Default()); !errors.Is(err, ErrMalformedWire) {
		t.Fatalf("expected malformed wire, got %v", err)
	}
}

func TestSplitLineHonorsQuotes(t *testing.T) {
	testlog.Start(t)
	got := SplitLine(`CG 1-20 ADD 1 "LOWER THIRD" 1 "say \"hi\"" ""`)
	want := []string{"CG", "1-20", "ADD", "1", "LOWER THIRD", "1", `say "hi"`, ""}
	if strings.Join(got, "|") != strings.Join(want, "|") || len(got) != len(want) {
		t.Fatalf("split mismatch: %q", got)
	}

	w, err := ParseWire(`PLAY 1-10 "MY CLIP" LOOP`, Default())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if w.Name != "PLAY" || w.Channel != 1 || w.Layer != 10 || len(w.Params) != 2 || w.Params[0] != "MY CLIP" {
		t.Fatalf("unexpected wire %+v", w)
	}
}
