package command

import (
	"errors"
	"testing"

	"github.com/danmuck/amcpctl/internal/testutil/testlog"
)

func TestChannelLayerRequired(t *testing.T) {
	testlog.Start(t)
	def := &Definition{Verb: "STOP", Mode: ChannelLayerRequired}

	cmd, err := New(def, Fields(map[string]any{"channel": 1}))
	if cmd != nil || !errors.Is(err, ErrMissingLayer) {
		t.Fatalf("expected construction failure, got cmd=%v err=%v", cmd, err)
	}
	var aerr *AddressError
	if !errors.As(err, &aerr) || aerr.Mode != ChannelLayerRequired || aerr.Verb != "STOP" {
		t.Fatalf("expected AddressError, got %#v", err)
	}

	cmd, err = New(def, Fields(map[string]any{"channel": 1, "layer": 2}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cmd.Address() != "1-2" {
		t.Fatalf("unexpected address %q", cmd.Address())
	}
}

func TestAddressingModes(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name    string
		mode    AddressingMode
		fields  map[string]any
		address string
		err     error
	}{
		{"optional empty", ChannelOrLayerOptional, nil, "", nil},
		{"optional channel", ChannelOrLayerOptional, map[string]any{"channel": 2}, "2", nil},
		{"optional layer without channel", ChannelOrLayerOptional, map[string]any{"layer": 5}, "", nil},
		{"optional both", ChannelOrLayerOptional, map[string]any{"channel": 2, "layer": 5}, "2-5", nil},
		{"channel required", ChannelRequired, map[string]any{"channel": 3, "layer": 5}, "3", nil},
		{"channel required missing", ChannelRequired, map[string]any{"layer": 5}, "", ErrMissingChannel},
		{"both required missing channel", ChannelLayerRequired, map[string]any{"layer": 1}, "", ErrMissingChannel},
		{"layer optional", ChannelRequiredLayerOptional, map[string]any{"channel": 1}, "1", nil},
		{"layer optional given", ChannelRequiredLayerOptional, map[string]any{"channel": 1, "layer": 0}, "1-0", nil},
		{"layer default zero", LayerDefaultZero, map[string]any{"channel": 1}, "1-0", nil},
		{"layer default cg", LayerDefaultCG, map[string]any{"channel": 1}, "1-9999", nil},
		{"layer default cg missing channel", LayerDefaultCG, nil, "", ErrMissingChannel},
		{"unaddressed ignores input", Unaddressed, map[string]any{"channel": 1, "layer": 1}, "", nil},
		{"channel clamped low", ChannelRequired, map[string]any{"channel": 0}, "1", nil},
		{"channel clamped high", ChannelRequired, map[string]any{"channel": 12000}, "9999", nil},
		{"layer clamped", LayerDefaultZero, map[string]any{"channel": 1, "layer": -4}, "1-0", nil},
		{"numeric strings", ChannelRequiredLayerOptional, map[string]any{"channel": "4", "layer": "20"}, "4-20", nil},
		{"non numeric channel", ChannelRequired, map[string]any{"channel": "one"}, "", ErrMissingChannel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := New(&Definition{Verb: "TEST", Mode: tc.mode}, Fields(tc.fields))
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if cmd.Address() != tc.address {
				t.Fatalf("address mismatch: got %q want %q", cmd.Address(), tc.address)
			}
		})
	}
}

func TestParseAddress(t *testing.T) {
	testlog.Start(t)
	if ch, layer, ok := ParseAddress("1-10"); !ok || ch != 1 || layer != 10 {
		t.Fatalf("parse 1-10: %d %d %v", ch, layer, ok)
	}
	if ch, layer, ok := ParseAddress("3"); !ok || ch != 3 || layer != NoLayer {
		t.Fatalf("parse 3: %d %d %v", ch, layer, ok)
	}
	for _, s := range []string{"", "0", "a-1", "1-", "1-x", "AMB"} {
		if _, _, ok := ParseAddress(s); ok {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}
