package version

import (
	"errors"
	"testing"

	"github.com/coreos/go-semver/semver"
	"github.com/danmuck/amcpctl/internal/testutil/testlog"
)

func TestParseForms(t *testing.T) {
	testlog.Start(t)
	cases := map[string]semver.Version{
		"2.0.7":                 V207,
		"207":                   V207,
		"218":                   V218,
		"2.2":                   V220,
		"2.0.7.e9fc25a Stable":  V207,
		"2.1.8.12205 e2ab4eb":   V218,
		"v2.2.0":                V220,
		"2.3.0.7819 Stable NRK": {Major: 2, Minor: 3},
	}
	for raw, want := range cases {
		got, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parse %q = %s want %s", raw, got, want.String())
		}
	}
}

func TestParseRejects(t *testing.T) {
	testlog.Start(t)
	for _, raw := range []string{"", "abc", "2", "21a", "x.y"} {
		if _, err := Parse(raw); !errors.Is(err, ErrInvalidVersion) {
			t.Fatalf("parse %q: expected ErrInvalidVersion, got %v", raw, err)
		}
	}
}

func TestCapabilities(t *testing.T) {
	testlog.Start(t)
	if !AtLeast(nil, V220) || Before(nil, V207) {
		t.Fatalf("unknown version must behave as newest")
	}
	v := MustParse("218")
	if AtLeast(v, V220) || !AtLeast(v, V210) {
		t.Fatalf("unexpected AtLeast results for %s", v)
	}
	if !Before(v, V220) || Before(v, V218) {
		t.Fatalf("unexpected Before results for %s", v)
	}
	if SupportsRequestFraming(v) || !SupportsRequestFraming(MustParse("2.2.0")) {
		t.Fatalf("request framing is a 2.2 feature")
	}
	if SupportsRequestFraming(nil) {
		t.Fatalf("request framing must not be assumed for unknown servers")
	}
}
