package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	fullRoute = regexp.MustCompile(`^route://\d+(-\d+)?$`)
	bareRoute = regexp.MustCompile(`^\d+(-\d+)?$`)
)

const routePrefix = "route://"

// RouteTarget is the structured form of a route source.
// Layer 0 means "no layer".
type RouteTarget struct {
	Channel int
	Layer   int
}

// Route validates route:// producer sources.
type Route struct{}

func (Route) Resolve(in Input, _ string) (Resolved, error) {
	switch t := in.(type) {
	case Tokens:
		for _, tok := range t {
			if res, ok := routeFromString(tok); ok {
				return res, nil
			}
		}
	case Field:
		switch v := t.Value.(type) {
		case string:
			if res, ok := routeFromString(v); ok {
				return res, nil
			}
		case RouteTarget:
			if res, ok := routeFrom(float64(v.Channel), float64(v.Layer)); ok {
				return res, nil
			}
		case map[string]any:
			channel, _ := ToFloat(v["channel"])
			layer, _ := ToFloat(v["layer"])
			if res, ok := routeFrom(channel, layer); ok {
				return res, nil
			}
		}
	}
	return Resolved{}, unresolved("not a route")
}

func routeFromString(s string) (Resolved, bool) {
	s = strings.TrimSpace(s)
	switch {
	case fullRoute.MatchString(s):
		return Value(s), true
	case bareRoute.MatchString(s):
		return Resolved{Payload: routePrefix + s, Raw: s}, true
	default:
		return Resolved{}, false
	}
}

var (
	routeChannels = PositiveBetween(1, 9999)
	routeLayers   = PositiveBetween(0, 9999)
)

// routeFrom clamps structured coordinates the way command addresses are
// clamped, truncating fractions.
func routeFrom(channel, layer float64) (Resolved, bool) {
	if !(channel >= 1) {
		return Resolved{}, false
	}
	ch, _ := routeChannels.Clamp(channel)
	raw := strconv.Itoa(int(math.Trunc(ch)))
	if l, ok := routeLayers.Clamp(layer); ok && math.Trunc(l) > 0 {
		raw += "-" + strconv.Itoa(int(math.Trunc(l)))
	}
	return Resolved{Payload: routePrefix + raw, Raw: raw}, true
}
