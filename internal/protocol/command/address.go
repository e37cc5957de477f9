package command

import (
	"math"
	"strconv"
	"strings"

	"github.com/danmuck/amcpctl/internal/protocol/validate"
)

// AddressingMode is the channel/layer topology of a verb.
type AddressingMode int

const (
	// ChannelOrLayerOptional addresses nothing, a channel, or a layer.
	ChannelOrLayerOptional AddressingMode = iota
	ChannelRequired
	ChannelLayerRequired
	ChannelRequiredLayerOptional
	// LayerDefaultZero falls back to layer 0.
	LayerDefaultZero
	// LayerDefaultCG falls back to the 9999 template host layer.
	LayerDefaultCG
	// Unaddressed verbs ignore channel and layer.
	Unaddressed
)

const (
	NoLayer     = -1
	NoChannel   = -1
	CGHostLayer = 9999
)

var (
	channelRange = validate.PositiveBetween(1, 9999)
	layerRange   = validate.PositiveBetween(0, 9999)
)

func (m AddressingMode) String() string {
	switch m {
	case ChannelOrLayerOptional:
		return "channel_or_layer_optional"
	case ChannelRequired:
		return "channel_required"
	case ChannelLayerRequired:
		return "channel_layer_required"
	case ChannelRequiredLayerOptional:
		return "channel_required_layer_optional"
	case LayerDefaultZero:
		return "layer_default_zero"
	case LayerDefaultCG:
		return "layer_default_cg"
	case Unaddressed:
		return "unaddressed"
	default:
		return "unknown"
	}
}

// resolveAddress extracts channel and layer from fields according to m.
func (m AddressingMode) resolveAddress(fields map[string]any) (int, int, error) {
	channel, hasChannel := addressNumber(fields, "channel", channelRange)
	layer, hasLayer := addressNumber(fields, "layer", layerRange)

	switch m {
	case Unaddressed:
		return NoChannel, NoLayer, nil
	case ChannelOrLayerOptional:
		if !hasChannel {
			return NoChannel, NoLayer, nil
		}
		if !hasLayer {
			return channel, NoLayer, nil
		}
		return channel, layer, nil
	}

	if !hasChannel {
		return NoChannel, NoLayer, ErrMissingChannel
	}
	switch m {
	case ChannelRequired:
		return channel, NoLayer, nil
	case ChannelLayerRequired:
		if !hasLayer {
			return channel, NoLayer, ErrMissingLayer
		}
	case LayerDefaultZero:
		if !hasLayer {
			layer = 0
		}
	case LayerDefaultCG:
		if !hasLayer {
			layer = CGHostLayer
		}
	case ChannelRequiredLayerOptional:
		if !hasLayer {
			layer = NoLayer
		}
	}
	return channel, layer, nil
}

func addressNumber(fields map[string]any, name string, bounds validate.Number) (int, bool) {
	raw, ok := fields[name]
	if !ok || raw == nil {
		return 0, false
	}
	v, ok := validate.ToFloat(raw)
	if !ok {
		return 0, false
	}
	clamped, ok := bounds.Clamp(v)
	if !ok {
		return 0, false
	}
	return int(math.Trunc(clamped)), true
}

// FormatAddress renders "", "<channel>" or "<channel>-<layer>".
func FormatAddress(channel, layer int) string {
	if channel < 1 {
		return ""
	}
	if layer < 0 {
		return strconv.Itoa(channel)
	}
	return strconv.Itoa(channel) + "-" + strconv.Itoa(layer)
}

// ParseAddress reads "<channel>" or "<channel>-<layer>". Layer is NoLayer
// when absent.
func ParseAddress(s string) (int, int, bool) {
	head, tail, hasLayer := strings.Cut(s, "-")
	channel, err := strconv.Atoi(head)
	if err != nil || channel < 1 {
		return 0, 0, false
	}
	if !hasLayer {
		return channel, NoLayer, true
	}
	layer, err := strconv.Atoi(tail)
	if err != nil || layer < 0 {
		return 0, 0, false
	}
	return channel, layer, true
}
