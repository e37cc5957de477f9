package command

import (
	"math"

	"github.com/danmuck/amcpctl/internal/protocol/response"
	"github.com/danmuck/amcpctl/internal/protocol/validate"
)

var (
	unit       = validate.Between(0, 1)
	unbounded  = validate.Unbounded()
	blendModes = validate.EnumOf(
		"NORMAL", "LIGHTEN", "DARKEN", "MULTIPLY", "AVERAGE", "ADD", "SUBTRACT", "DIFFERENCE",
		"NEGATION", "EXCLUSION", "SCREEN", "OVERLAY", "SOFT_LIGHT", "HARD_LIGHT", "COLOR_DODGE",
		"COLOR_BURN", "LINEAR_DODGE", "LINEAR_BURN", "LINEAR_LIGHT", "VIVID_LIGHT", "PIN_LIGHT",
		"HARD_MIX", "REFLECT", "GLOW", "PHOENIX", "CONTRAST", "SATURATION", "COLOR", "LUMINOSITY",
	).FromTokens()
	tweenRules = []Rule{Depends{Param: "tween", On: "duration"}}
)

// mixerSetter declares "MIXER <address> <SUB> values... [duration [tween]] [DEFER]".
func mixerSetter(sub, summary string, animated bool, values ...Signature) *Definition {
	params := append([]Signature(nil), values...)
	var rules []Rule
	if animated {
		params = append(params, Optional("duration", durations), Optional("tween", tweens))
		rules = tweenRules
	}
	params = append(params, Optional("defer", validate.Keyword{Keyword: "DEFER"}))
	return &Definition{
		Verb:     "MIXER",
		Sub:      sub,
		Mode:     LayerDefaultZero,
		Params:   params,
		Rules:    rules,
		Response: okStatus,
		Summary:  summary,
	}
}

// mixerQuery reads the current value of a mixer property.
func mixerQuery(sub string, sig response.Signature) *Definition {
	return &Definition{
		Verb:     "MIXER",
		Sub:      sub,
		Alias:    "MIXER " + sub + " QUERY",
		Mode:     LayerDefaultZero,
		Response: sig,
		Summary:  "Read the current " + sub + " value.",
	}
}

func vector(names ...string) response.Signature {
	return response.Signature{
		Code:      response.CodeOKSingleLine,
		Validator: response.NumberVector{},
		Parser:    response.MixerVector{Names: names},
	}
}

func mixerVerbs() []*Definition {
	return []*Definition{
		mixerSetter("KEYER", "Use the layer as a key for the layer above.", false,
			Required("keyer", validate.Bool{OnSuccess: 1, OnFail: 0})),
		mixerSetter("BLEND", "Set the blend mode of a layer.", false,
			Required("blendmode", blendModes)),
		mixerSetter("OPACITY", "Change the opacity of a layer.", true,
			Required("opacity", unit)),
		mixerSetter("BRIGHTNESS", "Change the brightness of a layer.", true,
			Required("brightness", unit)),
		mixerSetter("SATURATION", "Change the saturation of a layer.", true,
			Required("saturation", unit)),
		mixerSetter("CONTRAST", "Change the contrast of a layer.", true,
			Required("contrast", unit)),
		mixerSetter("LEVELS", "Adjust the input and output levels of a layer.", true,
			Required("minInput", unit),
			Required("maxInput", unit),
			Required("gamma", validate.PositiveNumber()),
			Required("minOutput", unit),
			Required("maxOutput", unit)),
		mixerSetter("FILL", "Scale and translate a layer.", true,
			Required("x", unbounded),
			Required("y", unbounded),
			Required("xScale", unbounded),
			Required("yScale", unbounded)),
		mixerSetter("CLIP", "Mask a layer to a rectangle.", true,
			Required("x", unbounded),
			Required("y", unbounded),
			Required("width", unbounded),
			Required("height", unbounded)),
		mixerSetter("ANCHOR", "Move the anchor point of a layer.", true,
			Required("x", unbounded),
			Required("y", unbounded)),
		mixerSetter("CROP", "Crop a layer.", true,
			Required("left", unit),
			Required("top", unit),
			Required("right", unit),
			Required("bottom", unit)),
		mixerSetter("ROTATION", "Rotate a layer around its anchor point.", true,
			Required("rotation", unbounded)),
		mixerSetter("VOLUME", "Change the audio volume of a layer.", true,
			Required("volume", validate.PositiveNumber())),
		{
			Verb:     "MIXER",
			Sub:      "MASTERVOLUME",
			Mode:     ChannelRequired,
			Params:   []Signature{Required("volume", validate.PositiveNumber())},
			Response: okStatus,
			Summary:  "Change the master volume of a channel.",
		},
		{
			Verb:     "MIXER",
			Sub:      "GRID",
			Mode:     ChannelRequired,
			Params:   []Signature{Required("resolution", validate.PositiveRoundBetween(1, math.MaxInt16)), Optional("duration", durations), Optional("tween", tweens)},
			Rules:    tweenRules,
			Response: okStatus,
			Summary:  "Arrange the layers of a channel in a grid.",
		},
		{Verb: "MIXER", Sub: "COMMIT", Mode: ChannelRequired, Response: okStatus, Summary: "Apply deferred mixer transforms."},
		{Verb: "MIXER", Sub: "CLEAR", Mode: ChannelRequiredLayerOptional, Response: okStatus, Summary: "Reset mixer transforms."},
		mixerQuery("OPACITY", singleNumber),
		mixerQuery("VOLUME", singleNumber),
		mixerQuery("FILL", vector("x", "y", "xScale", "yScale")),
		mixerQuery("CLIP", vector("x", "y", "width", "height")),
		mixerQuery("CROP", vector("left", "top", "right", "bottom")),
		mixerQuery("LEVELS", vector("minInput", "maxInput", "gamma", "minOutput", "maxOutput")),
	}
}
