package command

import (
	"math"

	"github.com/danmuck/amcpctl/internal/protocol/response"
	"github.com/danmuck/amcpctl/internal/protocol/validate"
	"github.com/danmuck/amcpctl/internal/protocol/version"
)

var (
	transitions = validate.EnumOf("CUT", "MIX", "PUSH", "WIPE", "SLIDE", "STING")
	directions  = validate.EnumOf("LEFT", "RIGHT")
	tweens      = tweenTable()
	durations   = validate.Number{Min: 0, Max: math.MaxInt32, Positive: true, Round: true}
	layerIndex  = validate.PositiveRoundBetween(0, 9999)

	okStatus      = response.Signature{Code: response.CodeOK}
	noReply       = response.Signature{}
	xmlDocument   = response.Signature{Code: response.CodeOKSingleLine, Validator: response.XML{}}
	lineList      = response.Signature{Code: response.CodeOKMultiLine, Validator: response.List{}}
	singleNumber  = response.Signature{Code: response.CodeOKSingleLine, Validator: response.NumberVector{}, Parser: response.Number{}}
	transitionSet = []Rule{
		Depends{Param: "transitionDuration", On: "transition"},
		Depends{Param: "transitionEasing", On: "transition"},
		Depends{Param: "transitionEasing", On: "transitionDuration"},
		Depends{Param: "transitionDirection", On: "transition"},
		Depends{Param: "stingProperties", On: "transition"},
	}
)

func tweenTable() validate.Enum {
	symbols := []string{"LINEAR", "EASENONE"}
	for _, curve := range []string{"QUAD", "CUBIC", "QUART", "QUINT", "SINE", "EXPO", "CIRC", "ELASTIC", "BACK", "BOUNCE"} {
		for _, shape := range []string{"EASEIN", "EASEOUT", "EASEINOUT", "EASEOUTIN"} {
			symbols = append(symbols, shape+curve)
		}
	}
	return validate.EnumOf(symbols...)
}

// playbackParams is the shared LOADBG/LOAD/PLAY parameter list.
func playbackParams(clip Signature, auto bool) []Signature {
	params := []Signature{
		clip,
		Optional("loop", validate.Keyword{Keyword: "LOOP"}),
		Optional("transition", transitions),
		Optional("transitionDuration", durations),
		Optional("transitionEasing", tweens),
		Optional("transitionDirection", directions),
		Optional("stingProperties", validate.TransitionProperties{}),
		Optional("seek", validate.Frame{Keyword: "SEEK"}).Keyed("SEEK"),
		Optional("length", validate.Frame{Keyword: "LENGTH"}).Keyed("LENGTH"),
		Optional("filter", validate.After{Keyword: "FILTER", Validator: validate.Quoted{}}).Keyed("FILTER"),
		Optional("videoFilter", validate.After{Keyword: "VF", Validator: validate.Quoted{}}).Keyed("VF"),
		Optional("audioFilter", validate.After{Keyword: "AF", Validator: validate.Quoted{}}).Keyed("AF"),
	}
	if auto {
		params = append(params, Optional("auto", validate.Keyword{Keyword: "AUTO"}))
	}
	return append(params, Optional("clearOn404", validate.Keyword{Keyword: "CLEAR_ON_404"}))
}

func playbackRules() []Rule {
	rules := append([]Rule(nil), transitionSet...)
	return append(rules,
		OneOf{Params: []string{"stingProperties", "transitionDirection"}},
		MinVersion{Param: "clearOn404", Version: version.V220},
		// 2.2 split FILTER into separate video and audio filter graphs.
		MaxVersion{Param: "filter", Version: version.V220},
		MinVersion{Param: "videoFilter", Version: version.V220},
		MinVersion{Param: "audioFilter", Version: version.V220},
	)
}

func playoutVerbs() []*Definition {
	return []*Definition{
		{
			Verb:     "LOADBG",
			Mode:     LayerDefaultZero,
			Params:   playbackParams(Required("clip", validate.ClipName{}), true),
			Rules:    playbackRules(),
			Response: okStatus,
			Summary:  "Load a clip in the background and prepare it for playback.",
		},
		{
			Verb:     "LOAD",
			Mode:     LayerDefaultZero,
			Params:   playbackParams(Required("clip", validate.ClipName{}), false),
			Rules:    playbackRules(),
			Response: okStatus,
			Summary:  "Load a clip to the foreground and show its first frame.",
		},
		{
			Verb:     "PLAY",
			Mode:     LayerDefaultZero,
			Params:   playbackParams(Optional("clip", validate.ClipName{}), false),
			Rules:    playbackRules(),
			Response: okStatus,
			Summary:  "Play a clip, or the clip loaded in the background.",
		},
		{
			Verb:  "PLAY",
			Alias: "PLAY ROUTE",
			Mode:  LayerDefaultZero,
			Params: []Signature{
				Required("route", validate.Route{}),
				Optional("transition", transitions),
				Optional("transitionDuration", durations),
				Optional("transitionEasing", tweens),
				Optional("transitionDirection", directions),
			},
			Rules:    transitionSet,
			Response: okStatus,
			Summary:  "Route another channel or layer onto this layer.",
		},
		{Verb: "PAUSE", Mode: LayerDefaultZero, Response: okStatus, Summary: "Pause playback on a layer."},
		{Verb: "RESUME", Mode: LayerDefaultZero, Response: okStatus, Summary: "Resume a paused layer."},
		{Verb: "STOP", Mode: LayerDefaultZero, Response: okStatus, Summary: "Stop and remove the foreground clip."},
		{Verb: "CLEAR", Mode: ChannelRequiredLayerOptional, Response: okStatus, Summary: "Remove all clips from a channel or layer."},
		{
			Verb: "CALL",
			Mode: LayerDefaultZero,
			Params: []Signature{
				Optional("seek", validate.Frame{Keyword: "SEEK"}).Keyed("SEEK"),
				Optional("length", validate.Frame{Keyword: "LENGTH"}).Keyed("LENGTH"),
				Optional("loop", validate.Bool{OnSuccess: 1, OnFail: 0}).Keyed("LOOP"),
			},
			Response: okStatus,
			Summary:  "Call a method on the foreground producer.",
		},
		{
			Verb:     "SWAP",
			Mode:     ChannelRequiredLayerOptional,
			Params:   []Signature{Required("target", validate.String{}), Optional("transforms", validate.Keyword{Keyword: "TRANSFORMS"})},
			Response: okStatus,
			Summary:  "Swap layers or channels.",
		},
		{
			Verb:     "ADD",
			Mode:     ChannelRequired,
			Params:   []Signature{Required("consumer", validate.String{Greedy: true})},
			Response: okStatus,
			Summary:  "Add a consumer to a channel.",
		},
		{
			Verb:     "REMOVE",
			Mode:     ChannelRequiredLayerOptional,
			Params:   []Signature{Optional("consumer", validate.String{Greedy: true})},
			Response: okStatus,
			Summary:  "Remove a consumer from a channel.",
		},
		{Verb: "PRINT", Mode: ChannelRequired, Response: okStatus, Summary: "Save a snapshot of the channel output."},
		{
			Verb:     "SET",
			Sub:      "MODE",
			Mode:     ChannelRequired,
			Params:   []Signature{Required("format", validate.ChannelFormat())},
			Response: okStatus,
			Summary:  "Change the video format of a channel.",
		},
		{
			Verb:     "LOCK",
			Mode:     ChannelRequired,
			Params:   []Signature{Required("action", validate.EnumOf("ACQUIRE", "RELEASE", "CLEAR").FromTokens()), Optional("phrase", validate.After{Keyword: "PHRASE", Validator: validate.String{}})},
			Response: okStatus,
			Summary:  "Acquire or release exclusive access to a channel.",
		},
	}
}

func templateVerbs() []*Definition {
	hostLayer := func() Signature { return Required("flashLayer", layerIndex) }
	return []*Definition{
		{
			Verb: "CG",
			Sub:  "ADD",
			Mode: LayerDefaultCG,
			Params: []Signature{
				hostLayer(),
				Required("template", validate.ClipName{}),
				Required("playOnLoad", validate.Bool{OnSuccess: 1, OnFail: 0}),
				Optional("data", validate.TemplateData{}),
			},
			Response: okStatus,
			Summary:  "Load a template into the template host.",
		},
		{Verb: "CG", Sub: "PLAY", Mode: LayerDefaultCG, Params: []Signature{hostLayer()}, Response: okStatus, Summary: "Play a loaded template."},
		{Verb: "CG", Sub: "STOP", Mode: LayerDefaultCG, Params: []Signature{hostLayer()}, Response: okStatus, Summary: "Stop a playing template."},
		{Verb: "CG", Sub: "NEXT", Mode: LayerDefaultCG, Params: []Signature{hostLayer()}, Response: okStatus, Summary: "Trigger the next step of a template."},
		{Verb: "CG", Sub: "REMOVE", Mode: LayerDefaultCG, Params: []Signature{hostLayer()}, Response: okStatus, Summary: "Remove a template."},
		{Verb: "CG", Sub: "CLEAR", Mode: LayerDefaultCG, Response: okStatus, Summary: "Clear the template host."},
		{
			Verb:     "CG",
			Sub:      "UPDATE",
			Mode:     LayerDefaultCG,
			Params:   []Signature{hostLayer(), Required("data", validate.TemplateData{})},
			Response: okStatus,
			Summary:  "Send new data to a template.",
		},
		{
			Verb:     "CG",
			Sub:      "INVOKE",
			Mode:     LayerDefaultCG,
			Params:   []Signature{hostLayer(), Required("method", validate.String{})},
			Response: okStatus,
			Summary:  "Call a method on a template.",
		},
		{
			Verb:     "CG",
			Sub:      "INFO",
			Mode:     LayerDefaultCG,
			Params:   []Signature{Optional("flashLayer", layerIndex)},
			Response: xmlDocument,
			Summary:  "Describe the templates on a host layer.",
		},
	}
}
