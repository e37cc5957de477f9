package command

import (
	"github.com/danmuck/amcpctl/internal/protocol/validate"
)

var logLevels = validate.EnumOf("trace", "debug", "info", "warning", "error", "fatal").FromTokens()

func systemVerbs() []*Definition {
	return []*Definition{
		{
			Verb:     "LOG",
			Sub:      "LEVEL",
			Mode:     Unaddressed,
			Params:   []Signature{Required("level", logLevels)},
			Response: okStatus,
			Summary:  "Change the server log level.",
		},
		{Verb: "DIAG", Mode: Unaddressed, Response: okStatus, Summary: "Open the diagnostics window."},
		// The server closes the connection without replying.
		{Verb: "BYE", Mode: Unaddressed, Response: noReply, Summary: "Disconnect."},
		{Verb: "KILL", Mode: Unaddressed, Response: okStatus, Summary: "Shut the server down."},
		{Verb: "RESTART", Mode: Unaddressed, Response: okStatus, Summary: "Restart the server."},
		{Verb: "CHANNEL_GRID", Mode: Unaddressed, Response: okStatus, Summary: "Open a channel showing all channels in a grid."},
		{
			Verb:     "PING",
			Mode:     Unaddressed,
			Params:   []Signature{Optional("echo", validate.String{})},
			Response: okStatus,
			Summary:  "Check the connection.",
		},
		{
			Verb: "SCHEDULE",
			Sub:  "SET",
			Mode: Unaddressed,
			Params: []Signature{
				Required("token", validate.String{}),
				Required("timecode", validate.String{}),
				Required("command", validate.CommandRef{}),
			},
			Response: okStatus,
			Summary:  "Run a command at a timecode.",
		},
	}
}
