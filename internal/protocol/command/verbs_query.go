package command

import (
	"github.com/danmuck/amcpctl/internal/protocol/response"
	"github.com/danmuck/amcpctl/internal/protocol/validate"
)

func listOf(parser response.Parser) response.Signature {
	return response.Signature{Code: response.CodeOKMultiLine, Validator: response.List{}, Parser: parser}
}

func infoSub(sub, summary string, sig response.Signature) *Definition {
	return &Definition{Verb: "INFO", Sub: sub, Mode: Unaddressed, Response: sig, Summary: summary}
}

func queryVerbs() []*Definition {
	return []*Definition{
		{
			Verb:     "INFO",
			Mode:     Unaddressed,
			Response: listOf(response.ChannelList{}),
			Summary:  "List channels with their format and status.",
		},
		{
			Verb:     "INFO",
			Alias:    "INFO CHANNEL",
			Mode:     ChannelRequiredLayerOptional,
			Response: response.Signature{Code: response.CodeOKSingleLine, Validator: response.XML{}, Parser: response.LayerInfo{}},
			Summary:  "Describe a channel, or one of its layers.",
		},
		{
			Verb:     "INFO",
			Sub:      "TEMPLATE",
			Mode:     Unaddressed,
			Params:   []Signature{Required("template", validate.ClipName{})},
			Response: xmlDocument,
			Summary:  "Describe the fields of a template.",
		},
		infoSub("CONFIG", "Return the server configuration.", xmlDocument),
		infoSub("PATHS", "Return the server media paths.", response.Signature{
			Code:      response.CodeOKSingleLine,
			Validator: response.XML{},
			Parser:    response.Path{Keys: []string{"paths"}},
		}),
		infoSub("SYSTEM", "Return system information.", xmlDocument),
		infoSub("SERVER", "Return the configured channels and consumers.", xmlDocument),
		infoSub("THREADS", "List the server threads.", lineList),
		{
			Verb:     "CLS",
			Mode:     Unaddressed,
			Params:   []Signature{Optional("subdirectory", validate.ClipName{})},
			Response: listOf(response.MediaList{}),
			Summary:  "List media files.",
		},
		{
			Verb:     "CINF",
			Mode:     Unaddressed,
			Params:   []Signature{Required("filename", validate.ClipName{})},
			Response: listOf(response.MediaList{}),
			Summary:  "Describe one media file.",
		},
		{
			Verb:     "TLS",
			Mode:     Unaddressed,
			Params:   []Signature{Optional("subdirectory", validate.ClipName{})},
			Response: listOf(response.TemplateList{}),
			Summary:  "List templates.",
		},
		{
			Verb:     "FLS",
			Mode:     Unaddressed,
			Response: listOf(response.FontList{}),
			Summary:  "List fonts.",
		},
		{
			Verb:     "VERSION",
			Mode:     Unaddressed,
			Params:   []Signature{Optional("component", validate.EnumOf("SERVER", "FLASH", "TEMPLATEHOST", "CEF").FromTokens())},
			Response: response.Signature{Code: response.CodeOKSingleLine, Validator: response.String{}, Parser: response.Version{}},
			Summary:  "Return the server or component version.",
		},
		{
			Verb:     "THUMBNAIL",
			Sub:      "LIST",
			Mode:     Unaddressed,
			Params:   []Signature{Optional("subdirectory", validate.ClipName{})},
			Response: listOf(response.ThumbnailList{}),
			Summary:  "List thumbnails.",
		},
		{
			Verb:     "THUMBNAIL",
			Sub:      "RETRIEVE",
			Mode:     Unaddressed,
			Params:   []Signature{Required("filename", validate.ClipName{})},
			Response: response.Signature{Code: response.CodeOKSingleLine, Validator: response.Base64{}},
			Summary:  "Fetch a thumbnail as base64 PNG.",
		},
		{
			Verb:     "THUMBNAIL",
			Sub:      "GENERATE",
			Mode:     Unaddressed,
			Params:   []Signature{Required("filename", validate.ClipName{})},
			Response: okStatus,
			Summary:  "Regenerate one thumbnail.",
		},
		{Verb: "THUMBNAIL", Sub: "GENERATE_ALL", Mode: Unaddressed, Response: okStatus, Summary: "Regenerate every thumbnail."},
		{
			Verb:     "DATA",
			Sub:      "STORE",
			Mode:     Unaddressed,
			Params:   []Signature{Required("name", validate.ClipName{}), Required("data", validate.TemplateData{})},
			Response: okStatus,
			Summary:  "Store a dataset.",
		},
		{
			Verb:     "DATA",
			Sub:      "RETRIEVE",
			Mode:     Unaddressed,
			Params:   []Signature{Required("name", validate.ClipName{})},
			Response: response.Signature{Code: response.CodeOKSingleLine, Validator: response.Data{}},
			Summary:  "Fetch a stored dataset.",
		},
		{Verb: "DATA", Sub: "LIST", Mode: Unaddressed, Response: lineList, Summary: "List stored datasets."},
		{
			Verb:     "DATA",
			Sub:      "REMOVE",
			Mode:     Unaddressed,
			Params:   []Signature{Required("name", validate.ClipName{})},
			Response: okStatus,
			Summary:  "Delete a stored dataset.",
		},
	}
}
