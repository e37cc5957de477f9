package response

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/danmuck/amcpctl/internal/testutil/testlog"
)

func TestParseStatusLine(t *testing.T) {
	testlog.Start(t)
	msg, err := ParseStatusLine("RES k3j9a2b 202 CLEAR OK\r\n")
	if err != nil {
		t.Fatalf("parse framed: %v", err)
	}
	want := Message{Code: 202, Token: "k3j9a2b", Verb: "CLEAR", Status: "OK", Raw: "RES k3j9a2b 202 CLEAR OK"}
	if diff := cmp.Diff(want, msg); diff != "" {
		t.Fatalf("framed status mismatch (-want +got):\n%s", diff)
	}

	msg, err = ParseStatusLine("404 PLAY FAILED")
	if err != nil {
		t.Fatalf("parse fifo: %v", err)
	}
	if msg.Token != "" || msg.Code != 404 || !msg.IsError() || msg.Status != "FAILED" {
		t.Fatalf("unexpected fifo status: %+v", msg)
	}

	for _, line := range []string{"", "RES abc", "OK 202", "RES abc nope", "99 LOW"} {
		if _, err := ParseStatusLine(line); !errors.Is(err, ErrMalformedStatus) {
			t.Fatalf("line %q: expected ErrMalformedStatus, got %v", line, err)
		}
	}
}

func TestFramingFor(t *testing.T) {
	testlog.Start(t)
	cases := map[int]BodyFraming{
		200: BodyMultiLine,
		201: BodySingleLine,
		202: BodyNone,
		404: BodyNone,
	}
	for code, want := range cases {
		if got := FramingFor(code); got != want {
			t.Fatalf("code %d: got framing %d want %d", code, got, want)
		}
	}
}

func TestMessageFormat(t *testing.T) {
	testlog.Start(t)
	msg := Message{Code: 200, Token: "abc", Verb: "CLS", Status: "OK", Lines: []string{"a", "b"}}
	if got, want := msg.Format(), "RES abc 200 CLS OK\r\na\r\nb\r\n\r\n"; got != want {
		t.Fatalf("format mismatch: %q want %q", got, want)
	}
	msg = Message{Code: 201, Verb: "VERSION", Status: "OK", Lines: []string{"2.0.7"}}
	if got, want := msg.Format(), "201 VERSION OK\r\n2.0.7\r\n"; got != want {
		t.Fatalf("format mismatch: %q want %q", got, want)
	}
}

func TestSignatureEvaluate(t *testing.T) {
	testlog.Start(t)
	sig := Signature{Code: 202}
	data, err := sig.Evaluate(Message{Code: 202}, Context{})
	if err != nil || data != nil {
		t.Fatalf("status-only signature: data=%v err=%v", data, err)
	}
	if _, err := sig.Evaluate(Message{Code: 404}, Context{}); !errors.Is(err, ErrUnexpectedCode) {
		t.Fatalf("expected ErrUnexpectedCode, got %v", err)
	}

	sig = Signature{Code: 201, Validator: NumberVector{}, Parser: Number{}}
	data, err = sig.Evaluate(Message{Code: 201, Lines: []string{"0.5"}}, Context{})
	if err != nil || data != 0.5 {
		t.Fatalf("number signature: data=%v err=%v", data, err)
	}
	if _, err := sig.Evaluate(Message{Code: 201, Lines: []string{"0.5 x"}}, Context{}); !errors.Is(err, ErrInvalidBody) {
		t.Fatalf("expected ErrInvalidBody, got %v", err)
	}
	if _, err := sig.Evaluate(Message{Code: 201, Lines: []string{"0.5 1"}}, Context{}); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParserSkippedForEmptyData(t *testing.T) {
	testlog.Start(t)
	sig := Signature{Code: 200, Validator: List{}, Parser: MediaList{}}
	data, err := sig.Evaluate(Message{Code: 200}, Context{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if _, ok := data.([]MediaInfo); !ok {
		t.Fatalf("empty list should still parse to []MediaInfo, got %T", data)
	}
}

func TestValidators(t *testing.T) {
	testlog.Start(t)
	if _, err := (String{}).Validate(Message{Code: 201}); !errors.Is(err, ErrInvalidBody) {
		t.Fatalf("empty string body should fail, got %v", err)
	}
	if v, err := (String{}).Validate(Message{Lines: []string{"hello"}}); err != nil || v != "hello" {
		t.Fatalf("string body: %v %v", v, err)
	}
	if _, err := (Status{}).Validate(Message{Code: 500}); !errors.Is(err, ErrInvalidBody) {
		t.Fatalf("status validator should reject 500, got %v", err)
	}
	if _, err := (Base64{}).Validate(Message{Lines: []string{"not base64!"}}); !errors.Is(err, ErrInvalidBody) {
		t.Fatalf("expected base64 rejection, got %v", err)
	}
	if v, err := (Base64{}).Validate(Message{Lines: []string{"aGVsbG8="}}); err != nil || v != "aGVsbG8=" {
		t.Fatalf("base64 body: %v %v", v, err)
	}
	v, err := (List{}).Validate(Message{Lines: []string{"a", " ", "b"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, v); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	v, err = (NumberVector{}).Validate(Message{Lines: []string{"0 0.25 1 1"}})
	if err != nil {
		t.Fatalf("vector: %v", err)
	}
	if diff := cmp.Diff([]float64{0, 0.25, 1, 1}, v); diff != "" {
		t.Fatalf("vector mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeXML(t *testing.T) {
	testlog.Start(t)
	doc := `<?xml version="1.0" encoding="utf-8"?>
<Channel>
  <Framerate>50</Framerate>
  <Paused>TRUE</Paused>
  <Volume>0.5</Volume>
  <Stage>
    <Layer>
      <Layer_10 Type="ffmpeg">
        <Foreground><Name>AMB</Name></Foreground>
      </Layer_10>
    </Layer>
  </Stage>
  <Port Id="1">screen</Port>
  <Port Id="2">audio</Port>
  <Empty/>
</Channel>`
	got, err := DecodeXML(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"framerate": int64(50),
		"paused":    true,
		"volume":    0.5,
		"stage": map[string]any{
			"layer": map[string]any{
				"layer_10": map[string]any{
					"type":       "ffmpeg",
					"foreground": map[string]any{"name": "AMB"},
				},
			},
		},
		"port": []any{
			map[string]any{"id": int64(1), TextKey: "screen"},
			map[string]any{"id": int64(2), TextKey: "audio"},
		},
		"empty": "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}

	if _, err := (XML{}).Validate(Message{Lines: []string{"<a><b></a>"}}); !errors.Is(err, ErrInvalidBody) {
		t.Fatalf("expected malformed xml to fail, got %v", err)
	}
}

func TestLayerInfoUsesContext(t *testing.T) {
	testlog.Start(t)
	doc, err := DecodeXML(`<channel><stage><layer><layer_10><status>playing</status></layer_10></layer></stage></channel>`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := LayerInfo{}.Parse(doc, Context{Channel: 1, Layer: 10})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"status": "playing"}, got); diff != "" {
		t.Fatalf("layer mismatch (-want +got):\n%s", diff)
	}
	if _, err := (LayerInfo{}).Parse(doc, Context{Channel: 1, Layer: 20}); !errors.Is(err, ErrParse) {
		t.Fatalf("expected missing layer to fail, got %v", err)
	}
}

func TestListParsers(t *testing.T) {
	testlog.Start(t)
	media, err := MediaList{}.Parse([]string{`"GO1080P25" MOVIE 6445960 20170413102935 268 1/25`, `"MY CLIP" STILL 1024 20200101000000 0 0/1`}, Context{})
	if err != nil {
		t.Fatalf("media: %v", err)
	}
	wantMedia := []MediaInfo{
		{Name: "GO1080P25", Type: "MOVIE", Size: 6445960, Modified: time.Date(2017, 4, 13, 10, 29, 35, 0, time.UTC), Frames: 268, FrameRate: "1/25"},
		{Name: "MY CLIP", Type: "STILL", Size: 1024, Modified: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Frames: 0, FrameRate: "0/1"},
	}
	if diff := cmp.Diff(wantMedia, media); diff != "" {
		t.Fatalf("media mismatch (-want +got):\n%s", diff)
	}

	templates, err := TemplateList{}.Parse([]string{`"CASPAR_TEXT" 19226 20130523082204`, `lower_third`}, Context{})
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	wantTemplates := []TemplateInfo{
		{Name: "CASPAR_TEXT", Size: 19226, Modified: time.Date(2013, 5, 23, 8, 22, 4, 0, time.UTC)},
		{Name: "lower_third"},
	}
	if diff := cmp.Diff(wantTemplates, templates); diff != "" {
		t.Fatalf("template mismatch (-want +got):\n%s", diff)
	}

	channels, err := ChannelList{}.Parse([]string{"1 720p5000 PLAYING", "2 PAL"}, Context{})
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	wantChannels := []ChannelInfo{{Channel: 1, Format: "720p5000", Status: "PLAYING"}, {Channel: 2, Format: "PAL"}}
	if diff := cmp.Diff(wantChannels, channels); diff != "" {
		t.Fatalf("channel mismatch (-want +got):\n%s", diff)
	}

	thumbs, err := ThumbnailList{}.Parse([]string{`"AMB" 20130301T124409 1149`}, Context{})
	if err != nil {
		t.Fatalf("thumbnails: %v", err)
	}
	wantThumbs := []ThumbnailInfo{{Name: "AMB", Modified: time.Date(2013, 3, 1, 12, 44, 9, 0, time.UTC), Size: 1149}}
	if diff := cmp.Diff(wantThumbs, thumbs); diff != "" {
		t.Fatalf("thumbnail mismatch (-want +got):\n%s", diff)
	}

	fonts, err := FontList{}.Parse([]string{`"LiberationSans-Regular" "LiberationSans-Regular.ttf"`}, Context{})
	if err != nil {
		t.Fatalf("fonts: %v", err)
	}
	if diff := cmp.Diff([]FontInfo{{Name: "LiberationSans-Regular", File: "LiberationSans-Regular.ttf"}}, fonts); diff != "" {
		t.Fatalf("font mismatch (-want +got):\n%s", diff)
	}

	if _, err := (MediaList{}).Parse([]string{"broken"}, Context{}); !errors.Is(err, ErrParse) {
		t.Fatalf("expected malformed media line to fail, got %v", err)
	}
}

func TestVersionAndMixerParsers(t *testing.T) {
	testlog.Start(t)
	got, err := Version{}.Parse("2.0.7.e9fc25a Stable", Context{})
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	info := got.(VersionInfo)
	if info.Version.String() != "2.0.7" || info.Raw != "2.0.7.e9fc25a Stable" {
		t.Fatalf("unexpected version info: %+v", info)
	}

	fill, err := MixerVector{Names: []string{"x", "y", "xScale", "yScale"}}.Parse([]float64{0, 0.5, 1, 1}, Context{})
	if err != nil {
		t.Fatalf("mixer: %v", err)
	}
	if diff := cmp.Diff(map[string]float64{"x": 0, "y": 0.5, "xScale": 1, "yScale": 1}, fill); diff != "" {
		t.Fatalf("mixer mismatch (-want +got):\n%s", diff)
	}
}
