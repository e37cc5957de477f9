package response

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-semver/semver"

	"github.com/danmuck/amcpctl/internal/protocol/version"
)

const (
	mediaTimeLayout     = "20060102150405"
	thumbnailTimeLayout = "20060102T150405"
)

// ChannelInfo is one line of a bare INFO reply.
type ChannelInfo struct {
	Channel int    `json:"channel" yaml:"channel"`
	Format  string `json:"format" yaml:"format"`
	Status  string `json:"status" yaml:"status"`
}

// MediaInfo is one line of a CLS reply.
type MediaInfo struct {
	Name      string    `json:"name" yaml:"name"`
	Type      string    `json:"type" yaml:"type"`
	Size      int64     `json:"size" yaml:"size"`
	Modified  time.Time `json:"modified" yaml:"modified"`
	Frames    int64     `json:"frames" yaml:"frames"`
	FrameRate string    `json:"frameRate" yaml:"frameRate"`
}

// TemplateInfo is one line of a TLS reply. Size and Modified are only sent by
// 2.0 servers.
type TemplateInfo struct {
	Name     string    `json:"name" yaml:"name"`
	Size     int64     `json:"size,omitempty" yaml:"size,omitempty"`
	Modified time.Time `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// FontInfo is one line of a FLS reply.
type FontInfo struct {
	Name string `json:"name" yaml:"name"`
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ThumbnailInfo is one line of a THUMBNAIL LIST reply.
type ThumbnailInfo struct {
	Name     string    `json:"name" yaml:"name"`
	Modified time.Time `json:"modified" yaml:"modified"`
	Size     int64     `json:"size" yaml:"size"`
}

// VersionInfo is a VERSION reply.
type VersionInfo struct {
	Raw     string          `json:"raw" yaml:"raw"`
	Version *semver.Version `json:"version" yaml:"version"`
}

// ChannelList parses INFO lines such as "1 720p5000 PLAYING".
type ChannelList struct{}

func (ChannelList) Parse(data any, _ Context) (any, error) {
	lines, err := asLines(data)
	if err != nil {
		return nil, err
	}
	out := make([]ChannelInfo, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: channel line %q", ErrParse, line)
		}
		ch, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: channel line %q", ErrParse, line)
		}
		info := ChannelInfo{Channel: ch, Format: fields[1]}
		if len(fields) > 2 {
			info.Status = strings.Join(fields[2:], " ")
		}
		out = append(out, info)
	}
	return out, nil
}

// MediaList parses CLS lines:
// "AMB" MOVIE 6445960 20170413102935 268 1/25
type MediaList struct{}

func (MediaList) Parse(data any, _ Context) (any, error) {
	lines, err := asLines(data)
	if err != nil {
		return nil, err
	}
	out := make([]MediaInfo, 0, len(lines))
	for _, line := range lines {
		fields := splitQuoted(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("%w: media line %q", ErrParse, line)
		}
		info := MediaInfo{Name: fields[0], Type: fields[1]}
		if info.Size, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
			return nil, fmt.Errorf("%w: media size in %q", ErrParse, line)
		}
		if info.Modified, err = time.Parse(mediaTimeLayout, fields[3]); err != nil {
			return nil, fmt.Errorf("%w: media timestamp in %q", ErrParse, line)
		}
		if len(fields) > 4 {
			if info.Frames, err = strconv.ParseInt(fields[4], 10, 64); err != nil {
				return nil, fmt.Errorf("%w: media frames in %q", ErrParse, line)
			}
		}
		if len(fields) > 5 {
			info.FrameRate = fields[5]
		}
		out = append(out, info)
	}
	return out, nil
}

// TemplateList parses TLS lines in both the 2.0 and 2.1+ shapes.
type TemplateList struct{}

func (TemplateList) Parse(data any, _ Context) (any, error) {
	lines, err := asLines(data)
	if err != nil {
		return nil, err
	}
	out := make([]TemplateInfo, 0, len(lines))
	for _, line := range lines {
		fields := splitQuoted(line)
		if len(fields) == 0 {
			continue
		}
		info := TemplateInfo{Name: fields[0]}
		if len(fields) >= 3 {
			if info.Size, err = strconv.ParseInt(fields[1], 10, 64); err != nil {
				return nil, fmt.Errorf("%w: template size in %q", ErrParse, line)
			}
			if info.Modified, err = time.Parse(mediaTimeLayout, fields[2]); err != nil {
				return nil, fmt.Errorf("%w: template timestamp in %q", ErrParse, line)
			}
		}
		out = append(out, info)
	}
	return out, nil
}

// FontList parses FLS lines: a font name, optionally followed by its file.
type FontList struct{}

func (FontList) Parse(data any, _ Context) (any, error) {
	lines, err := asLines(data)
	if err != nil {
		return nil, err
	}
	out := make([]FontInfo, 0, len(lines))
	for _, line := range lines {
		fields := splitQuoted(line)
		if len(fields) == 0 {
			continue
		}
		info := FontInfo{Name: fields[0]}
		if len(fields) > 1 {
			info.File = strings.Join(fields[1:], " ")
		}
		out = append(out, info)
	}
	return out, nil
}

// ThumbnailList parses lines such as "AMB" 20130301T124409 1149.
type ThumbnailList struct{}

func (ThumbnailList) Parse(data any, _ Context) (any, error) {
	lines, err := asLines(data)
	if err != nil {
		return nil, err
	}
	out := make([]ThumbnailInfo, 0, len(lines))
	for _, line := range lines {
		fields := splitQuoted(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: thumbnail line %q", ErrParse, line)
		}
		info := ThumbnailInfo{Name: fields[0]}
		if info.Modified, err = time.Parse(thumbnailTimeLayout, fields[1]); err != nil {
			return nil, fmt.Errorf("%w: thumbnail timestamp in %q", ErrParse, line)
		}
		if info.Size, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
			return nil, fmt.Errorf("%w: thumbnail size in %q", ErrParse, line)
		}
		out = append(out, info)
	}
	return out, nil
}

// Version parses a VERSION reply string.
type Version struct{}

func (Version) Parse(data any, _ Context) (any, error) {
	raw, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("%w: version expects a string, got %T", ErrParse, data)
	}
	v, err := version.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return VersionInfo{Raw: strings.TrimSpace(raw), Version: v}, nil
}

// MixerVector names the components of a numeric vector, e.g. the
// x, y, scale-x, scale-y reply of MIXER FILL.
type MixerVector struct {
	Names []string
}

func (m MixerVector) Parse(data any, _ Context) (any, error) {
	values, ok := data.([]float64)
	if !ok {
		return nil, fmt.Errorf("%w: mixer vector expects numbers, got %T", ErrParse, data)
	}
	if len(values) != len(m.Names) {
		return nil, fmt.Errorf("%w: mixer vector has %d values, want %d", ErrParse, len(values), len(m.Names))
	}
	out := make(map[string]float64, len(values))
	for i, name := range m.Names {
		out[name] = values[i]
	}
	return out, nil
}

// Number unwraps a single-value numeric vector.
type Number struct{}

func (Number) Parse(data any, _ Context) (any, error) {
	values, ok := data.([]float64)
	if !ok || len(values) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one number", ErrParse)
	}
	return values[0], nil
}

// LayerInfo picks the addressed layer out of a channel INFO document. Layer
// documents are returned unchanged.
type LayerInfo struct{}

func (LayerInfo) Parse(data any, ctx Context) (any, error) {
	doc, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: layer info expects a document, got %T", ErrParse, data)
	}
	if ctx.Layer < 0 {
		return doc, nil
	}
	layers, err := Path{Keys: []string{"stage", "layer"}}.Parse(doc, ctx)
	if err != nil {
		return doc, nil
	}
	layerDocs, ok := layers.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: stage layers are not a document", ErrParse)
	}
	layer, ok := layerDocs["layer_"+strconv.Itoa(ctx.Layer)]
	if !ok {
		return nil, fmt.Errorf("%w: layer %d not present on channel %d", ErrParse, ctx.Layer, ctx.Channel)
	}
	return layer, nil
}

// Path walks a decoded XML document.
type Path struct {
	Keys []string
}

func (p Path) Parse(data any, _ Context) (any, error) {
	cur := data
	for _, key := range p.Keys {
		doc, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a document", ErrParse, key)
		}
		if cur, ok = doc[strings.ToLower(key)]; !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrParse, key)
		}
	}
	return cur, nil
}

func asLines(data any) ([]string, error) {
	lines, ok := data.([]string)
	if !ok {
		return nil, fmt.Errorf("%w: expected line list, got %T", ErrParse, data)
	}
	return lines, nil
}

// splitQuoted splits on whitespace, keeping double-quoted runs together.
func splitQuoted(line string) []string {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	flush := func() {
		if started {
			out = append(out, cur.String())
		}
		cur.Reset()
		started = false
	}
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	flush()
	return out
}
