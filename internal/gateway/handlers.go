package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/coreos/go-semver/semver"
	"github.com/gin-gonic/gin"

	"github.com/danmuck/amcpctl/internal/observability"
	"github.com/danmuck/amcpctl/internal/protocol/command"
	"github.com/danmuck/amcpctl/internal/protocol/session"
	"github.com/danmuck/amcpctl/internal/protocol/validate"
	"github.com/danmuck/amcpctl/internal/protocol/version"
)

// CommandRequest is the body of /v1/compile and /v1/commands.
type CommandRequest struct {
	Command string         `json:"command" binding:"required"`
	Fields  map[string]any `json:"fields,omitempty"`
	Tokens  []string       `json:"tokens,omitempty"`
	// Version overrides the server version for compile.
	Version string `json:"version,omitempty"`
}

func (r CommandRequest) args() command.Args {
	return command.ParseArgs(r.Fields, r.Tokens)
}

type VerbInfo struct {
	Key          string      `json:"key"`
	Wire         string      `json:"wire"`
	Mode         string      `json:"mode"`
	Summary      string      `json:"summary,omitempty"`
	Params       []ParamInfo `json:"params,omitempty"`
	ResponseCode int         `json:"response_code"`
}

type ParamInfo struct {
	Name     string `json:"name"`
	Key      string `json:"key,omitempty"`
	Required bool   `json:"required"`
}

func (g *Gateway) listVerbs(c *gin.Context) {
	keys := g.catalog.Keys()
	out := make([]VerbInfo, 0, len(keys))
	for _, key := range keys {
		def, _ := g.catalog.Lookup(key)
		info := VerbInfo{
			Key:          key,
			Wire:         def.Name(),
			Mode:         def.Mode.String(),
			Summary:      def.Summary,
			ResponseCode: def.Response.Code,
		}
		for _, p := range def.Params {
			info.Params = append(info.Params, ParamInfo{Name: p.Name, Key: p.Key, Required: p.Required})
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{"verbs": out})
}

func (g *Gateway) compile(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var v *semver.Version
	switch {
	case strings.TrimSpace(req.Version) != "":
		parsed, err := version.Parse(req.Version)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		v = parsed
	case g.sender != nil:
		v = g.sender.Version()
	}

	c.Set(observability.CommandKey, req.Command)
	cmd, err := g.catalog.Build(req.Command, req.args(), command.WithVersion(v))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if err := cmd.ValidateParams(); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "command": cmd.Snapshot()})
		return
	}
	wire, err := cmd.WireText()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wire": wire, "command": cmd.Snapshot()})
}

func (g *Gateway) send(c *gin.Context) {
	if g.sender == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": session.ErrNotConnected.Error()})
		return
	}
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Set(observability.CommandKey, req.Command)
	cmd, err := g.sender.Build(req.Command, req.args())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if err := g.sender.Do(c.Request.Context(), cmd); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "command": cmd.Snapshot()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"command": cmd.Snapshot()})
}

func (g *Gateway) pending(c *gin.Context) {
	if g.sender == nil {
		c.JSON(http.StatusOK, gin.H{"pending": []session.PendingInfo{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": g.sender.Pending()})
}

// statusFor maps engine errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, command.ErrUnknownVerb):
		return http.StatusNotFound
	case errors.Is(err, command.ErrMissingChannel),
		errors.Is(err, command.ErrMissingLayer),
		errors.Is(err, command.ErrInvalidParams),
		errors.Is(err, validate.ErrNotCommand):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrCommandTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, session.ErrNotConnected), errors.Is(err, session.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
