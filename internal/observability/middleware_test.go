package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/danmuck/amcpctl/internal/testutil/testlog"
)

func TestRequestLoggerTagsCommandAndRequestID(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	RegisterMetrics()

	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.Use(RequestMetricsMiddleware())
	r.POST("/v1/commands", func(c *gin.Context) {
		c.Set(CommandKey, "PLAY")
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/commands", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("request id not echoed: %q", got)
	}
	line := buf.String()
	for _, want := range []string{`"level":"warn"`, `"request_id":"abc-123"`, `"command":"PLAY"`, `"route":"/v1/commands"`, `"status":404`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line missing %s: %s", want, line)
		}
	}

	buf.Reset()
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere/42", nil))
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a generated request id")
	}
	if !strings.Contains(buf.String(), `"route":"unmatched"`) || !strings.Contains(buf.String(), `"path":"/nowhere/42"`) {
		t.Fatalf("unmatched route not labelled: %s", buf.String())
	}
}
