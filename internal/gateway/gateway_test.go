package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/amcpctl/internal/auth"
	"github.com/danmuck/amcpctl/internal/protocol/response"
	"github.com/danmuck/amcpctl/internal/protocol/session"
	"github.com/danmuck/amcpctl/internal/testutil/amcptest"
	"github.com/danmuck/amcpctl/internal/testutil/testlog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestGateway(t *testing.T, sender Sender) *Gateway {
	t.Helper()
	return New(Options{Name: "gw-test", Sender: sender, Logger: zerolog.Nop()})
}

func connectedClient(t *testing.T, opts amcptest.Options) (*session.Client, *amcptest.Server) {
	t.Helper()
	srv := amcptest.Start(t, opts)
	cfg := session.DefaultConfig()
	cfg.Address = srv.Addr()
	cfg.CommandTimeout = time.Second
	cfg.MaxConnectAttempts = 1
	client, err := session.NewClient(cfg)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx))
	t.Cleanup(func() { _ = client.Close() })
	return client, srv
}

func do(t *testing.T, g *Gateway, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	g.HTTPRouter().ServeHTTP(rr, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body=%s", rr.Body.String())
	return rr, out
}

func TestHealthWithoutSession(t *testing.T) {
	testlog.Start(t)
	g := newTestGateway(t, nil)
	rr, body := do(t, g, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, gatewayVersion, body["version"])
	require.Equal(t, false, body["connected"])
}

func TestCompileReturnsWireText(t *testing.T) {
	testlog.Start(t)
	g := newTestGateway(t, nil)
	rr, body := do(t, g, http.MethodPost, "/v1/compile", CommandRequest{
		Command: "play",
		Fields:  map[string]any{"channel": 1, "layer": 10, "clip": "AMB", "loop": true},
	})
	require.Equal(t, http.StatusOK, rr.Code, "body=%v", body)
	require.Equal(t, `PLAY 1-10 "AMB" LOOP`, body["wire"])

	cmd, ok := body["command"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "initialized", cmd["status"])
}

func TestCompileErrors(t *testing.T) {
	testlog.Start(t)
	g := newTestGateway(t, nil)

	rr, _ := do(t, g, http.MethodPost, "/v1/compile", CommandRequest{Command: "JUGGLE"})
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = do(t, g, http.MethodPost, "/v1/compile", CommandRequest{Command: "PLAY"})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr, body := do(t, g, http.MethodPost, "/v1/compile", CommandRequest{
		Command: "LOAD",
		Fields:  map[string]any{"channel": 1},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, body["error"], "clip")

	rr, _ = do(t, g, http.MethodPost, "/v1/compile", map[string]any{"fields": map[string]any{}})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCompileHonorsRequestVersion(t *testing.T) {
	testlog.Start(t)
	g := newTestGateway(t, nil)
	req := CommandRequest{
		Command: "PLAY",
		Fields:  map[string]any{"channel": 1, "layer": 1, "clip": "AMB", "filter": "hflip"},
	}

	req.Version = "2.1.8"
	_, body := do(t, g, http.MethodPost, "/v1/compile", req)
	require.Equal(t, `PLAY 1-1 "AMB" FILTER "hflip"`, body["wire"])

	req.Version = "2.2.0"
	_, body = do(t, g, http.MethodPost, "/v1/compile", req)
	require.Equal(t, `PLAY 1-1 "AMB"`, body["wire"])
}

func TestListVerbs(t *testing.T) {
	testlog.Start(t)
	g := newTestGateway(t, nil)
	rr, body := do(t, g, http.MethodGet, "/v1/verbs", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	verbs, ok := body["verbs"].([]any)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(verbs), 60)

	var found bool
	for _, v := range verbs {
		info := v.(map[string]any)
		if info["key"] == "MIXER FILL QUERY" {
			found = true
			require.Equal(t, "MIXER FILL", info["wire"])
			require.EqualValues(t, response.CodeOKSingleLine, info["response_code"])
		}
	}
	require.True(t, found, "MIXER FILL QUERY missing")
}

func TestSendWithoutSession(t *testing.T) {
	testlog.Start(t)
	g := newTestGateway(t, nil)
	rr, _ := do(t, g, http.MethodPost, "/v1/commands", CommandRequest{Command: "CLEAR", Fields: map[string]any{"channel": 1}})
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestSendThroughSession(t *testing.T) {
	testlog.Start(t)
	client, srv := connectedClient(t, amcptest.Options{
		Handlers: map[string]amcptest.Handler{
			"LOAD": amcptest.Static(amcptest.Fail(response.CodeMediaNotFound, "LOAD")),
		},
	})
	g := newTestGateway(t, client)

	rr, body := do(t, g, http.MethodPost, "/v1/commands", CommandRequest{Command: "CLEAR", Fields: map[string]any{"channel": 2}})
	require.Equal(t, http.StatusOK, rr.Code, "body=%v", body)
	cmd := body["command"].(map[string]any)
	require.Equal(t, "succeeded", cmd["status"])
	require.Equal(t, "CLEAR 2", cmd["wire"])

	rr, body = do(t, g, http.MethodPost, "/v1/commands", CommandRequest{
		Command: "LOAD",
		Fields:  map[string]any{"channel": 1, "clip": "MISSING"},
	})
	require.Equal(t, http.StatusBadGateway, rr.Code)
	cmd = body["command"].(map[string]any)
	require.Equal(t, "failed", cmd["status"])

	got := srv.Received()
	require.Equal(t, "LOAD", got[len(got)-1].Verb)

	rr, body = do(t, g, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, true, body["connected"])
}

func TestSendRequiresBearerToken(t *testing.T) {
	testlog.Start(t)
	client, srv := connectedClient(t, amcptest.Options{})
	g := New(Options{Name: "gw-test", Sender: client, Auth: auth.StaticToken{Token: "s3cret"}, Logger: zerolog.Nop()})
	before := len(srv.Received())

	rr, body := do(t, g, http.MethodPost, "/v1/commands", CommandRequest{Command: "CLEAR", Fields: map[string]any{"channel": 1}})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, body["error"], "bearer")
	require.Len(t, srv.Received(), before)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(CommandRequest{Command: "CLEAR", Fields: map[string]any{"channel": 1}}))
	req := httptest.NewRequest(http.MethodPost, "/v1/commands", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer s3cret")
	ok := httptest.NewRecorder()
	g.HTTPRouter().ServeHTTP(ok, req)
	require.Equal(t, http.StatusOK, ok.Code, "body=%s", ok.Body.String())

	rr, _ = do(t, g, http.MethodPost, "/v1/compile", CommandRequest{Command: "CLEAR", Fields: map[string]any{"channel": 1}})
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestSendTimeoutMapsToGatewayTimeout(t *testing.T) {
	testlog.Start(t)
	client, _ := connectedClient(t, amcptest.Options{
		Handlers: map[string]amcptest.Handler{"PAUSE": amcptest.Silent()},
	})
	g := newTestGateway(t, client)

	rr, body := do(t, g, http.MethodPost, "/v1/commands", CommandRequest{Command: "PAUSE", Fields: map[string]any{"channel": 1}})
	require.Equal(t, http.StatusGatewayTimeout, rr.Code)
	require.Equal(t, "timeout", body["command"].(map[string]any)["status"])

	rr, body = do(t, g, http.MethodGet, "/v1/pending", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, body["pending"])
}

func TestMetricsEndpoint(t *testing.T) {
	testlog.Start(t)
	g := newTestGateway(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	g.HTTPRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "go_goroutines")
}
