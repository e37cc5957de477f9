package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/danmuck/amcpctl/internal/auth"
	"github.com/danmuck/amcpctl/internal/observability"
	"github.com/danmuck/amcpctl/internal/protocol/command"
	"github.com/danmuck/amcpctl/internal/protocol/session"
)

const gatewayVersion = "0.1.0"

// Sender runs commands against a playout server. *session.Client
// satisfies it.
type Sender interface {
	Build(key string, args command.Args, opts ...command.Option) (*command.Command, error)
	Do(ctx context.Context, cmd *command.Command) error
	Pending() []session.PendingInfo
	Connected() bool
	Version() *semver.Version
}

type Options struct {
	Name        string
	CorsOrigins []string
	Catalog     *command.Catalog
	// Sender may be nil; /v1/commands then answers 503.
	Sender Sender
	// Auth guards /v1/commands when set.
	Auth   auth.Validator
	Logger zerolog.Logger
}

type Gateway struct {
	Name    string
	Started time.Time

	catalog *command.Catalog
	sender  Sender
	auth    auth.Validator
	router  *gin.Engine
}

func New(opts Options) *Gateway {
	observability.RegisterMetrics()
	if opts.Catalog == nil {
		opts.Catalog = command.Default()
	}
	if strings.TrimSpace(opts.Name) == "" {
		opts.Name = "amcpctl"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(opts.Logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(opts.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	g := &Gateway{
		Name:    opts.Name,
		Started: time.Now(),
		catalog: opts.Catalog,
		sender:  opts.Sender,
		auth:    opts.Auth,
		router:  r,
	}
	g.registerRoutes()
	return g
}

func (g *Gateway) HTTPRouter() *gin.Engine { return g.router }

// Serve listens on addr until ctx ends.
func (g *Gateway) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           g.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		if v := strings.TrimSpace(origin); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return []string{"http://localhost:3000"}
	}
	return out
}

func (g *Gateway) registerRoutes() {
	g.router.GET("/health", func(c *gin.Context) {
		connected := g.sender != nil && g.sender.Connected()
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"uptime":    time.Since(g.Started).String(),
			"gateway":   g.Name,
			"version":   gatewayVersion,
			"connected": connected,
		})
	})
	g.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := g.router.Group("/v1")
	v1.GET("/verbs", g.listVerbs)
	v1.POST("/compile", g.compile)
	v1.POST("/commands", g.requireToken, g.send)
	v1.GET("/pending", g.pending)
}

func (g *Gateway) requireToken(c *gin.Context) {
	if g.auth == nil {
		c.Next()
		return
	}
	if err := auth.Check(g.auth, c.GetHeader("Authorization")); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.Next()
}
