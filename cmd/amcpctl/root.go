package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"

	"github.com/danmuck/amcpctl/internal/logging"
	"github.com/danmuck/amcpctl/internal/output"
	"github.com/danmuck/amcpctl/internal/protocol/command"
	"github.com/danmuck/amcpctl/internal/protocol/session"
	"github.com/danmuck/amcpctl/internal/protocol/version"
)

// app is the state shared by subcommands after flag parsing.
type app struct {
	profilePath   string
	outputFormat  string
	address       string
	serverVersion string
	framing       string
	timeout       time.Duration

	profile   profile
	formatter output.Formatter
	catalog   *command.Catalog
}

func newRootCmd() *cobra.Command {
	a := &app{catalog: command.Default()}

	root := &cobra.Command{
		Use:           "amcpctl",
		Short:         "Build, validate and send AMCP commands to a playout server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.ConfigureRuntime()
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.profilePath, "profile", "", "profile file (default $AMCPCTL_PROFILE or ~/.amcpctl.toml)")
	flags.StringVarP(&a.outputFormat, "output", "o", "", "output format: table|json|yaml")
	flags.StringVarP(&a.address, "address", "a", "", "server address host:port")
	flags.StringVar(&a.serverVersion, "server-version", "", `server version, or "auto" to ask the server`)
	flags.StringVar(&a.framing, "framing", "", "reply framing: auto|request|fifo")
	flags.DurationVar(&a.timeout, "timeout", 0, "per-command reply timeout")

	root.AddCommand(
		newCompileCmd(a),
		newSendCmd(a),
		newServeCmd(a),
		newConsoleCmd(a),
		newConfigCmd(a),
		newVerbsCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	path, required := a.profilePath, true
	if path == "" {
		path, required = defaultProfilePath(), false
	}
	p, err := loadProfile(path, required)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("address") {
		p.Session.Address = strings.TrimSpace(a.address)
	}
	if flags.Changed("server-version") {
		p.Session.ServerVersion = strings.TrimSpace(a.serverVersion)
	}
	if flags.Changed("framing") {
		p.Session.Framing = session.Framing(strings.ToLower(strings.TrimSpace(a.framing)))
	}
	if flags.Changed("timeout") {
		p.Session.CommandTimeout = a.timeout
	}
	if flags.Changed("output") {
		p.Output = strings.ToLower(strings.TrimSpace(a.outputFormat))
	}
	if !output.Valid(p.Output) {
		return fmt.Errorf("unknown output format %q (want %s)", p.Output, strings.Join(output.Formats, "|"))
	}
	if err := p.Session.Validate(); err != nil {
		return err
	}

	a.profile = p
	a.formatter = output.NewFormatter(p.Output)
	return nil
}

// offlineVersion is the version compile targets without a connection.
// "auto" means the newest server.
func (a *app) offlineVersion() (*semver.Version, error) {
	raw := strings.TrimSpace(a.profile.Session.ServerVersion)
	if raw == "" || strings.EqualFold(raw, session.VersionAuto) {
		return nil, nil
	}
	return version.Parse(raw)
}

func (a *app) connect(ctx context.Context) (*session.Client, error) {
	client, err := session.NewClient(a.profile.Session, session.WithCatalog(a.catalog))
	if err != nil {
		return nil, err
	}
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect %s: %w", a.profile.Session.Address, err)
	}
	return client, nil
}

// printResult writes a finished command. Tables show the reply data when
// there is any; json and yaml always show the full snapshot.
func (a *app) printResult(w io.Writer, cmd *command.Command) {
	if a.profile.Output == "table" && cmd.Status() == command.Succeeded {
		if data := cmd.Response().Data; data != nil {
			fmt.Fprint(w, a.formatter.Format(data))
			return
		}
		fmt.Fprintln(w, cmd.Response().Raw)
		return
	}
	fmt.Fprint(w, a.formatter.Format(cmd.Snapshot()))
}
