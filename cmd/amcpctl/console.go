package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/danmuck/amcpctl/internal/protocol/command"
	"github.com/danmuck/amcpctl/internal/protocol/session"
)

var (
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	timeoutStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const consoleHelp = `Type AMCP commands as they go on the wire, e.g. PLAY 1-10 "AMB" LOOP.
  .verbs     list catalog keys
  .pending   list in-flight commands
  .help      this text
  .quit      leave (Ctrl-D works too)`

// console runs one command per line. client is nil offline; lines are then
// only compiled.
type console struct {
	app    *app
	client *session.Client
	out    io.Writer
}

func newConsoleCmd(a *app) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive AMCP prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			c := &console{app: a, out: cmd.OutOrStdout()}
			if !offline {
				client, err := a.connect(ctx)
				if err != nil {
					return err
				}
				defer client.Close()
				c.client = client
				fmt.Fprintln(c.out, dimStyle.Render(fmt.Sprintf("connected to %s (server %s, %s framing)",
					a.profile.Session.Address, client.Version(), client.Framing())))
			}

			le := newLineEditor(cmd.InOrStdin(), c.out)
			defer le.close()
			return c.run(ctx, le)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "compile lines without connecting")
	return cmd
}

func (c *console) run(ctx context.Context, le *lineEditor) error {
	for {
		line, err := le.readLine(c.prompt())
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == ".quit" || line == ".exit":
			return nil
		case strings.HasPrefix(line, "."):
			c.meta(line)
			continue
		}
		if err := c.exec(ctx, line); err != nil {
			fmt.Fprintln(c.out, failStyle.Render("error:"), err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *console) prompt() string {
	if c.client == nil {
		return "amcp(offline)> "
	}
	return "amcp> "
}

func (c *console) meta(line string) {
	switch line {
	case ".verbs":
		fmt.Fprintln(c.out, strings.Join(c.app.catalog.Keys(), "\n"))
	case ".pending":
		if c.client == nil {
			fmt.Fprintln(c.out, dimStyle.Render("offline"))
			return
		}
		fmt.Fprint(c.out, c.app.formatter.Format(c.client.Pending()))
	default:
		fmt.Fprintln(c.out, consoleHelp)
	}
}

func (c *console) exec(ctx context.Context, line string) error {
	key, args, err := resolveCommand(c.app.catalog, command.SplitLine(line), nil)
	if err != nil {
		return err
	}

	if c.client == nil {
		v, err := c.app.offlineVersion()
		if err != nil {
			return err
		}
		cmd, err := c.app.catalog.Build(key, args, command.WithVersion(v))
		if err != nil {
			return err
		}
		if err := cmd.ValidateParams(); err != nil {
			return err
		}
		wire, err := cmd.WireText()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, wire)
		return nil
	}

	cmd, err := c.client.Build(key, args)
	if err != nil {
		return err
	}
	start := time.Now()
	doErr := c.client.Do(ctx, cmd)
	fmt.Fprintln(c.out, statusLine(cmd, time.Since(start)))
	if doErr == nil {
		if data := cmd.Response().Data; data != nil {
			fmt.Fprint(c.out, c.app.formatter.Format(data))
		}
	}
	return doErr
}

func statusLine(cmd *command.Command, elapsed time.Duration) string {
	status := cmd.Status()
	label := "[" + status.String() + "]"
	switch status {
	case command.Succeeded:
		label = okStyle.Render(label)
	case command.Timeout:
		label = timeoutStyle.Render(label)
	default:
		label = failStyle.Render(label)
	}
	raw := cmd.Response().Raw
	if raw == "" {
		raw = cmd.Name()
	}
	return fmt.Sprintf("%s %s %s", label, raw, dimStyle.Render(elapsed.Round(time.Microsecond).String()))
}
