package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/amcpctl/internal/protocol/command"
	"github.com/danmuck/amcpctl/internal/testutil/amcptest"
	"github.com/danmuck/amcpctl/internal/testutil/testlog"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runRootWithInput(t, "", args...)
}

func runRootWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	root.SetIn(strings.NewReader(input))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCompilePrintsWireText(t *testing.T) {
	testlog.Start(t)
	path := writeProfile(t, "")
	got, err := runRoot(t, "--profile", path, "compile", "PLAY", "1-10", "AMB", "LOOP")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got != "PLAY 1-10 \"AMB\" LOOP\n" {
		t.Fatalf("unexpected wire text: %q", got)
	}
}

func TestCompileRejectsInvalidParams(t *testing.T) {
	testlog.Start(t)
	path := writeProfile(t, "")
	if _, err := runRoot(t, "--profile", path, "compile", "LOAD", "1-10"); !errors.Is(err, command.ErrInvalidParams) {
		t.Fatalf("expected invalid params, got %v", err)
	}
	if _, err := runRoot(t, "--profile", path, "-o", "xml", "compile", "CLS"); err == nil {
		t.Fatalf("expected output format error")
	}
}

func TestVerbsListsCatalog(t *testing.T) {
	testlog.Start(t)
	path := writeProfile(t, "")
	got, err := runRoot(t, "--profile", path, "verbs", "-o", "json")
	if err != nil {
		t.Fatalf("verbs: %v", err)
	}
	for _, key := range []string{"PLAY", "CG ADD", "MIXER FILL QUERY"} {
		if !strings.Contains(got, `"key": "`+key+`"`) {
			t.Fatalf("verbs output missing %q", key)
		}
	}
}

func TestSendAgainstServer(t *testing.T) {
	testlog.Start(t)
	srv := amcptest.Start(t, amcptest.Options{})
	path := writeProfile(t, "address = \""+srv.Addr()+"\"\n")

	got, err := runRoot(t, "--profile", path, "-o", "json", "send", "PLAY", "1-10", "AMB", "LOOP")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(got, `"status": "succeeded"`) {
		t.Fatalf("expected succeeded snapshot, got:\n%s", got)
	}
	reqs := srv.WaitReceived(2, time.Second)
	if len(reqs) < 2 {
		t.Fatalf("expected negotiation and command, got %d requests", len(reqs))
	}
	if reqs[0].Verb != "VERSION" {
		t.Fatalf("expected VERSION first, got %q", reqs[0].Line)
	}
	last := reqs[len(reqs)-1]
	if last.Token == "" || last.Line != `PLAY 1-10 "AMB" LOOP` {
		t.Fatalf("unexpected command request: %+v", last)
	}
}

func TestSendReportsFailure(t *testing.T) {
	testlog.Start(t)
	srv := amcptest.Start(t, amcptest.Options{
		Version:  amcptest.Version218,
		Handlers: map[string]amcptest.Handler{"LOAD": amcptest.Static(amcptest.Fail(404, "LOAD"))},
	})
	path := writeProfile(t, "address = \""+srv.Addr()+"\"\n")

	got, err := runRoot(t, "--profile", path, "send", "LOAD", "1-10", "MISSING")
	if err == nil {
		t.Fatalf("expected send failure")
	}
	if !strings.Contains(got, "failed") {
		t.Fatalf("expected failed snapshot, got:\n%s", got)
	}
}

func TestOfflineConsoleCompilesLines(t *testing.T) {
	testlog.Start(t)
	path := writeProfile(t, "")
	got, err := runRootWithInput(t, "PLAY 1-10 AMB LOOP\n.verbs\nJUGGLE 1\n.quit\nCLEAR 1\n", "--profile", path, "console", "--offline")
	if err != nil {
		t.Fatalf("console: %v", err)
	}
	if !strings.Contains(got, "amcp(offline)> ") {
		t.Fatalf("missing offline prompt:\n%s", got)
	}
	if !strings.Contains(got, "PLAY 1-10 \"AMB\" LOOP\n") {
		t.Fatalf("missing compiled line:\n%s", got)
	}
	if !strings.Contains(got, "MIXER FILL QUERY") {
		t.Fatalf("missing .verbs listing:\n%s", got)
	}
	if !strings.Contains(got, "unknown verb") {
		t.Fatalf("missing error for unknown verb:\n%s", got)
	}
	if strings.Contains(got, "CLEAR 1") {
		t.Fatalf("console kept reading after .quit:\n%s", got)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	testlog.Start(t)
	profile := writeProfile(t, "")
	path := filepath.Join(t.TempDir(), "gateway.toml")

	got, err := runRoot(t, "--profile", profile, "config", "init", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(got, "Wrote gateway config template") {
		t.Fatalf("unexpected init output: %q", got)
	}
	if _, err := runRoot(t, "--profile", profile, "config", "init", path); err == nil {
		t.Fatalf("expected init to refuse overwriting")
	}
	if got, err = runRoot(t, "--profile", profile, "config", "validate", path); err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(got, "Validated config") {
		t.Fatalf("unexpected validate output: %q", got)
	}
	got, err = runRoot(t, "--profile", profile, "config", "show", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(got, "[gateway]") {
		t.Fatalf("unexpected show output:\n%s", got)
	}
}
