package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diogo/transcribechat/internal/api"
	"github.com/diogo/transcribechat/internal/config"
	"github.com/diogo/transcribechat/internal/progress"
	"github.com/diogo/transcribechat/internal/tui"
)

// fakeTUI records the chat launch instead of taking over the terminal
type fakeTUI struct {
	called bool
	client api.TranscriberInterface
	opts   tui.Options
	err    error
}

func (f *fakeTUI) RunChat(client api.TranscriberInterface, opts tui.Options) error {
	f.called = true
	f.client = client
	f.opts = opts
	return f.err
}

type testEnv struct {
	deps      *Dependencies
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	tui       *fakeTUI
	clipboard []string
	home      string
}

// newTestEnv isolates HOME and the environment overrides and wires fast
// progress timings
func newTestEnv(t *testing.T, client api.TranscriberInterface) *testEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvServerURL, "")
	t.Setenv(config.EnvLocale, "")
	t.Setenv(config.EnvLogFile, "")

	env := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		tui:    &fakeTUI{},
		home:   home,
	}
	env.deps = &Dependencies{
		Client: client,
		TUI:    env.tui,
		Stdout: env.stdout,
		Stderr: env.stderr,
		Clipboard: func(text string) error {
			env.clipboard = append(env.clipboard, text)
			return nil
		},
		Timings: &progress.Timings{
			StepDelay:      time.Millisecond,
			MinTotal:       20 * time.Millisecond,
			PerAudioSecond: time.Millisecond,
			Completion:     time.Millisecond,
		},
	}
	return env
}

func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func writeClip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("ID3fake"), 0o600); err != nil {
		t.Fatalf("write clip: %v", err)
	}
	return path
}

func saveConfig(t *testing.T, mutate func(*config.Config)) {
	t.Helper()
	cfg := config.DefaultConfig()
	mutate(&cfg)
	if err := config.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}
}
