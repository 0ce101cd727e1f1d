package commands

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/diogo/transcribechat/internal/api"
	"github.com/diogo/transcribechat/internal/config"
	"github.com/diogo/transcribechat/internal/models"
)

func TestRootCommand_Help(t *testing.T) {
	cmd := NewRootCmd(NewDependencies())
	if cmd.Use != "transcribechat [file]" {
		t.Errorf("Expected use 'transcribechat [file]', got %s", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("descriptions should not be empty")
	}

	want := map[string]bool{"chat": false, "send": false, "stop": false, "config": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %s not registered", name)
		}
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	cmd := NewRootCmd(NewDependencies())
	for _, name := range []string{"server", "locale", "verbose", "log-file"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag --%s missing", name)
		}
	}
	if f := cmd.PersistentFlags().ShorthandLookup("s"); f == nil || f.Name != "server" {
		t.Error("-s should be --server")
	}
}

func TestRootCommand_Version(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})

	if err := env.run("-v"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(env.stdout.String(), "transcribechat "+Version) {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestRootCommand_NoArgsShowsHelp(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})

	if err := env.run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Usage:") {
		t.Errorf("expected help, got %q", env.stdout.String())
	}
}

func TestRootCommand_FileArgSends(t *testing.T) {
	client := &api.MockClient{TranscribeVal: &models.TranscribeResponse{Text: "Oi. Tchau."}}
	env := newTestEnv(t, client)

	if err := env.run("--raw", writeClip(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.stdout.String() != "Oi. Tchau.\n" {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestRootCommand_TooManyArgs(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})
	if err := env.run("a.wav", "b.wav"); err == nil {
		t.Error("expected an argument error")
	}
}

func TestResolveConfig_FlagsOverride(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})
	saveConfig(t, func(c *config.Config) { c.ServerURL = "http://from-file:1" })
	t.Setenv(config.EnvLocale, "en")

	flags := &rootFlags{server: " http://from-flag:2/ ", verbose: true}
	cfg, err := flags.resolveConfig(env.deps)
	if err != nil {
		t.Fatalf("resolveConfig() error: %v", err)
	}
	if cfg.ServerURL != "http://from-flag:2" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.Locale != "en" {
		t.Errorf("Locale = %q, environment should apply", cfg.Locale)
	}
	if !cfg.Verbose {
		t.Error("--verbose should enable debug logging")
	}
}

func TestResolveConfig_Invalid(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})

	tests := []struct {
		name  string
		flags rootFlags
	}{
		{"bad server", rootFlags{server: "ftp://host"}},
		{"bad locale", rootFlags{locale: "fr"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.flags.resolveConfig(env.deps); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNewApp_BuildsClient(t *testing.T) {
	env := newTestEnv(t, nil)

	a, err := newApp(env.deps, &rootFlags{server: "http://127.0.0.1:9"})
	if err != nil {
		t.Fatalf("newApp() error: %v", err)
	}
	defer a.Close()

	if !a.owned {
		t.Error("client built by the command should be owned")
	}
	if a.client.BaseURL() != "http://127.0.0.1:9" {
		t.Errorf("BaseURL() = %q", a.client.BaseURL())
	}
}

func TestExecuteWrapperSuccess(t *testing.T) {
	old := rootCmd
	rootCmd = &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	rootCmd.SetArgs([]string{})
	defer func() { rootCmd = old }()

	// Should not call os.Exit for successful execution
	Execute()
}
