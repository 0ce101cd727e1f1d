// Package commands provides CLI commands for transcribechat.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/transcribechat/internal/api"
	"github.com/diogo/transcribechat/internal/config"
	"github.com/diogo/transcribechat/internal/logger"
	"github.com/diogo/transcribechat/internal/render"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootFlags holds the persistent flags shared by every command
type rootFlags struct {
	server  string
	locale  string
	logFile string
	verbose bool
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd creates the transcribechat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	flags := &rootFlags{}
	send := &sendOptions{format: formatText}

	cmd := &cobra.Command{
		Use:   "transcribechat [file]",
		Short: "Chat-style client for an audio transcription server",
		Long: `transcribechat uploads audio files to a transcription server and shows
the returned text sentence by sentence, typewriter style.

Examples:
  transcribechat chat                      Start the interactive chat widget
  transcribechat chat ~/audio/clip.mp3     Start with a file preselected
  transcribechat clip.wav                  Transcribe a single file
  transcribechat send clip.wav -o out.txt  Save the transcript to a file
  transcribechat stop                      Interrupt the running transcription
  transcribechat config set locale en      Change a setting`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.stdout(), "transcribechat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if len(args) > 0 {
				return runSend(cmd.Context(), deps, flags, args[0], *send)
			}

			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.server, "server", "s", "", "Transcription server URL (default from config)")
	cmd.PersistentFlags().StringVar(&flags.locale, "locale", "", "Language of the chat messages (pt, en)")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Write logs to this file")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")
	send.bind(cmd)

	cmd.AddCommand(newChatCmd(deps, flags))
	cmd.AddCommand(newSendCmd(deps, flags))
	cmd.AddCommand(newStopCmd(deps, flags))
	cmd.AddCommand(NewConfigCmd(deps))

	cmd.SetOut(deps.stdout())
	cmd.SetErr(deps.stderr())

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}

// app is what a command needs once flags and config are resolved
type app struct {
	cfg    config.Config
	log    *logger.Logger
	client api.TranscriberInterface
	owned  bool
}

// Close releases the log file and the client built for the command
func (a *app) Close() {
	if a.owned {
		a.client.Close()
	}
	_ = a.log.Close()
}

// newApp resolves the configuration (.env files, config file, environment,
// then flags), opens the log file and builds the client
func newApp(deps *Dependencies, flags *rootFlags) (*app, error) {
	cfg, err := flags.resolveConfig(deps)
	if err != nil {
		return nil, err
	}

	log := openLogger(deps, cfg)
	applyTheme(render.ResolveTUITheme(cfg.TUITheme))

	a := &app{cfg: cfg, log: log, client: deps.Client}
	if a.client == nil {
		client, err := api.NewClient(
			api.WithBaseURL(cfg.ServerURL),
			api.WithTimeout(cfg.RequestTimeout()),
			api.WithLogger(log),
		)
		if err != nil {
			_ = log.Close()
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
		a.client = client
		a.owned = true
	}

	log.Debug("server=%s locale=%s", cfg.ServerURL, cfg.Locale)
	return a, nil
}

// resolveConfig loads the configuration and applies the flags on top
func (f *rootFlags) resolveConfig(deps *Dependencies) (config.Config, error) {
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(deps.stderr(), "Warning: %v\n", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(deps.stderr(), "Warning: %v, using defaults\n", err)
	}

	if f.server != "" {
		cfg.ServerURL = strings.TrimRight(strings.TrimSpace(f.server), "/")
	}
	if f.locale != "" {
		cfg.Locale = f.locale
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}
	if f.verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openLogger opens the log file. Logging never stops a command: when the
// file cannot be opened the logger discards everything.
func openLogger(deps *Dependencies, cfg config.Config) *logger.Logger {
	level := logger.LevelNormal
	if cfg.Verbose {
		level = logger.LevelVerbose
	}

	path, err := config.GetLogPath(cfg)
	if err != nil {
		return logger.Nop()
	}
	log, err := logger.NewFile(level, path)
	if err != nil {
		fmt.Fprintf(deps.stderr(), "Warning: %v\n", err)
		return logger.Nop()
	}
	return log
}
