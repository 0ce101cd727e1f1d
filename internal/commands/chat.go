package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/transcribechat/internal/audio"
	"github.com/diogo/transcribechat/internal/tui"
)

func newChatCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [file]",
		Short: "Start the interactive chat widget",
		Long: `Start the interactive chat widget.

Type the path of an audio file in the message box or press Ctrl+O to browse,
then press Enter to send it. While the server transcribes, Enter or Esc
stops the upload. Press Ctrl+C to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runChat(deps, flags, path)
		},
	}
}

func runChat(deps *Dependencies, flags *rootFlags, path string) error {
	a, err := newApp(deps, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := tui.OptionsFromConfig(a.cfg)
	opts.Logger = a.log
	opts.Clipboard = deps.copyToClipboard

	if path != "" {
		file, err := audio.Open(path)
		if err != nil {
			return err
		}
		opts.InitialFile = file
	}

	a.log.Info("chat started against %s", a.client.BaseURL())
	return deps.TUI.RunChat(a.client, opts)
}
