package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/transcribechat/internal/models"
)

func newStopCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Ask the server to stop the running transcription",
		Long: `Ask the transcription server to stop the file it is working on.

The server answers "stopping" when a transcription was running and
"no_active_task" otherwise. The status is printed to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStop(cmd.Context(), deps, flags)
		},
	}
}

func runStop(ctx context.Context, deps *Dependencies, flags *rootFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(deps, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(ctx, stopRequestTimeout)
	defer cancel()

	stderr := deps.stderr()
	var spin *spinner
	if isTerminal(stderr) {
		spin = newSpinner(stderr, "Contacting "+a.client.BaseURL())
		spin.start()
	}

	resp, err := a.client.Stop(ctx)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		return fmt.Errorf("stop request failed: %w", err)
	}

	message := "No transcription in progress"
	if resp.Stopping() {
		message = "The server is stopping the current transcription"
	} else if resp.Status != models.StopStatusNoActiveTask {
		message = fmt.Sprintf("Unexpected status %q", resp.Status)
	}

	if spin != nil {
		spin.stopWithSuccess(message)
	} else {
		fmt.Fprintln(stderr, message)
	}
	a.log.Info("stop requested: %q", resp.Status)

	fmt.Fprintln(deps.stdout(), resp.Status)
	return nil
}
