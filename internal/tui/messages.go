package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/transcribechat/internal/api"
	"github.com/diogo/transcribechat/internal/audio"
	"github.com/diogo/transcribechat/internal/models"
	"github.com/diogo/transcribechat/internal/progress"
)

// stopRequestTimeout bounds the best-effort /stop call
const stopRequestTimeout = 10 * time.Second

// Every message produced for an upload carries its generation; the model
// drops messages whose generation is not the current one.
type (
	// stepDoneMsg fires when the wait of a status bubble elapsed
	stepDoneMsg struct {
		gen   string
		stage progress.Stage
	}
	// durationMsg carries the probed length of the uploaded audio
	durationMsg struct {
		gen      string
		duration time.Duration
		err      error
	}
	progressTickMsg struct {
		gen string
	}
	// completionMsg fires after 100% was shown for the completion delay
	completionMsg struct {
		gen string
	}
	transcribeResultMsg struct {
		gen  string
		resp *models.TranscribeResponse
		err  error
	}
	stopResultMsg struct {
		gen  string
		resp *models.StopResponse
		err  error
	}
	typeTickMsg struct {
		gen string
	}
)

// after delivers msg once d has elapsed, or right away when d is not positive
func after(d time.Duration, msg tea.Msg) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// transcribeCmd uploads file off the event loop
func transcribeCmd(ctx context.Context, client api.TranscriberInterface, gen string, file *audio.File) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Transcribe(ctx, file)
		return transcribeResultMsg{gen: gen, resp: resp, err: err}
	}
}

// stopCmd notifies the server that the user interrupted the upload
func stopCmd(client api.TranscriberInterface, gen string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), stopRequestTimeout)
		defer cancel()
		resp, err := client.Stop(ctx)
		return stopResultMsg{gen: gen, resp: resp, err: err}
	}
}

// probeCmd reads the duration of the audio at path
func probeCmd(probe func(string) (time.Duration, error), gen, path string) tea.Cmd {
	return func() tea.Msg {
		if probe == nil {
			return durationMsg{gen: gen}
		}
		d, err := probe(path)
		return durationMsg{gen: gen, duration: d, err: err}
	}
}
