package commands

import (
	"io"
	"os"
	"os/signal"

	"github.com/atotto/clipboard"

	"github.com/diogo/transcribechat/internal/api"
	"github.com/diogo/transcribechat/internal/progress"
	"github.com/diogo/transcribechat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(client api.TranscriberInterface, opts tui.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client is the transcription client. When nil, one is built from the
	// resolved configuration.
	Client api.TranscriberInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	Stdout io.Writer
	Stderr io.Writer

	// Clipboard writes text to the system clipboard.
	Clipboard func(text string) error

	// Timings overrides the simulated progress delays of the send command.
	Timings *progress.Timings

	// Interrupts replaces the os.Interrupt notifications watched by send.
	Interrupts <-chan os.Signal
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client api.TranscriberInterface, opts tui.Options) error {
	return tui.RunChat(client, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:       &DefaultTUI{},
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Clipboard: clipboard.WriteAll,
	}
}

func (d *Dependencies) stdout() io.Writer {
	if d.Stdout == nil {
		return os.Stdout
	}
	return d.Stdout
}

func (d *Dependencies) stderr() io.Writer {
	if d.Stderr == nil {
		return os.Stderr
	}
	return d.Stderr
}

func (d *Dependencies) timings() progress.Timings {
	if d.Timings == nil {
		return progress.DefaultTimings()
	}
	return *d.Timings
}

func (d *Dependencies) copyToClipboard(text string) error {
	if d.Clipboard == nil {
		return clipboard.WriteAll(text)
	}
	return d.Clipboard(text)
}

// watchInterrupts returns the channel Ctrl+C presses arrive on and a func
// that stops watching
func (d *Dependencies) watchInterrupts() (<-chan os.Signal, func()) {
	if d.Interrupts != nil {
		return d.Interrupts, func() {}
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return ch, func() { signal.Stop(ch) }
}
