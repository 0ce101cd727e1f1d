package progress

import (
	"context"
	"time"

	"github.com/diogo/transcribechat/internal/logger"
	"github.com/diogo/transcribechat/internal/models"
)

// Handle identifies a bubble posted through a Reporter
type Handle int

// Reporter receives the bubbles of a simulated progress sequence
type Reporter interface {
	// Post appends a bubble and returns a handle for later updates
	Post(kind models.Kind, text string) Handle
	// Replace overwrites the text of a posted bubble
	Replace(h Handle, text string)
	// Percent updates the readout of a loader bubble
	Percent(h Handle, percent int)
}

// ProbeFunc returns the duration of the audio being transcribed
type ProbeFunc func() (time.Duration, error)

// Runner plays the simulated sequence on real timers. The chat TUI drives
// the same sequence through its own event loop instead.
type Runner struct {
	timings Timings
	strings models.Strings
	probe   ProbeFunc
	log     *logger.Logger
}

// NewRunner creates a runner. A nil probe means the duration is unknown.
func NewRunner(timings Timings, strings models.Strings, probe ProbeFunc, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		timings: timings,
		strings: strings,
		probe:   probe,
		log:     log,
	}
}

// Run posts the status bubbles, animates the loader until signal is raised,
// then shows 100% and the completion message. It returns early only when
// ctx is cancelled.
func (r *Runner) Run(ctx context.Context, rep Reporter, signal *StopSignal) error {
	sending := rep.Post(models.KindUser, r.strings.Sending)
	if err := sleep(ctx, r.timings.StepDelay); err != nil {
		return err
	}
	rep.Replace(sending, r.strings.WithOK(r.strings.Sending))

	analyzing := rep.Post(models.KindBot, r.strings.Analyzing)
	if err := sleep(ctx, r.timings.StepDelay); err != nil {
		return err
	}
	rep.Replace(analyzing, r.strings.WithOK(r.strings.Analyzing))

	loader := rep.Post(models.KindBot, "")
	rep.Percent(loader, 0)

	var duration time.Duration
	if r.probe != nil {
		d, err := r.probe()
		if err != nil {
			r.log.Warn("could not read audio duration: %v", err)
		} else {
			duration = d
		}
	}

	sim := NewSimulator(r.timings, duration)
	r.log.Debug("progress animation: audio=%s total=%s step=%s", duration, sim.Total(), sim.Step())

	ticker := time.NewTicker(sim.Step())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-signal.C():
		case <-ticker.C:
		}

		percent, finished := sim.Tick(signal.Done())
		rep.Percent(loader, percent)
		if finished {
			break
		}
	}

	if err := sleep(ctx, r.timings.Completion); err != nil {
		return err
	}
	rep.Replace(loader, r.strings.Completed)
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
