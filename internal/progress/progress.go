// Package progress fabricates the upload progress readout shown while the
// server transcribes. Nothing here reflects real server progress.
package progress

import (
	"time"

	"github.com/diogo/transcribechat/internal/models"
)

// Timings holds the delays of the simulated progress sequence
type Timings struct {
	StepDelay      time.Duration // wait before a status bubble is marked OK
	MinTotal       time.Duration // floor of the percentage animation
	PerAudioSecond time.Duration // animation time per second of audio
	Completion     time.Duration // how long 100% is shown before the completion message
}

// DefaultTimings returns the timings of the original widget
func DefaultTimings() Timings {
	return Timings{
		StepDelay:      models.StatusStepDelay,
		MinTotal:       models.MinProgressDuration,
		PerAudioSecond: models.ProgressPerAudioSecond,
		Completion:     models.CompletionDelay,
	}
}

// Estimate returns the total animation time for an audio of the given
// duration and the interval between two percentage ticks.
func (t Timings) Estimate(audioDuration time.Duration) (total, step time.Duration) {
	if audioDuration < 0 {
		audioDuration = 0
	}
	total = time.Duration(audioDuration.Seconds() * float64(t.PerAudioSecond))
	if total < t.MinTotal {
		total = t.MinTotal
	}
	step = total / models.ProgressSteps
	if step <= 0 {
		step = time.Millisecond
	}
	return total, step
}

// Simulator advances the fabricated percentage one tick at a time
type Simulator struct {
	percent  int
	total    time.Duration
	step     time.Duration
	finished bool
}

// NewSimulator creates a simulator paced for an audio of the given duration
func NewSimulator(t Timings, audioDuration time.Duration) *Simulator {
	total, step := t.Estimate(audioDuration)
	return &Simulator{total: total, step: step}
}

// Tick advances the readout. When done is set the simulator jumps to 100%
// and finishes; otherwise the percentage grows by one and stays at or below
// models.ProgressCap. Ticks after finishing keep reporting 100%.
func (s *Simulator) Tick(done bool) (percent int, finished bool) {
	if s.finished {
		return 100, true
	}
	if done {
		s.percent = 100
		s.finished = true
		return s.percent, true
	}
	if s.percent < models.ProgressCap {
		s.percent++
	}
	return s.percent, false
}

// Percent returns the current readout
func (s *Simulator) Percent() int { return s.percent }

// Step returns the interval between ticks
func (s *Simulator) Step() time.Duration { return s.step }

// Total returns the planned animation time
func (s *Simulator) Total() time.Duration { return s.total }

// Finished reports whether the simulator reached 100%
func (s *Simulator) Finished() bool { return s.finished }
