package progress

import "sync"

// StopSignal tells a running simulation that the transcription is over,
// whether it succeeded, failed or was stopped by the user. It is safe for
// concurrent use; Reset re-arms it for the next upload.
type StopSignal struct {
	mu   sync.Mutex
	done bool
	ch   chan struct{}
}

// NewStopSignal returns an armed signal
func NewStopSignal() *StopSignal {
	return &StopSignal{ch: make(chan struct{})}
}

// Reset re-arms the signal
func (s *StopSignal) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = false
	s.ch = make(chan struct{})
}

// Signal marks the signal done. Calling it more than once is harmless.
func (s *StopSignal) Signal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	close(s.ch)
}

// Done reports whether the signal was raised
func (s *StopSignal) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// C returns a channel closed when the signal is raised
func (s *StopSignal) C() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch
}
