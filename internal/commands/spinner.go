package commands

import (
	"fmt"
	"io"
	"sync"
	"time"

	bubblespinner "github.com/charmbracelet/bubbles/spinner"
)

// spinner animates a one-line status on stderr while a request to the
// server is pending. Frames come from the widget's spinner set and are drawn
// in the theme's primary color.
type spinner struct {
	w       io.Writer
	message string
	frames  bubblespinner.Spinner
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		frames:  bubblespinner.MiniDot,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.frames.FPS)
		defer ticker.Stop()

		fmt.Fprint(s.w, "\033[?25l")
		s.draw()

		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.draw()
			}
		}
	}()
}

func (s *spinner) draw() {
	s.mu.Lock()
	defer s.mu.Unlock()

	glyph := s.frames.Frames[s.frame%len(s.frames.Frames)]
	s.frame++
	fmt.Fprintf(s.w, "\r\033[K%s %s", spinnerStyle.Render(glyph), botLineStyle.Render(s.message))
}

func (s *spinner) halt() {
	s.mu.Lock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
	s.mu.Unlock()
	<-s.done
}

// stopWithSuccess replaces the animation with a final status line
func (s *spinner) stopWithSuccess(message string) {
	s.halt()
	fmt.Fprintf(s.w, "%s %s\n", successStyle.Bold(true).Render("✓"), successStyle.Render(message))
}

// stopWithError clears the animation; the caller reports the error
func (s *spinner) stopWithError() {
	s.halt()
}
