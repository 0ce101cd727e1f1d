package commands

import (
	"fmt"
	"io"
	"os"
	"sync"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"

	"github.com/diogo/transcribechat/internal/models"
	"github.com/diogo/transcribechat/internal/progress"
)

// lineReporter prints the progress bubbles of the send command as lines.
// On a terminal the newest line is redrawn in place until it is final.
type lineReporter struct {
	mu      sync.Mutex
	w       io.Writer
	tty     bool
	bar     progressbar.Model
	kinds   []models.Kind
	texts   []string
	loaders map[progress.Handle]int
	pending progress.Handle
}

var _ progress.Reporter = (*lineReporter)(nil)

func newLineReporter(w io.Writer, tty bool) *lineReporter {
	return &lineReporter{
		w:       w,
		tty:     tty,
		bar:     progressbar.New(progressbar.WithSolidFill(string(colorLoader)), progressbar.WithoutPercentage(), progressbar.WithWidth(30)),
		loaders: make(map[progress.Handle]int),
		pending: -1,
	}
}

func (r *lineReporter) Post(kind models.Kind, text string) progress.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.endLine()
	h := progress.Handle(len(r.texts))
	r.kinds = append(r.kinds, kind)
	r.texts = append(r.texts, text)
	r.pending = h
	r.draw(h)
	return h
}

func (r *lineReporter) Replace(h progress.Handle, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.valid(h) {
		return
	}
	r.texts[h] = text
	delete(r.loaders, h)

	if h != r.pending {
		r.endLine()
		r.pending = h
	}
	r.draw(h)
	r.endLine()
}

func (r *lineReporter) Percent(h progress.Handle, percent int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.valid(h) {
		return
	}
	r.loaders[h] = percent

	if h != r.pending {
		r.endLine()
		r.pending = h
	}
	r.draw(h)
}

// Flush terminates the line being redrawn, if any
func (r *lineReporter) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endLine()
}

func (r *lineReporter) valid(h progress.Handle) bool {
	return h >= 0 && int(h) < len(r.texts)
}

// draw redraws the pending line on a terminal. Elsewhere nothing is
// printed until the line is final.
func (r *lineReporter) draw(h progress.Handle) {
	if !r.tty {
		return
	}
	fmt.Fprint(r.w, "\r\033[K"+r.format(h))
}

// endLine finishes the pending line
func (r *lineReporter) endLine() {
	if r.pending < 0 {
		return
	}
	if r.tty {
		fmt.Fprintln(r.w)
	} else {
		fmt.Fprintln(r.w, r.format(r.pending))
	}
	r.pending = -1
}

func (r *lineReporter) format(h progress.Handle) string {
	if percent, ok := r.loaders[h]; ok {
		if !r.tty {
			return fmt.Sprintf("  %d%%", percent)
		}
		return "  " + r.bar.ViewAs(float64(percent)/100) + dimStyle.Render(fmt.Sprintf(" %3d%%", percent))
	}

	if r.kinds[h] == models.KindUser {
		return userLineStyle.Render("› " + r.texts[h])
	}
	return botLineStyle.Render("  " + r.texts[h])
}

// discardReporter swallows the progress bubbles in --raw mode
type discardReporter struct{}

func (discardReporter) Post(models.Kind, string) progress.Handle { return 0 }
func (discardReporter) Replace(progress.Handle, string)          {}
func (discardReporter) Percent(progress.Handle, int)             {}
func (discardReporter) Flush()                                   {}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or 80 when it is not a terminal
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}
