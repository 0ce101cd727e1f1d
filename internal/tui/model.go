package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/diogo/transcribechat/internal/api"
	"github.com/diogo/transcribechat/internal/audio"
	"github.com/diogo/transcribechat/internal/config"
	"github.com/diogo/transcribechat/internal/logger"
	"github.com/diogo/transcribechat/internal/models"
	"github.com/diogo/transcribechat/internal/progress"
	"github.com/diogo/transcribechat/internal/render"
	"github.com/diogo/transcribechat/internal/typewriter"
)

// Options configures the chat widget
type Options struct {
	Strings         models.Strings
	Timings         progress.Timings
	TypewriterDelay time.Duration
	Render          render.Options
	Theme           string
	CopyToClipboard bool
	Logger          *logger.Logger
	// InitialFile is preselected in the message box
	InitialFile *audio.File
	// Probe reads the audio duration; defaults to audio.ProbeDuration
	Probe func(path string) (time.Duration, error)
	// Clipboard writes text to the system clipboard; defaults to clipboard.WriteAll
	Clipboard func(text string) error
}

// DefaultOptions returns the options of a default configuration
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig builds widget options from the user configuration
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Strings:         cfg.Strings(),
		Timings:         progress.DefaultTimings(),
		TypewriterDelay: cfg.TypewriterDelay(),
		Render:          render.OptionsFromConfig(cfg),
		Theme:           cfg.TUITheme,
		CopyToClipboard: cfg.CopyToClipboard,
	}
}

// Model represents the chat widget state
type Model struct {
	client api.TranscriberInterface
	opts   Options
	str    models.Strings
	log    *logger.Logger
	keys   keyMap

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	bar      progressbar.Model
	picker   FilePickerModel

	// Message log
	messages []chatMessage

	// Selection
	file *audio.File

	// Upload state
	processing  bool
	stopped     bool
	generation  string
	uploading   *audio.File
	stage       progress.Stage
	signal      *progress.StopSignal
	sim         *progress.Simulator
	sendingIdx  int
	analyzeIdx  int
	loaderIdx   int
	simResolved bool
	responded   bool
	response    *models.TranscribeResponse
	cancel      context.CancelFunc

	// Typewriter state
	typing         *typewriter.Sequence
	typingIdx      int
	lastTranscript string

	// View state
	picking bool
	ready   bool
	err     error
	notice  string
	width   int
	height  int
}

// chatMessage is one bubble of the message log
type chatMessage struct {
	id        string
	kind      models.Kind
	text      string
	loader    bool // shows a progress bar instead of text
	percent   int
	markdown  bool // finished transcript sentences are rendered through glamour
	animating bool

	rendered      string
	renderedWidth int
}

// NewChatModel creates a new chat widget model
func NewChatModel(client api.TranscriberInterface, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Probe == nil {
		opts.Probe = audio.ProbeDuration
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Strings == (models.Strings{}) {
		opts.Strings = models.StringsFor(models.DefaultLocale)
	}

	ti := textinput.New()
	ti.Placeholder = opts.Strings.Placeholder
	ti.CharLimit = 4096
	ti.Prompt = ""
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	bar := progressbar.New(progressbar.WithSolidFill(string(colorLoader)), progressbar.WithoutPercentage())

	m := Model{
		client:    client,
		opts:      opts,
		str:       opts.Strings,
		log:       opts.Logger,
		keys:      defaultKeyMap(),
		input:     ti,
		spinner:   s,
		bar:       bar,
		messages:  []chatMessage{},
		signal:    progress.NewStopSignal(),
		loaderIdx: -1,
	}

	if opts.InitialFile != nil {
		m.selectFile(opts.InitialFile)
	}

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.picking {
			m.picker, cmd = m.picker.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stepDoneMsg:
		return m.handleStepDone(msg)

	case durationMsg:
		return m.handleDuration(msg)

	case progressTickMsg:
		return m.handleProgressTick(msg)

	case completionMsg:
		return m.handleCompletion(msg)

	case transcribeResultMsg:
		return m.handleTranscribeResult(msg)

	case stopResultMsg:
		if msg.err != nil {
			m.log.Warn("stop request failed: %v", msg.err)
		} else if msg.resp != nil {
			m.log.Info("stop request answered: %q", msg.resp.Status)
		}
		return m, nil

	case typeTickMsg:
		return m.handleTypeTick(msg)

	case spinner.TickMsg:
		if m.processing {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Anything else (file picker directory reads, mouse events) goes to the
	// active overlay or the viewport
	if m.picking {
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, m.checkPicker())
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4 // Header panel with border
	inputHeight := 4  // Input panel with border
	statusHeight := 2 // Status bar
	padding := 4      // Messages panel border and padding

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.viewport.KeyMap = scrollKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = contentWidth - 10
	m.bar.Width = max(10, m.bubbleWidth()-12)
	m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picking {
		if msg.String() == "ctrl+c" {
			m.shutdown()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, tea.Batch(cmd, m.checkPicker())
	}

	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.processing {
			return m.stop()
		}
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Action):
		return m.action()

	case key.Matches(msg, m.keys.Browse):
		if m.processing {
			return m, nil
		}
		return m.openPicker()

	case key.Matches(msg, m.keys.Clear):
		if !m.processing {
			m.clearSelection()
			m.err = nil
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		m.copyTranscript()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.processing {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// action is the send/stop button
func (m Model) action() (tea.Model, tea.Cmd) {
	if m.processing {
		return m.stop()
	}

	value := strings.TrimSpace(m.input.Value())
	if m.file == nil || value != m.file.Name {
		if value == "" {
			m.file = nil
			return m, nil
		}
		file, err := audio.Open(expandPath(value))
		if err != nil {
			m.err = err
			return m, nil
		}
		m.selectFile(file)
	}

	return m.send()
}

// send uploads the selected file and starts the simulated progress
func (m Model) send() (tea.Model, tea.Cmd) {
	if m.file == nil || m.processing {
		return m, nil
	}

	m.flushTyping()
	m.settleSimulation()

	file := m.file
	m.err = nil
	m.addMessage(models.KindUser, m.str.FileSentText(file.Name))

	m.generation = uuid.NewString()
	m.signal.Reset()
	m.processing = true
	m.stopped = false
	m.responded = false
	m.response = nil
	m.simResolved = false
	m.sim = nil
	m.uploading = file
	m.input.Blur()

	m.stage = progress.StageSending
	m.sendingIdx = m.addMessage(models.KindUser, m.str.Sending)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.log.Info("upload %s started: %s (%d bytes)", m.generation, file.Name, file.Size)

	return m, tea.Batch(
		transcribeCmd(ctx, m.client, m.generation, file),
		after(m.opts.Timings.StepDelay, stepDoneMsg{gen: m.generation, stage: progress.StageSending}),
		m.spinner.Tick,
	)
}

// stop interrupts the upload in progress. The request stays open: the server
// answers it with the text transcribed so far, which is still rendered.
func (m Model) stop() (tea.Model, tea.Cmd) {
	if !m.processing || m.stopped {
		return m, nil
	}

	m.stopped = true
	m.signal.Signal()
	m.addMessage(models.KindBot, m.str.Interrupted)
	m.log.Info("upload %s stopped by user", m.generation)

	return m, tea.Batch(
		stopCmd(m.client, m.generation),
		m.wake(),
	)
}

// wake makes a ticking simulation notice the stop signal right away
func (m Model) wake() tea.Cmd {
	if m.stage != progress.StageTicking {
		return nil
	}
	return after(0, progressTickMsg{gen: m.generation})
}

func (m Model) handleStepDone(msg stepDoneMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.generation || msg.stage != m.stage {
		return m, nil
	}

	switch msg.stage {
	case progress.StageSending:
		m.setMessageText(m.sendingIdx, m.str.WithOK(m.str.Sending))
		m.analyzeIdx = m.addMessage(models.KindBot, m.str.Analyzing)
		m.stage = progress.StageAnalyzing
		return m, after(m.opts.Timings.StepDelay, stepDoneMsg{gen: m.generation, stage: progress.StageAnalyzing})

	case progress.StageAnalyzing:
		m.setMessageText(m.analyzeIdx, m.str.WithOK(m.str.Analyzing))
		m.loaderIdx = m.addLoader()
		m.stage = progress.StageProbing
		return m, probeCmd(m.opts.Probe, m.generation, m.uploading.Path)
	}

	return m, nil
}

func (m Model) handleDuration(msg durationMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.generation || m.stage != progress.StageProbing {
		return m, nil
	}

	duration := msg.duration
	if msg.err != nil {
		m.log.Warn("could not read duration of %s: %v", m.uploading.Name, msg.err)
		duration = 0
	}

	m.sim = progress.NewSimulator(m.opts.Timings, duration)
	m.stage = progress.StageTicking
	m.log.Debug("progress animation: audio=%s total=%s step=%s", duration, m.sim.Total(), m.sim.Step())

	if m.signal.Done() {
		return m, m.wake()
	}
	return m, after(m.sim.Step(), progressTickMsg{gen: m.generation})
}

func (m Model) handleProgressTick(msg progressTickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.generation || m.stage != progress.StageTicking {
		return m, nil
	}

	percent, finished := m.sim.Tick(m.signal.Done())
	m.setPercent(m.loaderIdx, percent)

	if finished {
		m.stage = progress.StageCompleting
		return m, after(m.opts.Timings.Completion, completionMsg{gen: m.generation})
	}
	return m, after(m.sim.Step(), progressTickMsg{gen: m.generation})
}

func (m Model) handleCompletion(msg completionMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.generation || m.stage != progress.StageCompleting {
		return m, nil
	}

	if m.loaderIdx >= 0 && m.loaderIdx < len(m.messages) {
		m.messages[m.loaderIdx].loader = false
	}
	m.setMessageText(m.loaderIdx, m.str.Completed)
	m.stage = progress.StageDone
	m.simResolved = true

	return m.maybeRender()
}

func (m Model) handleTranscribeResult(msg transcribeResultMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.generation {
		m.log.Debug("dropping result of superseded upload %s", msg.gen)
		return m, nil
	}

	m.releaseRequest()
	m.signal.Signal()
	wake := m.wake()

	if msg.err != nil {
		m.processing = false
		m.input.Focus()

		if m.stopped && errors.Is(msg.err, context.Canceled) {
			m.log.Info("upload %s cancelled after stop", msg.gen)
			m.stopped = false
			return m, wake
		}

		m.log.Error("upload %s failed: %v", msg.gen, msg.err)
		m.stopped = false
		m.addMessage(models.KindBot, m.str.SendError)
		m.err = msg.err
		return m, wake
	}

	m.response = msg.resp
	m.responded = true

	next, cmd := m.maybeRender()
	return next, tea.Batch(wake, cmd)
}

// maybeRender starts showing the transcript once both the response and the
// simulated progress are done
func (m Model) maybeRender() (tea.Model, tea.Cmd) {
	if !m.responded || !m.simResolved {
		return m, nil
	}

	resp := m.response
	m.responded = false
	m.response = nil
	m.processing = false
	m.stopped = false
	m.clearSelection()
	m.input.Focus()

	if !resp.HasText() {
		m.addMessage(models.KindBot, m.str.NoText)
		return m, nil
	}

	sentences := resp.Sentences()
	m.lastTranscript = strings.Join(sentences, " ")
	if resp.Aborted {
		sentences = append(sentences, m.str.Aborted)
	}

	if m.opts.CopyToClipboard {
		m.copyTranscript()
	}

	m.typing = typewriter.New(sentences)
	m.log.Debug("typing %d sentences", m.typing.Len())
	return m, after(0, typeTickMsg{gen: m.generation})
}

func (m Model) handleTypeTick(msg typeTickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.generation || m.typing == nil {
		return m, nil
	}

	step, ok := m.typing.Next()
	if !ok {
		m.typing = nil
		return m, nil
	}
	m.applyStep(step)

	return m, after(m.opts.TypewriterDelay, typeTickMsg{gen: m.generation})
}

func (m *Model) applyStep(step typewriter.Step) {
	if step.NewBubble {
		m.typingIdx = m.addMessage(models.KindBot, "")
		m.messages[m.typingIdx].markdown = true
		m.messages[m.typingIdx].animating = true
	}

	msg := &m.messages[m.typingIdx]
	msg.text = step.Text
	if step.SentenceDone {
		msg.animating = false
		msg.text = strings.TrimSpace(step.Text)
	}
	m.refresh()
}

// flushTyping reveals whatever is left of the current transcript at once
func (m *Model) flushTyping() {
	if m.typing == nil {
		return
	}
	for step, ok := m.typing.Next(); ok; step, ok = m.typing.Next() {
		m.applyStep(step)
	}
	m.typing = nil
}

// settleSimulation finishes the bubbles of a simulation still running from
// an earlier upload, which happens when a new file is sent right after an
// error. Its remaining ticks belong to the old generation and are dropped.
func (m *Model) settleSimulation() {
	if !m.stage.Active() {
		return
	}

	switch m.stage {
	case progress.StageSending:
		m.setMessageText(m.sendingIdx, m.str.WithOK(m.str.Sending))
	case progress.StageAnalyzing:
		m.setMessageText(m.analyzeIdx, m.str.WithOK(m.str.Analyzing))
	default:
		if m.loaderIdx >= 0 && m.loaderIdx < len(m.messages) {
			m.messages[m.loaderIdx].loader = false
			m.messages[m.loaderIdx].percent = 100
		}
		m.setMessageText(m.loaderIdx, m.str.Completed)
	}

	m.log.Debug("settled %s simulation of upload %s", m.stage, m.generation)
	m.stage = progress.StageDone
	m.sim = nil
	m.loaderIdx = -1
}

// releaseRequest cancels the context of the upload in flight, if any
func (m *Model) releaseRequest() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) shutdown() {
	m.releaseRequest()
}

// addMessage appends a bubble and returns its index
func (m *Model) addMessage(kind models.Kind, text string) int {
	msg := models.NewMessage(text, kind)
	m.messages = append(m.messages, chatMessage{id: msg.ID, kind: msg.Kind, text: msg.Text})
	m.refresh()
	return len(m.messages) - 1
}

func (m *Model) addLoader() int {
	i := m.addMessage(models.KindBot, "")
	m.messages[i].loader = true
	m.refresh()
	return i
}

// setMessageText overwrites the text of a bubble
func (m *Model) setMessageText(i int, text string) {
	if i < 0 || i >= len(m.messages) {
		return
	}
	m.messages[i].text = text
	m.messages[i].rendered = ""
	m.refresh()
}

func (m *Model) setPercent(i, percent int) {
	if i < 0 || i >= len(m.messages) {
		return
	}
	m.messages[i].percent = percent
	m.refresh()
}

// selectFile mirrors the chosen file into the message box
func (m *Model) selectFile(file *audio.File) {
	m.file = file
	m.input.SetValue(file.Name)
	m.input.CursorEnd()
}

// clearSelection drops the selected file and empties the message box
func (m *Model) clearSelection() {
	m.file = nil
	m.input.Reset()
}

func (m *Model) copyTranscript() {
	if m.lastTranscript == "" {
		m.notice = "Nothing to copy yet"
		return
	}
	if err := m.opts.Clipboard(m.lastTranscript); err != nil {
		m.log.Warn("clipboard write failed: %v", err)
		m.notice = "Clipboard unavailable"
		return
	}
	m.notice = "Transcript copied to clipboard"
}

func (m Model) openPicker() (tea.Model, tea.Cmd) {
	dir := ""
	if m.file != nil {
		dir = filepath.Dir(m.file.Path)
	}
	m.picker = NewFilePickerModel(dir)
	m.picking = true

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	return m, tea.Batch(m.picker.Init(), cmd)
}

// checkPicker closes the picker once it was confirmed or cancelled
func (m *Model) checkPicker() tea.Cmd {
	if !m.picker.IsConfirmed() {
		return nil
	}
	m.picking = false

	if m.picker.IsCancelled() {
		return nil
	}

	file, err := audio.Open(m.picker.Selected())
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.selectFile(file)
	return nil
}

// Messages returns the texts of the message log, oldest first
func (m Model) Messages() []models.Message {
	out := make([]models.Message, len(m.messages))
	for i, msg := range m.messages {
		out[i] = models.Message{ID: msg.id, Text: msg.text, Kind: msg.kind}
	}
	return out
}

// Processing reports whether an upload is in progress
func (m Model) Processing() bool {
	return m.processing
}

// SelectedFile returns the file in the message box, if any
func (m Model) SelectedFile() *audio.File {
	return m.file
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// RunChat starts the chat widget
func RunChat(client api.TranscriberInterface, opts Options) error {
	ApplyTheme(render.ResolveTUITheme(opts.Theme))

	m := NewChatModel(client, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.shutdown()
	}
	return err
}
