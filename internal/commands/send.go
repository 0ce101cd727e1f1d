package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/diogo/transcribechat/internal/audio"
	"github.com/diogo/transcribechat/internal/models"
	"github.com/diogo/transcribechat/internal/progress"
	"github.com/diogo/transcribechat/internal/render"
	"github.com/diogo/transcribechat/internal/typewriter"
)

// Output formats of the send command
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// stopRequestTimeout bounds the best-effort /stop call
const stopRequestTimeout = 10 * time.Second

// sendOptions holds the flags of the send command
type sendOptions struct {
	output      string
	format      string
	raw         bool
	noAnimation bool
	copy        bool
}

func (o *sendOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Save the transcript to a file")
	cmd.Flags().StringVar(&o.format, "format", formatText, "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&o.raw, "raw", false, "Print only the transcribed text, without progress or decoration")
	cmd.Flags().BoolVar(&o.noAnimation, "no-animation", false, "Print sentences at once instead of word by word")
	cmd.Flags().BoolVar(&o.copy, "copy", false, "Copy the transcript to the clipboard")
}

func (o sendOptions) validate() error {
	switch o.format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (available: text, json, yaml)", o.format)
	}
}

func newSendCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	opts := &sendOptions{format: formatText}

	cmd := &cobra.Command{
		Use:   "send <file>",
		Short: "Transcribe an audio file",
		Long: `Upload an audio file to the transcription server and print the text.

Progress is shown on stderr while the server works; the transcript goes to
stdout one sentence per line. Press Ctrl+C once to ask the server to stop
(the partial text it returns is still printed), twice to give up at once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd.Context(), deps, flags, args[0], *opts)
		},
	}
	opts.bind(cmd)

	return cmd
}

// progressReporter is a progress.Reporter whose pending line can be ended
type progressReporter interface {
	progress.Reporter
	Flush()
}

// transcriptOutput is the document written by --format json and yaml
type transcriptOutput struct {
	File      string   `json:"file" yaml:"file"`
	Text      string   `json:"text" yaml:"text"`
	Sentences []string `json:"sentences" yaml:"sentences"`
	Aborted   bool     `json:"aborted" yaml:"aborted"`
}

func runSend(ctx context.Context, deps *Dependencies, flags *rootFlags, path string, opts sendOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := opts.validate(); err != nil {
		return err
	}

	a, err := newApp(deps, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	file, err := audio.Open(path)
	if err != nil {
		return err
	}

	stderr := deps.stderr()
	str := a.cfg.Strings()

	var rep progressReporter = discardReporter{}
	if !opts.raw {
		rep = newLineReporter(stderr, isTerminal(stderr))
	}

	resp, stopped, err := a.transcribe(ctx, deps, file, rep)
	if err != nil {
		if stopped && errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	out := transcriptOutput{
		File:      file.Name,
		Text:      strings.TrimSpace(resp.Text),
		Sentences: resp.Sentences(),
		Aborted:   resp.Aborted,
	}
	if out.Sentences == nil {
		out.Sentences = []string{}
	}

	if opts.format != formatText {
		return writeDocument(deps, out, opts)
	}

	if !resp.HasText() {
		if !opts.raw {
			rep.Post(models.KindBot, str.NoText)
			rep.Flush()
		}
		return nil
	}

	if a.cfg.CopyToClipboard || opts.copy {
		copyTranscript(deps, out.Text, opts.raw)
	}

	if opts.output != "" {
		return writeTranscriptFile(deps, opts.output, transcriptLines(out, str, opts.raw), opts.raw)
	}

	return printTranscript(ctx, deps, a, out, str, opts)
}

// transcribe uploads file while the simulated progress runs. The first
// interrupt raises the stop signal and notifies the server; the upload stays
// open so a late reply, usually partial text, is still returned. The second
// interrupt cancels the upload.
func (a *app) transcribe(ctx context.Context, deps *Dependencies, file *audio.File, rep progressReporter) (resp *models.TranscribeResponse, stopped bool, err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	str := a.cfg.Strings()
	stopSignal := progress.NewStopSignal()

	rep.Post(models.KindUser, str.FileSentText(file.Name))
	rep.Flush()
	a.log.Info("upload of %s started (%d bytes)", file.Name, file.Size)

	runner := progress.NewRunner(deps.timings(), str, func() (time.Duration, error) {
		return audio.ProbeDuration(file.Path)
	}, a.log)
	simDone := make(chan error, 1)
	go func() { simDone <- runner.Run(ctx, rep, stopSignal) }()

	type result struct {
		resp *models.TranscribeResponse
		err  error
	}
	results := make(chan result, 1)
	go func() {
		resp, err := a.client.Transcribe(ctx, file)
		results <- result{resp: resp, err: err}
	}()

	interrupts, unwatch := deps.watchInterrupts()
	defer unwatch()

	var (
		res      result
		stopping sync.WaitGroup
	)

wait:
	for {
		select {
		case res = <-results:
			break wait

		case <-interrupts:
			if stopped {
				a.log.Info("second interrupt, cancelling upload")
				cancel()
				continue
			}
			stopped = true
			stopSignal.Signal()
			rep.Post(models.KindBot, str.Interrupted)
			rep.Flush()

			stopping.Add(1)
			go func() {
				defer stopping.Done()
				a.requestStop()
			}()
		}
	}

	stopSignal.Signal()

	// The error bubble goes out right away; the loader still runs to 100%
	// and its completion text after it.
	switch {
	case res.err == nil:
	case stopped && errors.Is(res.err, context.Canceled):
		a.log.Info("upload of %s cancelled after stop", file.Name)
	default:
		a.log.Error("upload of %s failed: %v", file.Name, res.err)
		rep.Post(models.KindBot, str.SendError)
	}

	if simErr := <-simDone; simErr != nil && !errors.Is(simErr, context.Canceled) {
		a.log.Warn("progress animation ended early: %v", simErr)
	}
	rep.Flush()
	stopping.Wait()

	return res.resp, stopped, res.err
}

// requestStop asks the server to stop. Failures are logged only.
func (a *app) requestStop() {
	ctx, cancel := context.WithTimeout(context.Background(), stopRequestTimeout)
	defer cancel()

	resp, err := a.client.Stop(ctx)
	if err != nil {
		a.log.Warn("stop request failed: %v", err)
		return
	}
	a.log.Info("stop request answered: %q", resp.Status)
}

// transcriptLines returns the lines printed for a transcript
func transcriptLines(out transcriptOutput, str models.Strings, raw bool) []string {
	lines := append([]string(nil), out.Sentences...)
	if out.Aborted && !raw {
		lines = append(lines, str.Aborted)
	}
	return lines
}

func printTranscript(ctx context.Context, deps *Dependencies, a *app, out transcriptOutput, str models.Strings, opts sendOptions) error {
	stdout := deps.stdout()

	if opts.raw {
		fmt.Fprintln(stdout, out.Text)
		return nil
	}

	lines := transcriptLines(out, str, opts.raw)
	tty := isTerminal(stdout)

	if tty {
		fmt.Fprintln(stdout, botLabelStyle.Render("♪ "+str.BotLabel))
	}

	if !opts.noAnimation && tty {
		seq := typewriter.New(lines)
		a.log.Debug("typing %d sentences", seq.Len())
		return typewriter.Play(ctx, seq, a.cfg.TypewriterDelay(), func(step typewriter.Step) {
			writeStep(stdout, step)
		})
	}

	if tty {
		renderOpts := render.OptionsFromConfig(a.cfg).WithWidth(min(terminalWidth(stdout)-4, 120))
		if rendered, err := render.Transcript(lines, renderOpts); err == nil {
			fmt.Fprintln(stdout, strings.TrimRight(rendered, "\n"))
			return nil
		}
	}

	for _, line := range lines {
		fmt.Fprintln(stdout, line)
	}
	return nil
}

// writeStep prints the word revealed by step, ending the line with the sentence
func writeStep(w io.Writer, step typewriter.Step) {
	if step.Word != "" {
		fmt.Fprint(w, step.Word)
		if !step.SentenceDone {
			fmt.Fprint(w, " ")
		}
	}
	if step.SentenceDone {
		fmt.Fprintln(w)
	}
}

func writeTranscriptFile(deps *Dependencies, path string, lines []string, raw bool) error {
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if !raw {
		fmt.Fprintln(deps.stderr(), successStyle.Render(fmt.Sprintf("✓ Transcript saved to %s", path)))
	}
	return nil
}

// writeDocument writes the transcript as JSON or YAML to stdout or --output
func writeDocument(deps *Dependencies, out transcriptOutput, opts sendOptions) error {
	var (
		data []byte
		err  error
	)
	switch opts.format {
	case formatJSON:
		data, err = json.MarshalIndent(out, "", "  ")
		data = append(data, '\n')
	case formatYAML:
		data, err = yaml.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !opts.raw {
			fmt.Fprintln(deps.stderr(), successStyle.Render(fmt.Sprintf("✓ Transcript saved to %s", opts.output)))
		}
		return nil
	}

	_, err = deps.stdout().Write(data)
	return err
}

func copyTranscript(deps *Dependencies, text string, quiet bool) {
	if err := deps.copyToClipboard(text); err != nil {
		if !quiet {
			fmt.Fprintln(deps.stderr(), errorStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		}
		return
	}
	if !quiet {
		fmt.Fprintln(deps.stderr(), successStyle.Render("✓ Copied to clipboard"))
	}
}
