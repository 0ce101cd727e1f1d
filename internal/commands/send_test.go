package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/diogo/transcribechat/internal/api"
	"github.com/diogo/transcribechat/internal/audio"
	"github.com/diogo/transcribechat/internal/config"
	apierrors "github.com/diogo/transcribechat/internal/errors"
	"github.com/diogo/transcribechat/internal/models"
	"github.com/diogo/transcribechat/internal/typewriter"
)

func TestSend_PrintsSentences(t *testing.T) {
	client := &api.MockClient{TranscribeVal: &models.TranscribeResponse{Text: "Hello world. Testing."}}
	env := newTestEnv(t, client)

	if err := env.run("send", writeClip(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.stdout.String() != "Hello world.\nTesting.\n" {
		t.Errorf("stdout = %q", env.stdout.String())
	}

	stderr := env.stderr.String()
	for _, want := range []string{
		"Arquivo enviado: clip.mp3",
		"Enviando áudio... OK",
		"Analisando áudio... OK",
		"Transcrição concluída!",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
	if strings.Index(stderr, "Enviando") > strings.Index(stderr, "Analisando") {
		t.Error("status lines out of order")
	}
	if client.TranscribeCalls() != 1 {
		t.Errorf("TranscribeCalls() = %d", client.TranscribeCalls())
	}
	if len(env.clipboard) != 0 {
		t.Error("clipboard should be untouched by default")
	}
}

func TestSend_EnglishLocale(t *testing.T) {
	client := &api.MockClient{TranscribeVal: &models.TranscribeResponse{Text: "Hi."}}
	env := newTestEnv(t, client)

	if err := env.run("--locale", "en", "send", writeClip(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(env.stderr.String(), "File sent: clip.mp3") {
		t.Errorf("stderr = %q", env.stderr.String())
	}
}

func TestSend_Raw(t *testing.T) {
	client := &api.MockClient{TranscribeVal: &models.TranscribeResponse{Text: "Hello world. Testing.", Aborted: true}}
	env := newTestEnv(t, client)

	if err := env.run("send", "--raw", writeClip(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.stdout.String() != "Hello world. Testing.\n" {
		t.Errorf("stdout = %q", env.stdout.String())
	}
	if strings.Contains(env.stderr.String(), "clip.mp3") {
		t.Errorf("raw mode should print no progress, got %q", env.stderr.String())
	}
}

func TestSend_AbortedNote(t *testing.T) {
	client := &api.MockClient{TranscribeVal: &models.TranscribeResponse{Text: "Parcial.", Aborted: true}}
	env := newTestEnv(t, client)

	if err := env.run("send", writeClip(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.stdout.String() != "Parcial.\n(transcrição parcial)\n" {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestSend_NoText(t *testing.T) {
	client := &api.MockClient{TranscribeVal: &models.TranscribeResponse{Text: ""}}
	env := newTestEnv(t, client)

	if err := env.run("send", writeClip(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q", env.stdout.String())
	}
	if !strings.Contains(env.stderr.String(), "Nenhum texto recebido do servidor.") {
		t.Errorf("stderr = %q", env.stderr.String())
	}
}

func TestSend_Error(t *testing.T) {
	client := &api.MockClient{TranscribeErr: apierrors.NewBusyError("/transcribe", "")}
	env := newTestEnv(t, client)

	err := env.run("send", writeClip(t))
	if !apierrors.IsBusyError(err) {
		t.Fatalf("err = %v, want busy error", err)
	}
	if strings.Count(env.stderr.String(), "Erro ao enviar áudio.") != 1 {
		t.Errorf("want one error line, stderr = %q", env.stderr.String())
	}
	// Same order as the chat widget: the error first, then the loader finishes
	stderr := env.stderr.String()
	errAt, doneAt := strings.Index(stderr, "Erro ao enviar áudio."), strings.LastIndex(stderr, "Transcrição concluída!")
	if doneAt < errAt {
		t.Errorf("error line should come before the completed loader:\n%s", stderr)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestSend_Formats(t *testing.T) {
	resp := &models.TranscribeResponse{Text: "Hello world. Testing."}

	t.Run("json", func(t *testing.T) {
		env := newTestEnv(t, &api.MockClient{TranscribeVal: resp})
		if err := env.run("send", "--format", "json", writeClip(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var out transcriptOutput
		if err := json.Unmarshal(env.stdout.Bytes(), &out); err != nil {
			t.Fatalf("invalid json %q: %v", env.stdout.String(), err)
		}
		if out.File != "clip.mp3" || len(out.Sentences) != 2 || out.Text != resp.Text {
			t.Errorf("out = %+v", out)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		env := newTestEnv(t, &api.MockClient{TranscribeVal: resp})
		if err := env.run("send", "--format", "yaml", writeClip(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var out transcriptOutput
		if err := yaml.Unmarshal(env.stdout.Bytes(), &out); err != nil {
			t.Fatalf("invalid yaml %q: %v", env.stdout.String(), err)
		}
		if out.Sentences[1] != "Testing." {
			t.Errorf("out = %+v", out)
		}
	})

	t.Run("empty text is an empty list", func(t *testing.T) {
		env := newTestEnv(t, &api.MockClient{TranscribeVal: &models.TranscribeResponse{}})
		if err := env.run("send", "--format", "json", writeClip(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(env.stdout.String(), `"sentences": []`) {
			t.Errorf("stdout = %q", env.stdout.String())
		}
	})

	t.Run("unknown", func(t *testing.T) {
		env := newTestEnv(t, &api.MockClient{TranscribeVal: resp})
		if err := env.run("send", "--format", "xml", writeClip(t)); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestSend_OutputFile(t *testing.T) {
	client := &api.MockClient{TranscribeVal: &models.TranscribeResponse{Text: "Hello world. Testing."}}
	env := newTestEnv(t, client)
	out := filepath.Join(t.TempDir(), "out.txt")

	if err := env.run("send", "-o", out, writeClip(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "Hello world.\nTesting.\n" {
		t.Errorf("file = %q", data)
	}
	if env.stdout.Len() != 0 {
		t.Error("nothing should go to stdout with --output")
	}
	if !strings.Contains(env.stderr.String(), "Transcript saved to") {
		t.Errorf("stderr = %q", env.stderr.String())
	}
}

func TestSend_Clipboard(t *testing.T) {
	client := &api.MockClient{TranscribeVal: &models.TranscribeResponse{Text: "Oi. Tchau."}}

	env := newTestEnv(t, client)
	if err := env.run("send", "--copy", writeClip(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.clipboard) != 1 || env.clipboard[0] != "Oi. Tchau." {
		t.Errorf("clipboard = %q", env.clipboard)
	}

	env = newTestEnv(t, client)
	saveConfig(t, func(c *config.Config) { c.CopyToClipboard = true })
	if err := env.run("send", writeClip(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.clipboard) != 1 {
		t.Error("copy_to_clipboard should copy without the flag")
	}
}

func TestSend_MissingFile(t *testing.T) {
	client := &api.MockClient{}
	env := newTestEnv(t, client)

	if err := env.run("send", filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Error("expected error for missing file")
	}
	if client.TranscribeCalls() != 0 {
		t.Error("nothing should be uploaded")
	}
}

func TestSend_InterruptKeepsUploadOpen(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	cancelled := make(chan bool, 1)
	client := &api.MockClient{
		TranscribeFunc: func(ctx context.Context, _ *audio.File) (*models.TranscribeResponse, error) {
			close(started)
			select {
			case <-release:
				cancelled <- ctx.Err() != nil
				return &models.TranscribeResponse{Text: "Partial text.", Aborted: true}, nil
			case <-ctx.Done():
				cancelled <- true
				return nil, ctx.Err()
			}
		},
	}
	env := newTestEnv(t, client)

	interrupts := make(chan os.Signal)
	env.deps.Interrupts = interrupts
	go func() {
		<-started
		interrupts <- os.Interrupt
		// The server answers well after the stop
		time.Sleep(200 * time.Millisecond)
		close(release)
	}()

	clip := writeClip(t)
	done := make(chan error, 1)
	go func() { done <- env.run("send", clip) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("send did not return after the late reply")
	}

	if <-cancelled {
		t.Error("stop should not cancel the upload")
	}
	if client.StopCalls() != 1 {
		t.Errorf("StopCalls() = %d", client.StopCalls())
	}
	if env.stdout.String() != "Partial text.\n(transcrição parcial)\n" {
		t.Errorf("stdout = %q", env.stdout.String())
	}
	stderr := env.stderr.String()
	if !strings.Contains(stderr, "Processamento interrompido pelo usuário.") {
		t.Errorf("stderr = %q", stderr)
	}
	if strings.Contains(stderr, "Erro ao enviar áudio.") {
		t.Error("no error line expected after stop")
	}
}

func TestSend_SecondInterruptCancels(t *testing.T) {
	started := make(chan struct{})
	client := &api.MockClient{
		TranscribeFunc: func(ctx context.Context, _ *audio.File) (*models.TranscribeResponse, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	env := newTestEnv(t, client)

	interrupts := make(chan os.Signal)
	env.deps.Interrupts = interrupts
	go func() {
		<-started
		interrupts <- os.Interrupt
		interrupts <- os.Interrupt
	}()

	clip := writeClip(t)
	done := make(chan error, 1)
	go func() { done <- env.run("send", clip) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("cancellation after stop should not fail, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("second interrupt did not cancel the upload")
	}

	if client.StopCalls() != 1 {
		t.Errorf("StopCalls() = %d", client.StopCalls())
	}
	if strings.Count(env.stderr.String(), "Processamento interrompido pelo usuário.") != 1 {
		t.Errorf("stderr = %q", env.stderr.String())
	}
	if strings.Contains(env.stderr.String(), "Erro ao enviar áudio.") {
		t.Error("no error line expected after stop")
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestSend_PartialTextAfterStop(t *testing.T) {
	release := make(chan struct{})
	client := &api.MockClient{
		TranscribeFunc: func(ctx context.Context, _ *audio.File) (*models.TranscribeResponse, error) {
			select {
			case <-release:
				return &models.TranscribeResponse{Text: "Parcial.", Aborted: true}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
	env := newTestEnv(t, client)

	interrupts := make(chan os.Signal)
	env.deps.Interrupts = interrupts
	go func() {
		interrupts <- os.Interrupt
		close(release)
	}()

	if err := env.run("send", writeClip(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.stdout.String() != "Parcial.\n(transcrição parcial)\n" {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestWriteStep(t *testing.T) {
	var sb strings.Builder
	seq := typewriter.New([]string{"Hello world.", "Testing."})
	if err := typewriter.Play(context.Background(), seq, 0, func(step typewriter.Step) {
		writeStep(&sb, step)
	}); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if sb.String() != "Hello world.\nTesting.\n" {
		t.Errorf("output = %q", sb.String())
	}
}
