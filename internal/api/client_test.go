package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/diogo/transcribechat/internal/audio"
	apierrors "github.com/diogo/transcribechat/internal/errors"
	"github.com/diogo/transcribechat/internal/models"
)

func newTestClient(t *testing.T, mock *MockHttpClient, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(mock), WithBaseURL("http://stt.local:8000/")}, opts...)
	client, err := NewClient(opts...)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client
}

func writeAudio(t *testing.T, name string, data []byte) *audio.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	file, err := audio.Open(path)
	if err != nil {
		t.Fatalf("audio.Open() error: %v", err)
	}
	return file
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		opts        []ClientOption
		wantErr     bool
		wantBaseURL string
		wantTimeout time.Duration
	}{
		{
			name:        "defaults",
			wantBaseURL: models.DefaultServerURL,
			wantTimeout: models.DefaultRequestTimeout,
		},
		{
			name:        "custom base URL is trimmed",
			opts:        []ClientOption{WithBaseURL(" http://10.0.0.5:9000/ ")},
			wantBaseURL: "http://10.0.0.5:9000",
			wantTimeout: models.DefaultRequestTimeout,
		},
		{
			name:        "custom timeout",
			opts:        []ClientOption{WithTimeout(30 * time.Second)},
			wantBaseURL: models.DefaultServerURL,
			wantTimeout: 30 * time.Second,
		},
		{
			name:    "empty base URL",
			opts:    []ClientOption{WithBaseURL("  ")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]ClientOption{WithHTTPClient(&MockHttpClient{})}, tt.opts...)
			client, err := NewClient(opts...)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() error: %v", err)
			}
			if client.BaseURL() != tt.wantBaseURL {
				t.Errorf("BaseURL() = %s, want %s", client.BaseURL(), tt.wantBaseURL)
			}
			if client.Timeout() != tt.wantTimeout {
				t.Errorf("Timeout() = %v, want %v", client.Timeout(), tt.wantTimeout)
			}
		})
	}
}

func TestClient_URLs(t *testing.T) {
	client := newTestClient(t, &MockHttpClient{})

	if got := client.TranscribeURL(); got != "http://stt.local:8000/transcribe" {
		t.Errorf("TranscribeURL() = %s", got)
	}
	if got := client.StopURL(); got != "http://stt.local:8000/stop" {
		t.Errorf("StopURL() = %s", got)
	}
}

func TestClient_Close(t *testing.T) {
	mock := &MockHttpClient{}
	client := newTestClient(t, mock)

	client.Close()
	client.Close()

	if !client.IsClosed() || !mock.IdleClosed {
		t.Error("Close should mark the client closed and drop idle connections")
	}

	if _, err := client.Transcribe(context.Background(), &audio.File{}); err == nil {
		t.Error("Transcribe on closed client should fail")
	}
	if _, err := client.Stop(context.Background()); err == nil {
		t.Error("Stop on closed client should fail")
	}
}

func TestTranscribe_Success(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"text": "Hello world. Testing."}`), 200)
	client := newTestClient(t, mock)
	file := writeAudio(t, "clip.mp3", []byte("ID3fake-mp3-data"))

	resp, err := client.Transcribe(context.Background(), file)
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if resp.Text != "Hello world. Testing." || resp.Aborted {
		t.Errorf("resp = %+v", resp)
	}

	req := mock.LastRequest
	if req.Method != fhttp.MethodPost {
		t.Errorf("method = %s", req.Method)
	}
	if req.URL.String() != "http://stt.local:8000/transcribe" {
		t.Errorf("url = %s", req.URL)
	}
	if req.Header.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", req.Header.Get("Accept"))
	}
	if req.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("Content-Type = %q (%v)", req.Header.Get("Content-Type"), err)
	}

	reader := multipart.NewReader(strings.NewReader(string(mock.LastBody)), params["boundary"])
	part, err := reader.NextPart()
	if err != nil {
		t.Fatalf("NextPart() error: %v", err)
	}
	if part.FormName() != "audio" {
		t.Errorf("form field = %q, want audio", part.FormName())
	}
	if part.FileName() != "clip.mp3" {
		t.Errorf("file name = %q", part.FileName())
	}
	if part.Header.Get("Content-Type") != "audio/mpeg" {
		t.Errorf("part Content-Type = %q", part.Header.Get("Content-Type"))
	}
	data, _ := io.ReadAll(part)
	if string(data) != "ID3fake-mp3-data" {
		t.Errorf("uploaded data = %q", data)
	}
	if _, err := reader.NextPart(); err != io.EOF {
		t.Error("expected a single form part")
	}
}

func TestTranscribe_AbortedPartial(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"text": "Parcial.", "aborted": true}`), 200)
	client := newTestClient(t, mock)

	resp, err := client.Transcribe(context.Background(), writeAudio(t, "a.wav", []byte("RIFF")))
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if !resp.Aborted || resp.Text != "Parcial." {
		t.Errorf("resp = %+v", resp)
	}
}

func TestTranscribe_Errors(t *testing.T) {
	tests := []struct {
		name  string
		mock  *MockHttpClient
		check func(t *testing.T, err error)
	}{
		{
			name: "server error",
			mock: NewMockHttpClient([]byte("internal error"), 500),
			check: func(t *testing.T, err error) {
				if apierrors.GetHTTPStatus(err) != 500 {
					t.Errorf("status = %d", apierrors.GetHTTPStatus(err))
				}
				if apierrors.GetResponseBody(err) != "internal error" {
					t.Errorf("body = %q", apierrors.GetResponseBody(err))
				}
				if apierrors.GetEndpoint(err) != models.EndpointTranscribe {
					t.Errorf("endpoint = %q", apierrors.GetEndpoint(err))
				}
			},
		},
		{
			name: "redirect is not success",
			mock: NewMockHttpClient(nil, 302),
			check: func(t *testing.T, err error) {
				if apierrors.GetHTTPStatus(err) != 302 {
					t.Errorf("status = %d", apierrors.GetHTTPStatus(err))
				}
			},
		},
		{
			name: "busy",
			mock: NewMockHttpClient([]byte(`{"error":"busy"}`), 429),
			check: func(t *testing.T, err error) {
				if !apierrors.IsBusyError(err) {
					t.Errorf("expected busy error, got %v", err)
				}
			},
		},
		{
			name: "invalid json",
			mock: NewMockHttpClient([]byte(`<html>oops</html>`), 200),
			check: func(t *testing.T, err error) {
				if !apierrors.IsParseError(err) {
					t.Errorf("expected parse error, got %v", err)
				}
			},
		},
		{
			name: "connection refused",
			mock: NewMockHttpClientWithError(errors.New("dial tcp: connection refused")),
			check: func(t *testing.T, err error) {
				if !apierrors.IsNetworkError(err) {
					t.Errorf("expected network error, got %v", err)
				}
			},
		},
		{
			name: "transport timeout",
			mock: NewMockHttpClientWithError(timeoutError{}),
			check: func(t *testing.T, err error) {
				if !apierrors.IsTimeoutError(err) {
					t.Errorf("expected timeout error, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.mock)
			_, err := client.Transcribe(context.Background(), writeAudio(t, "a.mp3", []byte("x")))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			tt.check(t, err)
		})
	}
}

func TestTranscribe_NoFile(t *testing.T) {
	client := newTestClient(t, &MockHttpClient{})
	if _, err := client.Transcribe(context.Background(), nil); !errors.Is(err, apierrors.ErrNoFile) {
		t.Errorf("Transcribe(nil) = %v, want ErrNoFile", err)
	}
}

func TestTranscribe_MissingFile(t *testing.T) {
	mock := &MockHttpClient{}
	client := newTestClient(t, mock)

	_, err := client.Transcribe(context.Background(), &audio.File{Path: "/nonexistent/a.mp3", Name: "a.mp3"})
	if !apierrors.IsUploadError(err) {
		t.Errorf("expected upload error, got %v", err)
	}
	if mock.Calls != 0 {
		t.Error("no request should be sent when the file cannot be read")
	}
}

func TestTranscribe_Cancelled(t *testing.T) {
	mock := &MockHttpClient{Block: true}
	client := newTestClient(t, mock)
	file := writeAudio(t, "a.mp3", []byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := client.Transcribe(ctx, file)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Transcribe() = %v, want context.Canceled", err)
	}
	if apierrors.IsNetworkError(err) {
		t.Error("a cancelled request should not be reported as a network error")
	}
}

func TestTranscribe_Timeout(t *testing.T) {
	mock := &MockHttpClient{Block: true}
	client := newTestClient(t, mock, WithTimeout(10*time.Millisecond))

	_, err := client.Transcribe(context.Background(), writeAudio(t, "a.mp3", []byte("x")))
	if !apierrors.IsTimeoutError(err) {
		t.Errorf("Transcribe() = %v, want timeout error", err)
	}
}

func TestStop(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		status     int
		wantStatus string
		wantErr    bool
	}{
		{name: "stopping", body: `{"status": "stopping"}`, status: 200, wantStatus: models.StopStatusStopping},
		{name: "idle server", body: `{"status": "no_active_task"}`, status: 200, wantStatus: models.StopStatusNoActiveTask},
		{name: "empty body", body: ``, status: 204, wantStatus: ""},
		{name: "server error", body: `boom`, status: 500, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockHttpClient([]byte(tt.body), tt.status)
			client := newTestClient(t, mock)

			resp, err := client.Stop(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Stop() error: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if mock.LastRequest.URL.Path != "/stop" || mock.LastRequest.Method != fhttp.MethodPost {
				t.Errorf("request = %s %s", mock.LastRequest.Method, mock.LastRequest.URL)
			}
			if len(mock.LastBody) != 0 {
				t.Errorf("stop request should carry no body, got %q", mock.LastBody)
			}
		})
	}
}

func TestEncodeUpload_DefaultMIMEType(t *testing.T) {
	upload, err := encodeUpload(strings.NewReader("data"), "blob", "")
	if err != nil {
		t.Fatalf("encodeUpload() error: %v", err)
	}
	if !strings.Contains(upload.body.String(), "Content-Type: application/octet-stream") {
		t.Error("expected octet-stream fallback")
	}
	if !strings.Contains(upload.body.String(), `name="audio"; filename="blob"`) {
		t.Errorf("unexpected part header: %s", upload.body.String())
	}
}
