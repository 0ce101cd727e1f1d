package api

import (
	"context"
	"sync"

	"github.com/diogo/transcribechat/internal/audio"
	"github.com/diogo/transcribechat/internal/models"
)

// MockClient is a mock implementation of TranscriberInterface for testing
type MockClient struct {
	// Mock return values
	TranscribeVal *models.TranscribeResponse
	TranscribeErr error
	StopVal       *models.StopResponse
	StopErr       error
	URL           string

	// TranscribeFunc, when set, replaces the canned reply. It lets a test
	// block until the request context is cancelled.
	TranscribeFunc func(ctx context.Context, file *audio.File) (*models.TranscribeResponse, error)

	mu              sync.Mutex
	transcribeCalls int
	stopCalls       int
	lastFile        *audio.File
	closeCalled     bool
}

// Ensure MockClient implements TranscriberInterface
var _ TranscriberInterface = (*MockClient)(nil)

func (m *MockClient) Transcribe(ctx context.Context, file *audio.File) (*models.TranscribeResponse, error) {
	m.mu.Lock()
	m.transcribeCalls++
	m.lastFile = file
	fn := m.TranscribeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, file)
	}
	return m.TranscribeVal, m.TranscribeErr
}

func (m *MockClient) Stop(ctx context.Context) (*models.StopResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	if m.StopVal == nil && m.StopErr == nil {
		return &models.StopResponse{Status: models.StopStatusStopping}, nil
	}
	return m.StopVal, m.StopErr
}

func (m *MockClient) BaseURL() string {
	if m.URL == "" {
		return models.DefaultServerURL
	}
	return m.URL
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled = true
}

// TranscribeCalls returns how many times Transcribe was called
func (m *MockClient) TranscribeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transcribeCalls
}

// StopCalls returns how many times Stop was called
func (m *MockClient) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

// LastFile returns the file passed to the last Transcribe call
func (m *MockClient) LastFile() *audio.File {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFile
}

// CloseCalled reports whether Close was called
func (m *MockClient) CloseCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalled
}
