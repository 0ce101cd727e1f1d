// Package models contains data types and constants for the transcription chat.
package models

import "time"

// Endpoints of the transcription server, relative to the configured base URL
const (
	DefaultServerURL   = "http://localhost:8000"
	EndpointTranscribe = "/transcribe"
	EndpointStop       = "/stop"

	// FormFieldAudio is the multipart field carrying the audio file
	FormFieldAudio = "audio"
)

// Timings of the cosmetic animations
const (
	// TypewriterDelay is the interval between two revealed words
	TypewriterDelay = 25 * time.Millisecond

	// StatusStepDelay is how long each "Sending..." / "Analyzing..." bubble waits before "OK"
	StatusStepDelay = 1 * time.Second

	// MinProgressDuration is the floor of the fabricated progress animation
	MinProgressDuration = 2000 * time.Millisecond

	// ProgressPerAudioSecond scales the probed audio duration into animation time
	ProgressPerAudioSecond = 4000 * time.Millisecond

	// ProgressSteps is the number of ticks the animation is divided into
	ProgressSteps = 100

	// ProgressCap is the highest percentage shown before the stop signal
	ProgressCap = 99

	// CompletionDelay is how long "100%" stays before the completion message
	CompletionDelay = 800 * time.Millisecond

	// DefaultRequestTimeout bounds a single transcription request
	DefaultRequestTimeout = 10 * time.Minute
)

// Stop statuses returned by the server
const (
	StopStatusStopping     = "stopping"
	StopStatusNoActiveTask = "no_active_task"
)
