// Package audio describes the audio files a user can upload and probes
// their duration from container metadata.
package audio

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MaxFileSize is the largest file the client will upload
	MaxFileSize = 500 * 1024 * 1024 // 500MB
)

// extensionTypes maps known audio extensions to their MIME types. mime.TypeByExtension
// is consulted first; this table covers systems whose mime database lacks audio entries.
var extensionTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/opus",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".webm": "audio/webm",
	".wma":  "audio/x-ms-wma",
}

// File is an audio file selected for upload
type File struct {
	Path     string
	Name     string
	Size     int64
	MIMEType string
}

// Open validates path and describes the file. Any file type is accepted;
// the server decides whether it can decode it.
func Open(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty file path")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("file size exceeds maximum %d bytes", MaxFileSize)
	}

	return &File{
		Path:     path,
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: DetectMIMEType(path),
	}, nil
}

// Ext returns the lower-cased extension of the file, including the dot
func (f *File) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// IsAudio reports whether the file looks like audio by its MIME type
func (f *File) IsAudio() bool {
	return strings.HasPrefix(f.MIMEType, "audio/")
}

// DetectMIMEType guesses the MIME type from the file extension
func DetectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// SupportedExtensions returns the extensions offered by the file picker
func SupportedExtensions() []string {
	return []string{".mp3", ".wav", ".flac", ".ogg", ".oga", ".opus", ".m4a", ".aac", ".webm", ".wma"}
}
