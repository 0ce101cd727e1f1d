package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/tcolgate/mp3"
)

// ErrUnsupportedFormat is returned when no prober exists for the container
var ErrUnsupportedFormat = errors.New("unsupported audio format for duration probe")

// ffprobeTimeout bounds a single ffprobe run
const ffprobeTimeout = 5 * time.Second

// lookFFprobe locates the ffprobe binary used for containers without a
// native prober
var lookFFprobe = func() (string, error) { return exec.LookPath("ffprobe") }

// ProbeDuration reads the duration of the audio file at path.
// WAV and FLAC are read from their headers and MP3 by scanning frame headers.
// Other containers go through ffprobe when it is installed; without it they
// yield ErrUnsupportedFormat.
func ProbeDuration(path string) (time.Duration, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		f, err := os.Open(path)
		if err != nil {
			return 0, fmt.Errorf("failed to open audio file: %w", err)
		}
		defer f.Close()
		return probeWAV(f)

	case ".flac":
		stream, err := flac.Open(path)
		if err != nil {
			return 0, fmt.Errorf("failed to read FLAC stream info: %w", err)
		}
		defer stream.Close()
		return flacDuration(stream.Info.NSamples, stream.Info.SampleRate)

	case ".mp3":
		f, err := os.Open(path)
		if err != nil {
			return 0, fmt.Errorf("failed to open audio file: %w", err)
		}
		defer f.Close()
		return probeMP3(f)

	default:
		return probeFFprobe(path)
	}
}

// ProbeReader is ProbeDuration for in-memory data; name only selects the format.
func ProbeReader(name string, r io.ReadSeeker) (time.Duration, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".wave":
		return probeWAV(r)

	case ".flac":
		stream, err := flac.New(r)
		if err != nil {
			return 0, fmt.Errorf("failed to read FLAC stream info: %w", err)
		}
		return flacDuration(stream.Info.NSamples, stream.Info.SampleRate)

	case ".mp3":
		return probeMP3(r)

	default:
		return 0, ErrUnsupportedFormat
	}
}

func probeWAV(r io.ReadSeeker) (time.Duration, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("invalid WAV file")
	}
	d, err := dec.Duration()
	if err != nil {
		return 0, fmt.Errorf("failed to read WAV duration: %w", err)
	}
	return d, nil
}

func flacDuration(samples uint64, sampleRate uint32) (time.Duration, error) {
	if sampleRate == 0 {
		return 0, fmt.Errorf("FLAC stream has zero sample rate")
	}
	// NSamples is 0 when the encoder did not know the length up front
	if samples == 0 {
		return 0, fmt.Errorf("FLAC stream does not declare its length")
	}
	seconds := float64(samples) / float64(sampleRate)
	return time.Duration(seconds * float64(time.Second)), nil
}

// probeMP3 sums the duration of every MPEG frame. Frame headers carry the
// sample rate and samples per frame, so VBR files come out right too.
func probeMP3(r io.Reader) (time.Duration, error) {
	dec := mp3.NewDecoder(r)

	var (
		frame   mp3.Frame
		skipped int
		total   time.Duration
		frames  int
	)
	for {
		err := dec.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, fmt.Errorf("failed to read MP3 frame: %w", err)
		}
		total += frame.Duration()
		frames++
	}

	if frames == 0 {
		return 0, fmt.Errorf("no MPEG audio frames found")
	}
	return total, nil
}

func probeFFprobe(path string) (time.Duration, error) {
	bin, err := lookFFprobe()
	if err != nil {
		return 0, ErrUnsupportedFormat
	}

	ctx, cancel := context.WithTimeout(context.Background(), ffprobeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseFFprobeDuration(string(out))
}

func parseFFprobeDuration(out string) (time.Duration, error) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q: %w", strings.TrimSpace(out), err)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("ffprobe reported no duration")
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
