// Package typewriter reveals transcribed sentences one word at a time.
//
// A Sequence only computes what the next reveal looks like. Scheduling is
// left to the caller: the chat TUI advances it from tea.Tick messages and
// the send command from a time.Ticker (see Play).
package typewriter

import (
	"context"
	"strings"
	"time"
)

// Step is a single reveal
type Step struct {
	// Sentence is the index of the sentence being revealed
	Sentence int
	// Word is the token revealed by this step, empty for a sentence without words
	Word string
	// Text is everything revealed so far in the sentence's bubble, each word
	// followed by a space
	Text string
	// NewBubble is set on the first step of a sentence
	NewBubble bool
	// SentenceDone is set on the last step of a sentence
	SentenceDone bool
}

// Sequence walks the words of a list of sentences. Each sentence is meant
// to be shown in its own bubble.
type Sequence struct {
	sentences []string
	words     [][]string
	sentence  int
	word      int
	buf       strings.Builder
}

// New creates a sequence over sentences. An empty list is finished from the start.
func New(sentences []string) *Sequence {
	words := make([][]string, len(sentences))
	for i, s := range sentences {
		words[i] = strings.Fields(s)
	}
	return &Sequence{sentences: sentences, words: words}
}

// Next returns the next reveal, or false once every sentence was shown.
func (s *Sequence) Next() (Step, bool) {
	if s.Done() {
		return Step{}, false
	}

	words := s.words[s.sentence]
	step := Step{Sentence: s.sentence, NewBubble: s.word == 0}

	if len(words) == 0 {
		step.SentenceDone = true
		s.advanceSentence()
		return step, true
	}

	step.Word = words[s.word]
	s.buf.WriteString(step.Word)
	s.buf.WriteByte(' ')
	s.word++
	step.Text = s.buf.String()

	if s.word == len(words) {
		step.SentenceDone = true
		s.advanceSentence()
	}
	return step, true
}

// Done reports whether every sentence was revealed
func (s *Sequence) Done() bool {
	return s.sentence >= len(s.sentences)
}

// Len returns the number of sentences
func (s *Sequence) Len() int {
	return len(s.sentences)
}

func (s *Sequence) advanceSentence() {
	s.sentence++
	s.word = 0
	s.buf.Reset()
}

// Play drives seq with a ticker, calling fn for every step. The first step is
// emitted right away and each following one after delay. Play returns when the
// sequence is exhausted or ctx is cancelled.
func Play(ctx context.Context, seq *Sequence, delay time.Duration, fn func(Step)) error {
	step, ok := seq.Next()
	if !ok {
		return nil
	}
	fn(step)

	if delay <= 0 {
		for step, ok = seq.Next(); ok; step, ok = seq.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(step)
		}
		return nil
	}

	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			step, ok = seq.Next()
			if !ok {
				return nil
			}
			fn(step)
		}
	}
}
