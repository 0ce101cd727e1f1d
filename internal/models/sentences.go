package models

import "strings"

// sentenceSeparator is the boundary the server text is split on
const sentenceSeparator = ". "

// SplitSentences breaks transcribed text into display sentences.
//
// The text is split on ". " and every fragment gets its period back, except
// the final one when the source did not end with a period. Blank fragments
// are dropped. Abbreviations and decimals followed by a space are split too;
// this is a display heuristic, not a sentence tokenizer.
func SplitSentences(text string) []string {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, sentenceSeparator)
	endsWithPeriod := strings.HasSuffix(raw, ".")

	sentences := make([]string, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i < len(parts)-1 || endsWithPeriod {
			if !strings.HasSuffix(part, ".") {
				part += "."
			}
		}
		if part == "" || part == "." {
			continue
		}
		sentences = append(sentences, part)
	}
	return sentences
}
