package render

import "strings"

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	r, err := renderers.get(opts)
	if err != nil {
		return "", err
	}
	return r.render(content)
}

// Bubble renders one transcript sentence for a chat bubble. The text is
// escaped first, so it is shown exactly as the server sent it. Glamour pads
// documents with blank lines and a left margin; both are trimmed so the
// result fits inside a bubble border. On error the plain text is returned.
func Bubble(text string, opts Options) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	out, err := Markdown(EscapeMarkdown(text), opts)
	if err != nil {
		return text
	}

	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.TrimPrefix(line, "  "), " ")
	}
	return strings.Join(lines, "\n")
}

// Transcript renders a whole transcript, one escaped sentence per paragraph.
func Transcript(sentences []string, opts Options) (string, error) {
	escaped := make([]string, len(sentences))
	for i, s := range sentences {
		escaped[i] = EscapeMarkdown(s)
	}
	return Markdown(strings.Join(escaped, "\n\n"), opts)
}
