package render

import (
	"strconv"
	"strings"
)

// markdownPunct are the characters that can start markdown syntax inside a line
const markdownPunct = "\\`*_{}[]<>()#+-=!|~&"

// EscapeMarkdown makes glamour print text literally. Markdown punctuation is
// written as numeric character references, which the parser keeps as plain
// text and glamour decodes back when it prints. Ordered list markers
// ("1. ", "2) ") at the start of a line are escaped too.
func EscapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = escapeLine(line)
	}
	return strings.Join(lines, "\n")
}

func escapeLine(line string) string {
	var sb strings.Builder
	sb.Grow(len(line) + 16)

	lead := len(line) - len(strings.TrimLeft(line, " \t"))
	sb.WriteString(line[:lead])
	rest := line[lead:]

	// "12. " or "3) " would become a numbered list
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(rest) && (rest[digits] == '.' || rest[digits] == ')') {
		sb.WriteString(rest[:digits])
		writeCharRef(&sb, rune(rest[digits]))
		rest = rest[digits+1:]
	}

	for _, r := range rest {
		if r < 128 && strings.ContainsRune(markdownPunct, r) {
			writeCharRef(&sb, r)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func writeCharRef(sb *strings.Builder, r rune) {
	sb.WriteString("&#")
	sb.WriteString(strconv.Itoa(int(r)))
	sb.WriteByte(';')
}
