package models

import (
	"fmt"
	"strings"
)

// Supported locales
const (
	LocalePortuguese = "pt"
	LocaleEnglish    = "en"
	DefaultLocale    = LocalePortuguese
)

// Strings holds every piece of text the widget shows in chat bubbles
type Strings struct {
	FileSent    string // format string, receives the file name
	Sending     string
	Analyzing   string
	OKSuffix    string
	Completed   string
	NoText      string
	SendError   string
	Interrupted string
	Aborted     string // note appended when the server returned partial text
	Placeholder string
	UserLabel   string
	BotLabel    string
}

var catalog = map[string]Strings{
	LocalePortuguese: {
		FileSent:    "Arquivo enviado: %s",
		Sending:     "Enviando áudio...",
		Analyzing:   "Analisando áudio...",
		OKSuffix:    " OK",
		Completed:   "Transcrição concluída!",
		NoText:      "Nenhum texto recebido do servidor.",
		SendError:   "Erro ao enviar áudio.",
		Interrupted: "Processamento interrompido pelo usuário.",
		Aborted:     "(transcrição parcial)",
		Placeholder: "Message...",
		UserLabel:   "Você",
		BotLabel:    "Transcritor",
	},
	LocaleEnglish: {
		FileSent:    "File sent: %s",
		Sending:     "Sending...",
		Analyzing:   "Analyzing...",
		OKSuffix:    " OK",
		Completed:   "Transcription completed!",
		NoText:      "No text received.",
		SendError:   "Error sending audio.",
		Interrupted: "Processing interrupted by user.",
		Aborted:     "(partial transcription)",
		Placeholder: "Message...",
		UserLabel:   "You",
		BotLabel:    "Transcriber",
	},
}

// StringsFor returns the catalog for locale, falling back to the default locale.
// Region suffixes such as "pt-BR" or "en_US" are ignored.
func StringsFor(locale string) Strings {
	if s, ok := catalog[normalizeLocale(locale)]; ok {
		return s
	}
	return catalog[DefaultLocale]
}

// IsSupportedLocale reports whether a catalog exists for locale
func IsSupportedLocale(locale string) bool {
	_, ok := catalog[normalizeLocale(locale)]
	return ok
}

// AvailableLocales lists the supported locale codes
func AvailableLocales() []string {
	return []string{LocalePortuguese, LocaleEnglish}
}

// FileSentText renders the user bubble announcing the uploaded file
func (s Strings) FileSentText(name string) string {
	return fmt.Sprintf(s.FileSent, name)
}

// WithOK marks a status bubble text as finished
func (s Strings) WithOK(text string) string {
	return text + s.OKSuffix
}

func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	return locale
}
