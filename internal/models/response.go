package models

import (
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/transcribechat/internal/errors"
)

// TranscribeResponse is the body returned by the /transcribe endpoint
type TranscribeResponse struct {
	Text    string
	Aborted bool // Set when the server was stopped mid-transcription and returned partial text
}

// HasText reports whether the response carries any non-blank text
func (r *TranscribeResponse) HasText() bool {
	return r != nil && strings.TrimSpace(r.Text) != ""
}

// Sentences splits the response text into display sentences
func (r *TranscribeResponse) Sentences() []string {
	if r == nil {
		return nil
	}
	return SplitSentences(r.Text)
}

// ParseTranscribeResponse parses the JSON body of a /transcribe response.
// A missing or null "text" field yields an empty text; a non-object body is an error.
func ParseTranscribeResponse(body []byte) (*TranscribeResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", string(body))
	}

	result := gjson.ParseBytes(body)
	if !result.IsObject() {
		return nil, apierrors.NewParseError("response is not a JSON object", string(body))
	}

	text := result.Get("text")
	if text.Exists() && text.Type != gjson.String && text.Type != gjson.Null {
		return nil, apierrors.NewParseError("text field is not a string", string(body))
	}

	return &TranscribeResponse{
		Text:    text.String(),
		Aborted: result.Get("aborted").Bool(),
	}, nil
}

// StopResponse is the body returned by the /stop endpoint
type StopResponse struct {
	Status string
}

// Stopping reports whether the server acknowledged an active transcription
func (r *StopResponse) Stopping() bool {
	return r != nil && r.Status == StopStatusStopping
}

// ParseStopResponse parses the JSON body of a /stop response. The body is
// informational, so anything unparseable yields an empty status.
func ParseStopResponse(body []byte) *StopResponse {
	if !gjson.ValidBytes(body) {
		return &StopResponse{}
	}
	return &StopResponse{Status: gjson.GetBytes(body, "status").String()}
}
