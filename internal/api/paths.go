// Package api provides the client for the transcription server.
package api

import "github.com/diogo/transcribechat/internal/models"

// maxErrorBody caps how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

func (c *Client) endpointURL(endpoint string) string {
	return c.baseURL + endpoint
}

// TranscribeURL returns the full URL of the transcription endpoint
func (c *Client) TranscribeURL() string {
	return c.endpointURL(models.EndpointTranscribe)
}

// StopURL returns the full URL of the stop endpoint
func (c *Client) StopURL() string {
	return c.endpointURL(models.EndpointStop)
}
