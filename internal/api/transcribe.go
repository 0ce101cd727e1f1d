package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"

	"github.com/diogo/transcribechat/internal/audio"
	apierrors "github.com/diogo/transcribechat/internal/errors"
	"github.com/diogo/transcribechat/internal/models"
)

// Transcribe uploads file to the transcription endpoint and returns the parsed reply.
//
// Cancelling ctx aborts the request; the returned error then wraps ctx.Err().
// A 429 reply means the server is busy with another file and yields a BusyError.
func (c *Client) Transcribe(ctx context.Context, file *audio.File) (*models.TranscribeResponse, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	upload, err := buildUpload(file)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TranscribeURL(), upload.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", upload.contentType)

	requestID := uuid.NewString()
	c.log.Info("uploading %s (%d bytes, %s) request=%s", file.Name, file.Size, file.MIMEType, requestID)

	start := time.Now()
	body, err := c.do(ctx, req, models.EndpointTranscribe, requestID)
	if err != nil {
		c.log.Warn("transcribe request=%s failed after %s: %v", requestID, time.Since(start), err)
		return nil, err
	}

	resp, err := models.ParseTranscribeResponse(body)
	if err != nil {
		c.log.Error("transcribe request=%s: %v", requestID, err)
		return nil, err
	}

	c.log.Info("transcribe request=%s done in %s: %d chars, aborted=%v",
		requestID, time.Since(start), len(resp.Text), resp.Aborted)
	return resp, nil
}

// Stop asks the server to interrupt the transcription in progress. The
// request carries no body; any 2xx reply is accepted and its status read
// on a best-effort basis.
func (c *Client) Stop(ctx context.Context) (*models.StopResponse, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.StopURL(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.do(ctx, req, models.EndpointStop, uuid.NewString())
	if err != nil {
		return nil, err
	}

	resp := models.ParseStopResponse(body)
	c.log.Info("stop requested: status=%q", resp.Status)
	return resp, nil
}

// do sends req and returns the body of a 2xx reply. Transport failures and
// non-2xx statuses are mapped to the typed errors of the errors package.
func (c *Client) do(ctx context.Context, req *http.Request, endpoint, requestID string) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, apierrors.NewBusyError(endpoint, string(errorBody))
		}
		return nil, apierrors.NewAPIError(resp.StatusCode, endpoint, string(errorBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(ctx, endpoint, fmt.Errorf("failed to read response: %w", err))
	}
	return body, nil
}

func classifyTransportError(ctx context.Context, endpoint string, err error) error {
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return apierrors.NewTimeoutError(endpoint)
	case errors.Is(ctxErr, context.Canceled):
		return fmt.Errorf("request to %s cancelled: %w", endpoint, ctxErr)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierrors.NewTimeoutError(endpoint)
	}
	return apierrors.NewNetworkError(endpoint, err)
}
