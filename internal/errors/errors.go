// Package errors provides custom error types for the transcription client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNoFile          = errors.New("no audio file selected")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrBusy            = errors.New("server busy")
	ErrUploadFailed    = errors.New("upload failed")
	ErrNetwork         = errors.New("network error")
)

// APIError represents a non-success HTTP response from the transcription server
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("HTTP error [%d] at %s", e.StatusCode, e.Endpoint)
	}
	return fmt.Sprintf("HTTP error at %s", e.Endpoint)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Body:       body,
	}
}

// BusyError is returned when the server is already transcribing another file (HTTP 429)
type BusyError struct {
	*APIError
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("server busy with another transcription: %s", e.APIError.Error())
}

// Is allows comparison with sentinel errors
func (e *BusyError) Is(target error) bool {
	if target == ErrBusy {
		return true
	}
	_, ok := target.(*BusyError)
	return ok
}

// Unwrap exposes the underlying APIError
func (e *BusyError) Unwrap() error {
	return e.APIError
}

// NewBusyError creates a new BusyError
func NewBusyError(endpoint, body string) *BusyError {
	return &BusyError{APIError: NewAPIError(429, endpoint, body)}
}

// NetworkError represents a transport failure before any response arrived
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error at %s: %v", e.Endpoint, e.Err)
}

// Is allows comparison with sentinel errors
func (e *NetworkError) Is(target error) bool {
	if target == ErrNetwork {
		return true
	}
	_, ok := target.(*NetworkError)
	return ok
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(endpoint string, err error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Err: err}
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// UploadError represents a failure preparing the audio file for upload
type UploadError struct {
	FileName string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s failed: %v", e.FileName, e.Err)
}

// Is allows comparison with sentinel errors
func (e *UploadError) Is(target error) bool {
	if target == ErrUploadFailed {
		return true
	}
	_, ok := target.(*UploadError)
	return ok
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// NewUploadError creates a new UploadError
func NewUploadError(fileName string, err error) *UploadError {
	return &UploadError{FileName: fileName, Err: err}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Body    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, body string) *ParseError {
	return &ParseError{Message: message, Body: body}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody returns the response body carried by err, or ""
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Body
	}
	return ""
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsTimeoutError reports whether err is a timeout
func IsTimeoutError(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsBusyError reports whether the server refused the upload because it is busy
func IsBusyError(err error) bool {
	return errors.Is(err, ErrBusy)
}

// IsUploadError reports whether the audio file could not be prepared for upload
func IsUploadError(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

// IsParseError reports whether the response body could not be parsed
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}
