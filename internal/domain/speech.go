package domain

import (
	"errors"
	"strconv"
)

var (
	// ErrSpeechNotConfigured is returned when no voice-synthesis API key is configured.
	ErrSpeechNotConfigured = errors.New("speech synthesis not configured")
	// ErrSpeechUpstream is returned when the voice-synthesis API answers with a non-success status.
	ErrSpeechUpstream = errors.New("speech synthesis upstream error")
)

// SpeechRequest is the body of a text-to-speech call.
type SpeechRequest struct {
	Text string `json:"text"`
}

// UpstreamError carries the status code returned by a third-party API.
type UpstreamError struct {
	Service    string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return e.Service + " error: " + strconv.Itoa(e.StatusCode)
}

// Is makes errors.Is(err, ErrSpeechUpstream) match any UpstreamError.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrSpeechUpstream
}
