package speechsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	context_ "github.com/mkrupp/smart-interviewer/internal/infra/context"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
	http_ "github.com/mkrupp/smart-interviewer/internal/infra/transport/http"
)

const (
	upstreamService = "Resemble AI"
	// upstream error bodies are read only this far for logging
	maxErrorBodyLength = 4096
)

// SynthesisRequest is the body sent to the streaming synthesis endpoint.
type SynthesisRequest struct {
	VoiceUUID    string `json:"voice_uuid"`
	Data         string `json:"data"`
	SampleRate   int    `json:"sample_rate"`
	OutputFormat string `json:"output_format"`
}

// SynthesisClient turns text into an audio stream.
type SynthesisClient interface {
	// Synthesize returns the audio stream; the caller must close it.
	// A non-success upstream status is returned as *domain.UpstreamError.
	Synthesize(ctx context.Context, req SynthesisRequest) (io.ReadCloser, error)
}

// ResembleClient implements SynthesisClient against the Resemble streaming API.
type ResembleClient struct {
	httpClient *http.Client
	log        logging.Logger
	streamURL  string
	apiKey     string
}

var _ SynthesisClient = (*ResembleClient)(nil)

// NewResembleClient creates a new ResembleClient.
// If httpClient is nil, http.DefaultClient will be used.
func NewResembleClient(streamURL, apiKey string, httpClient *http.Client) *ResembleClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &ResembleClient{
		httpClient: httpClient,
		log:        logging.GetLogger("svc.speechsvc.resemble_client"),
		streamURL:  streamURL,
		apiKey:     apiKey,
	}
}

// Synthesize implements SynthesisClient.Synthesize by posting the request to
// the configured stream URL with bearer authentication.
func (c *ResembleClient) Synthesize(ctx context.Context, synthReq SynthesisRequest) (io.ReadCloser, error) {
	body, err := json.Marshal(synthReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.streamURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	if traceID, ok := context_.TraceIDFromContext(ctx); ok {
		req.Header.Set(http_.TraceIDHeader, traceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()

		errText, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength))
		c.log.ErrorContext(ctx, "upstream error",
			logging.Group("upstream", "status", resp.StatusCode, "body", string(errText)))

		return nil, &domain.UpstreamError{Service: upstreamService, StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}
