package speechsvc

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
	"github.com/mkrupp/smart-interviewer/internal/repo/blob"
	"github.com/mkrupp/smart-interviewer/internal/util/encoding"
)

// SpeechConfig contains configuration parameters for the speech relay.
type SpeechConfig struct {
	// APIKey is the Resemble API key; requests fail with a configuration error when unset
	APIKey string `env:"API_KEY"`

	// StreamURL is the streaming synthesis endpoint
	StreamURL string `env:"STREAM_URL" envDefault:"https://f.cluster.resemble.ai/stream"`

	// VoiceID is the voice used for synthesis
	VoiceID string `env:"VOICE_ID" envDefault:"fb2d2858"`

	// MaxChars is the number of characters forwarded upstream
	MaxChars int `env:"MAX_CHARS" envDefault:"5000"`

	SampleRate   int    `env:"SAMPLE_RATE" envDefault:"44100"`
	OutputFormat string `env:"OUTPUT_FORMAT" envDefault:"mp3"`

	// CacheEnabled stores synthesized audio in the blob repository
	CacheEnabled bool `env:"CACHE_ENABLED" envDefault:"false"`
}

// SpeechService relays text to a synthesis API, optionally caching the audio.
type SpeechService struct {
	Config SpeechConfig
	Client SynthesisClient
	Cache  blob.Repository
	Log    logging.Logger
}

// NewSpeechService creates a SpeechService talking to the Resemble API.
// When caching is enabled, audio is stored through repoFactory.
func NewSpeechService(
	ctx context.Context,
	repoFactory blob.RepositoryFactory,
	cfg SpeechConfig,
) (*SpeechService, error) {
	var cache blob.Repository

	if cfg.CacheEnabled {
		repo, err := repoFactory(ctx, "speech", cfg.OutputFormat)
		if err != nil {
			return nil, fmt.Errorf("new blob repo: %w", err)
		}

		cache = repo
	}

	return NewSpeechServiceWith(NewResembleClient(cfg.StreamURL, cfg.APIKey, nil), cache, cfg), nil
}

// NewSpeechServiceWith creates a SpeechService from already constructed dependencies.
// A nil cache disables caching.
func NewSpeechServiceWith(client SynthesisClient, cache blob.Repository, cfg SpeechConfig) *SpeechService {
	return &SpeechService{
		Config: cfg,
		Client: client,
		Cache:  cache,
		Log:    logging.GetLogger("svc.speechsvc.speech_service"),
	}
}

// Synthesize returns the audio for text; the caller must close it.
// Returns a ValidationError for blank text, ErrSpeechNotConfigured without an
// API key and *domain.UpstreamError when the synthesis API rejects the request.
func (s *SpeechService) Synthesize(ctx context.Context, text string) (_ io.ReadCloser, err error) {
	defer func() {
		if err != nil {
			s.Log.ErrorContext(ctx, "synthesize failed", "error", err)
		}
	}()

	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("Text is required.")
	}

	if s.Config.APIKey == "" {
		return nil, domain.ErrSpeechNotConfigured
	}

	req := SynthesisRequest{
		VoiceUUID:    s.Config.VoiceID,
		Data:         Truncate(text, s.Config.MaxChars),
		SampleRate:   s.Config.SampleRate,
		OutputFormat: s.Config.OutputFormat,
	}

	if s.Cache == nil {
		audio, err := s.Client.Synthesize(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("synthesize: %w", err)
		}

		return audio, nil
	}

	return s.synthesizeCached(ctx, req)
}

func (s *SpeechService) synthesizeCached(ctx context.Context, req SynthesisRequest) (io.ReadCloser, error) {
	id := CacheKey(req)
	log := s.Log.With(logging.Group("cache", "id", id))

	if cached, ok := s.fetch(ctx, id); ok {
		log.DebugContext(ctx, "cache hit")

		return io.NopCloser(cached.Reader()), nil
	}

	audio, err := s.Client.Synthesize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	defer audio.Close()

	body, err := io.ReadAll(audio)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	s.store(ctx, domain.NewBlob(id, body))

	return io.NopCloser(bytes.NewReader(body)), nil
}

func (s *SpeechService) fetch(ctx context.Context, id domain.BlobID) (*domain.Blob, bool) {
	if !s.Cache.Exists(ctx, id) {
		return nil, false
	}

	unlock, err := s.Cache.Lock(ctx, id, false)
	if err != nil {
		s.Log.WarnContext(ctx, "cache lock failed", "error", err)

		return nil, false
	}
	defer unlock()

	cached, err := s.Cache.Fetch(ctx, id)
	if err != nil {
		s.Log.WarnContext(ctx, "cache fetch failed", "error", err)

		return nil, false
	}

	return cached, true
}

func (s *SpeechService) store(ctx context.Context, audio *domain.Blob) {
	unlock, err := s.Cache.Lock(ctx, audio.ID, true)
	if err != nil {
		s.Log.WarnContext(ctx, "cache lock failed", "error", err)

		return
	}
	defer unlock()

	if err := s.Cache.Store(ctx, audio); err != nil {
		s.Log.WarnContext(ctx, "cache store failed", "error", err)
	}
}

// CacheKey derives the blob id of a synthesis request from all its fields.
func CacheKey(req SynthesisRequest) domain.BlobID {
	hash := sha256.New()

	for _, part := range []string{req.VoiceUUID, req.OutputFormat, strconv.Itoa(req.SampleRate), req.Data} {
		hash.Write([]byte(part))
		hash.Write([]byte{0})
	}

	return domain.BlobID(encoding.EncodeCrockfordB32LC(hash.Sum(nil)))
}

// Truncate returns at most maxChars characters of text without splitting a
// multi-byte character. A non-positive maxChars disables truncation.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	n := 0
	for i := range text {
		if n == maxChars {
			return text[:i]
		}

		n++
	}

	return text
}
