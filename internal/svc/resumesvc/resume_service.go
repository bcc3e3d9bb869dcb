package resumesvc

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
)

// ResumeConfig holds configuration parameters for the resume service.
type ResumeConfig struct {
	// MaxSize is the maximum allowed file size for uploaded resumes in bytes.
	// Default is 5MB.
	MaxSize int64 `env:"MAX_SIZE" envDefault:"5242880"`
}

//nolint:gochecknoglobals
var (
	reTrailingSpace = regexp.MustCompile(`[ \t]+\n`)
	reBlankLines    = regexp.MustCompile(`\n{3,}`)
)

// ResumeService extracts plain text from uploaded resumes. Nothing is stored.
type ResumeService struct {
	cfg ResumeConfig
	log logging.Logger
}

// NewResumeService creates a new ResumeService.
func NewResumeService(cfg ResumeConfig) *ResumeService {
	return &ResumeService{
		cfg: cfg,
		log: logging.GetLogger("svc.resumesvc.resume_service"),
	}
}

// MaxSize returns the maximum allowed file size in bytes.
func (resumeSvc *ResumeService) MaxSize() int64 {
	return resumeSvc.cfg.MaxSize
}

// CheckUploadConstraints checks the size and extension of an upload and,
// if data is not nil, that its signature matches the extension.
// Returns the MIME type derived from the extension.
func (resumeSvc *ResumeService) CheckUploadConstraints(filename string, size int64, data []byte) (string, error) {
	if size > resumeSvc.MaxSize() {
		return "", domain.ErrResumeTooLarge
	}

	filenameExt := strings.ToLower(filepath.Ext(filename))

	resumeType, ok := resumeExtTypes[filenameExt]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrResumeTypeNotSupported, filenameExt)
	}

	headers, ok := resumeExtHeaders[resumeType]
	if data == nil || !ok {
		return resumeType, nil
	}

	for _, header := range headers {
		if bytes.HasPrefix(data, []byte(header)) {
			return resumeType, nil
		}
	}

	return "", fmt.Errorf("%w: %q", domain.ErrResumeTypeMismatch, filenameExt)
}

// Extract returns the normalized text of the resume in data.
func (resumeSvc *ResumeService) Extract(
	ctx context.Context,
	filename string,
	data []byte,
) (resume domain.ResumeText, err error) {
	log := resumeSvc.log.With(logging.Group("resume", "filename", filename, "size", len(data)))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "resume extraction failed", "error", err)
		} else {
			log.DebugContext(ctx, "resume extracted", "characters", resume.Characters)
		}
	}()

	mimeType, err := resumeSvc.CheckUploadConstraints(filename, int64(len(data)), data)
	if err != nil {
		return domain.ResumeText{}, fmt.Errorf("check upload constraints: %w", err)
	}

	extract, err := getExtractorByType(mimeType)
	if err != nil {
		return domain.ResumeText{}, err
	}

	text, err := extract(data)
	if err != nil {
		return domain.ResumeText{}, fmt.Errorf("%w: %s: %w", domain.ErrResumeUnreadable, mimeType, err)
	}

	text = NormalizeText(text)
	if text == "" {
		return domain.ResumeText{}, domain.ErrResumeEmpty
	}

	return domain.ResumeText{
		Filename:   filepath.Base(filename),
		Text:       text,
		Characters: utf8.RuneCountInString(text),
	}, nil
}

// NormalizeText unifies line endings, strips trailing spaces and collapses
// runs of blank lines.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")
	text = reTrailingSpace.ReplaceAllString(text, "\n")
	text = reBlankLines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
