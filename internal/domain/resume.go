package domain

import "errors"

var (
	ErrResumeTypeNotSupported = errors.New("resume type not supported")
	ErrResumeTypeMismatch     = errors.New("resume ext does not match content type")
	ErrResumeTooLarge         = errors.New("resume too large")
	ErrResumeEmpty            = errors.New("resume contains no text")
	ErrResumeUnreadable       = errors.New("resume could not be read")
)

// ResumeText is the text extracted from an uploaded resume.
type ResumeText struct {
	Filename   string `json:"filename"`
	Text       string `json:"text"`
	Characters int    `json:"characters"`
}
