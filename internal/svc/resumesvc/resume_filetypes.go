package resumesvc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/mkrupp/smart-interviewer/internal/domain"
)

const (
	MIMETypeText     = "text/plain"
	MIMETypeMarkdown = "text/markdown"
	MIMETypePDF      = "application/pdf"
	MIMETypeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var errPanic = errors.New("panic")

//nolint:gochecknoglobals
var (
	resumeExtTypes = map[string]string{
		".txt":  MIMETypeText,
		".md":   MIMETypeMarkdown,
		".pdf":  MIMETypePDF,
		".docx": MIMETypeDOCX,
	}

	// text types have no signature and are checked for valid UTF-8 instead
	resumeExtHeaders = map[string][]string{
		MIMETypePDF:  {"%PDF-"},
		MIMETypeDOCX: {"PK\x03\x04"},
	}

	resumeExtractors = map[string]func([]byte) (string, error){
		MIMETypeText:     extractPlainText,
		MIMETypeMarkdown: extractPlainText,
		MIMETypePDF:      extractPDFText,
		MIMETypeDOCX:     extractDocxText,
	}
)

func getExtractorByType(mimeType string) (func([]byte) (string, error), error) {
	extractor, ok := resumeExtractors[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrResumeTypeNotSupported, mimeType)
	}

	return extractor, nil
}

func extractPlainText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not utf-8", domain.ErrResumeTypeMismatch)
	}

	return string(data), nil
}

func extractPDFText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: read pdf: %v", errPanic, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var sb strings.Builder

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}

		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	return wordprocessingText(doc.Editable().GetContent())
}

// wordprocessingText returns the text runs of a WordprocessingML body,
// with one line per paragraph.
func wordprocessingText(content string) (string, error) {
	var (
		sb     strings.Builder
		inText bool
	)

	decoder := xml.NewDecoder(strings.NewReader(content))

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return "", fmt.Errorf("decode document: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
