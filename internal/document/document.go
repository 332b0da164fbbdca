// Package document extracts plain text from uploaded resumes and job
// descriptions.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeText = "text/plain"
)

// ErrNoText is returned when a document contains no extractable text.
var ErrNoText = errors.New("no text content found in document")

// Content is the text of a document together with basic metadata.
type Content struct {
	Path      string
	Text      string
	PageCount int
}

// ExtractText returns the plain text of the document at path.
func ExtractText(path string) (string, error) {
	content, err := Extract(path)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

// Extract reads the document at path. PDF pages are concatenated in page
// order; .txt, .md and extensionless files are read as they are. Content is
// sniffed: mislabeled files are rejected and extensionless files are
// dispatched by what they contain.
func Extract(path string) (*Content, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf", ".txt", ".md", "":
	default:
		return nil, fmt.Errorf("unsupported document format %q", ext)
	}

	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", path, err)
	}

	var content *Content
	switch {
	case mime.Is(mimePDF) && (ext == ".pdf" || ext == ""):
		content, err = extractPDF(path)
	case isText(mime) && ext != ".pdf":
		content, err = extractPlain(path)
	default:
		return nil, fmt.Errorf("document %q has unexpected content type %s", path, mime.String())
	}
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content.Text) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrNoText)
	}
	return content, nil
}

func isText(mime *mimetype.MIME) bool {
	for m := mime; m != nil; m = m.Parent() {
		if m.Is(mimeText) {
			return true
		}
	}
	return false
}

func extractPlain(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", path, err)
	}
	return &Content{Path: path, Text: string(data), PageCount: 1}, nil
}

func extractPDF(path string) (*Content, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %q: %w", path, err)
	}
	defer f.Close()

	var builder strings.Builder
	total := r.NumPage()

	for index := 1; index <= total; index++ {
		page := r.Page(index)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// a broken page should not lose the rest of the resume
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return &Content{Path: path, Text: builder.String(), PageCount: total}, nil
}
