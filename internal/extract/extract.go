// Package extract turns uploaded resume files into plain text for
// prompting. PDF, DOCX and plain text are supported.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Content types the extractor understands.
const (
	TypePDF  = "application/pdf"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeText = "text/plain"
)

// ErrNoText is returned when a file parses cleanly but yields no text,
// e.g. a scanned PDF without a text layer.
var ErrNoText = errors.New("no extractable text")

// TextExtractor converts raw file content into plain text.
type TextExtractor interface {
	// Extract returns the text of content interpreted as contentType.
	Extract(contentType string, content []byte) (string, error)

	// Supports reports whether contentType can be extracted.
	Supports(contentType string) bool
}

type fileExtractor struct{}

// NewExtractor constructs the default extractor.
func NewExtractor() TextExtractor {
	return &fileExtractor{}
}

func (e *fileExtractor) Supports(contentType string) bool {
	switch normalize(contentType) {
	case TypePDF, TypeDOCX, TypeText:
		return true
	}
	return false
}

func (e *fileExtractor) Extract(contentType string, content []byte) (string, error) {
	text, err := e.extract(contentType, content)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func (e *fileExtractor) extract(contentType string, content []byte) (string, error) {
	switch normalize(contentType) {
	case TypeText:
		return string(content), nil
	case TypePDF:
		return extractPDF(content)
	case TypeDOCX:
		return extractDocx(content)
	default:
		return "", fmt.Errorf("unsupported file type: %s", contentType)
	}
}

func extractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		// Pages that fail to decode are skipped rather than failing the file.
		text, _ := page.GetPlainText(nil)
		b.WriteString(text)
	}
	return b.String(), nil
}

func extractDocx(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()
	return doc.Editable().GetContent(), nil
}

// ContentTypeFor resolves the effective content type of an upload,
// preferring the declared multipart header and falling back to the file
// extension when the client sent nothing useful.
func ContentTypeFor(filename, declared string) string {
	if ct := normalize(declared); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return TypePDF
	case ".docx":
		return TypeDOCX
	case ".txt":
		return TypeText
	}
	return declared
}

// normalize strips parameters such as charset and lowercases the media type.
func normalize(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
