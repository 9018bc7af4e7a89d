package resume

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/ErikLozanov/job-application-tracker/internal/constants"
	"github.com/ErikLozanov/job-application-tracker/internal/storage"
	"github.com/ledongthuc/pdf"
)

// TextSource returns the plain text of a stored resume.
type TextSource interface {
	// Extract returns the resume text and false when no text could be read.
	Extract(ctx context.Context, key string) (string, bool)
}

// PDFExtractor reads PDF resumes from blob storage.
type PDFExtractor struct {
	store storage.BlobStore
}

func NewPDFExtractor(store storage.BlobStore) *PDFExtractor {
	return &PDFExtractor{store: store}
}

func (e *PDFExtractor) Extract(ctx context.Context, key string) (string, bool) {
	if key == "" {
		return "", false
	}

	rc, err := e.store.Open(ctx, key)
	if err != nil {
		log.Printf("Failed to open resume %s: %v", key, err)
		return "", false
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, constants.MaxResumeSize+1))
	if err != nil {
		log.Printf("Failed to read resume %s: %v", key, err)
		return "", false
	}

	text, err := PlainText(data)
	if err != nil {
		log.Printf("Failed to extract resume text from %s: %v", key, err)
		return "", false
	}
	if text == "" {
		return "", false
	}
	return text, true
}

// PlainText extracts the text layer of a PDF document.
func PlainText(data []byte) (text string, err error) {
	// the parser panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
