// Package pdftext pulls plain text out of uploaded PDF documents.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument is returned when the input has no bytes.
var ErrEmptyDocument = errors.New("empty document")

// Extract returns the plain text of every page in order, concatenated. The
// parser panics on some malformed inputs; those panics are returned as
// errors.
func Extract(r io.ReaderAt, size int64) (text string, err error) {
	if size <= 0 {
		return "", ErrEmptyDocument
	}
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("parse pdf: %v", rec)
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", i, err)
		}
		sb.WriteString(content)
		if !strings.HasSuffix(content, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

// ExtractBytes is Extract over an in-memory document.
func ExtractBytes(b []byte) (string, error) {
	return Extract(bytes.NewReader(b), int64(len(b)))
}
