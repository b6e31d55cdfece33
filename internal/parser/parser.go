// Package parser recovers plain text from the binary judgment formats the
// courts publish (DOCX, RTF, PDF, HTML). It is the upstream collaborator of
// the segmentation engine: its only failure modes are format errors and the
// distinct "extraction too short" condition.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// MinTextLen is the minimum extracted length for a usable judgment. Anything
// shorter is reported as KindTooShort rather than handed to segmentation.
const MinTextLen = 100

// ErrorKind classifies extraction failures for callers.
type ErrorKind string

const (
	KindUnsupported ErrorKind = "unsupported_format"
	KindParseFailed ErrorKind = "parse_failed"
	KindTooShort    ErrorKind = "too_short"
)

// ExtractionError is the only error type that crosses the extraction
// boundary.
type ExtractionError struct {
	Kind ErrorKind
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("extraction failed (%s)", e.Kind)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor converts raw document bytes into plain text.
type Extractor interface {
	Extract(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".rtf":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".rtf":
		return &RTFExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, &ExtractionError{Kind: KindUnsupported, Err: fmt.Errorf("unsupported file extension: %s", ext)}
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ExtractText selects an extractor by content signature (the relatoria often
// serves .rtf URLs that are really DOCX archives) falling back to the file
// extension, runs it, and enforces the minimum-length contract.
func ExtractText(data []byte, filename string) (string, error) {
	name := filename
	if sniffed := SniffFormat(data); sniffed != "" {
		name = forceExt(filename, sniffed)
	}

	ext, err := ForFile(name)
	if err != nil {
		return "", err
	}
	text, err := ext.Extract(bytes.NewReader(data), name)
	if err != nil {
		var exErr *ExtractionError
		if !errors.As(err, &exErr) {
			err = &ExtractionError{Kind: KindParseFailed, Err: err}
		}
		return "", err
	}
	text = strings.TrimSpace(text)
	if len(text) < MinTextLen {
		return "", &ExtractionError{Kind: KindTooShort, Err: fmt.Errorf("extracted %d chars, need %d", len(text), MinTextLen)}
	}
	return text, nil
}

// SniffFormat detects the real document format from leading bytes. Returns
// the matching extension or "" when the signature is unknown.
func SniffFormat(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("PK")):
		return ".docx"
	case bytes.HasPrefix(data, []byte(`{\rtf`)):
		return ".rtf"
	case bytes.HasPrefix(data, []byte("%PDF")):
		return ".pdf"
	}
	head := bytes.ToLower(data)
	if len(head) > 512 {
		head = head[:512]
	}
	if bytes.Contains(head, []byte("<!doctype html")) || bytes.Contains(head, []byte("<html")) {
		return ".html"
	}
	return ""
}

func forceExt(filename, ext string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext
}
