package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"clausevault/pkg/logger"

	"github.com/ledongthuc/pdf"
)

// FileKind classifies an upload by declared media type with a
// filename-extension fallback.
type FileKind int

const (
	KindUnsupported FileKind = iota
	KindPDF
	KindDOCX
	KindText
)

const docxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DetectKind classifies the upload. Callers reject KindUnsupported before
// extraction is ever attempted.
func DetectKind(mimeType, filename string) FileKind {
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case mimeType == "application/pdf" || mimeType == "application/x-pdf" || ext == ".pdf":
		return KindPDF
	case mimeType == docxMimeType || ext == ".docx":
		return KindDOCX
	case strings.HasPrefix(mimeType, "text/"):
		return KindText
	default:
		return KindUnsupported
	}
}

// ExtractText produces plain text from raw file bytes. Parse failures are
// swallowed: the result is an empty string, never an error, so an
// unparseable legacy document can still be stored.
func ExtractText(ctx context.Context, data []byte, mimeType, filename string) string {
	switch DetectKind(mimeType, filename) {
	case KindPDF:
		text, err := extractPDF(data)
		if err != nil {
			logger.Warn(ctx, "pdf extraction failed", "file", filename, "error", err)
			return ""
		}
		return text
	case KindDOCX:
		text, err := extractDOCX(data)
		if err != nil {
			logger.Warn(ctx, "docx extraction failed", "file", filename, "error", err)
			return ""
		}
		return text
	case KindText:
		// Invalid sequences become replacement runes downstream; raw
		// bytes pass through unchanged here.
		return string(data)
	}
	return ""
}

// extractPDF walks every page in order, joining text items with single
// spaces and pages with newlines. The pdf package panics on some corrupt
// inputs, so the recover is part of the lenient-degradation contract.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content := page.Content()
		for j, item := range content.Text {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(item.S)
		}
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

// extractDOCX pulls the raw text out of word/document.xml. A DOCX file is
// a ZIP archive; text runs live in <w:t> elements, one paragraph per
// <w:p> element.
func extractDOCX(data []byte) (string, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}

	var document *zip.File
	for _, file := range zipReader.File {
		if file.Name == "word/document.xml" {
			document = file
			break
		}
	}
	if document == nil {
		return "", fmt.Errorf("no word/document.xml in archive")
	}

	rc, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var sb strings.Builder
	var inTextRun bool

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch element := token.(type) {
		case xml.StartElement:
			if element.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			if element.Name.Local == "t" {
				inTextRun = false
			}
			if element.Name.Local == "p" {
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inTextRun {
				sb.Write(element)
			}
		}
	}

	return sb.String(), nil
}
