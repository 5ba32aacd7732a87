// Package ingestion turns resume and job description documents into clean plain text.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Extractor reads the full plain text of a document.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// FileExtractor dispatches on file extension: .pdf, .docx, .txt and .md.
type FileExtractor struct{}

// NewFileExtractor returns the default document extractor.
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// ExtractText returns the cleaned text of the document at path.
// A missing file surfaces as an error satisfying errors.Is(err, os.ErrNotExist).
func (e *FileExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", &ExtractionError{Path: path, Message: "cannot stat document", Cause: err}
	}

	var (
		raw string
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		raw, err = extractPDF(path)
	case ".docx":
		raw, err = extractDocx(path)
	case ".txt", ".md", ".text":
		var data []byte
		data, err = os.ReadFile(path)
		raw = string(data)
	default:
		return "", &ExtractionError{Path: path, Message: fmt.Sprintf("extension %q", ext), Cause: ErrUnsupportedFormat}
	}
	if err != nil {
		return "", &ExtractionError{Path: path, Message: "read failed", Cause: err}
	}

	return CleanText(raw), nil
}

// extractPDF concatenates page text in page order, one newline between pages.
func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n"), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:cr/>`)
	docxTab          = regexp.MustCompile(`<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
	xmlEntities      = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&#39;", "'")
)

// extractDocx flattens the document XML into one line per paragraph.
func extractDocx(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

func docxXMLToText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return xmlEntities.Replace(content)
}
