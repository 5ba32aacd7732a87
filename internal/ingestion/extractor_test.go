package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExtractor_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe\r\nSkills:   Python, SQL\r\n\r\n\r\n\r\nProjects"), 0644))

	text, err := NewFileExtractor().ExtractText(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills: Python, SQL\n\nProjects", text)
}

func TestFileExtractor_MissingFile(t *testing.T) {
	_, err := NewFileExtractor().ExtractText(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
}

func TestFileExtractor_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.odt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	_, err := NewFileExtractor().ExtractText(context.Background(), path)

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFileExtractor_CorruptPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0644))

	_, err := NewFileExtractor().ExtractText(context.Background(), path)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, path, extractionErr.Path)
}

func TestFileExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileExtractor().ExtractText(ctx, "whatever.txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocxXMLToText(t *testing.T) {
	xml := `<w:document><w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Python</w:t><w:tab/><w:t>SQL &amp; dbt</w:t></w:r></w:p></w:body></w:document>`

	assert.Equal(t, "Jane Doe\nPython\tSQL & dbt\n", docxXMLToText(xml))
}
