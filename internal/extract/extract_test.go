package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentXMLFooter = `</w:body></w:document>`

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXMLHeader + body + documentXMLFooter))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText_DOCXParagraphsInOrder(t *testing.T) {
	data := buildDOCX(t, `
		<w:p w:rsidR="00A1"><w:r><w:t>Jane Doe</w:t></w:r></w:p>
		<w:p><w:r><w:t xml:space="preserve">Senior </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p>
		<w:p></w:p>
		<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>Kubernetes</w:t></w:r></w:p>`)

	text, err := ExtractText(data, KindDOCX)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Engineer\n\nGo\tKubernetes", text)
}

func TestExtractText_DOCXWithoutText(t *testing.T) {
	text, err := ExtractText(buildDOCX(t, ""), KindDOCX)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractText_MalformedDOCX(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a zip"), KindDOCX)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, KindDOCX, parseErr.Kind)
	assert.Contains(t, err.Error(), "could not extract text")
}

func TestExtractText_DOCXMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ExtractText(buf.Bytes(), KindDOCX)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "not found")
}

func TestExtractText_MalformedPDF(t *testing.T) {
	_, err := ExtractText([]byte("this is not a pdf"), KindPDF)
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, KindPDF, parseErr.Kind)
}

func TestExtractText_EmptyInput(t *testing.T) {
	_, err := ExtractText(nil, KindPDF)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "empty input", parseErr.Message)
}

func TestKindFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    Kind
		wantErr bool
	}{
		{"pdf", "resume.pdf", KindPDF, false},
		{"upper case pdf", "RESUME.PDF", KindPDF, false},
		{"docx", "cv.final.docx", KindDOCX, false},
		{"legacy doc", "cv.doc", "", true},
		{"no extension", "resume", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := KindFromFilename(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}
