package ingestion

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-fit/internal/extract"
	"github.com/jonathan/resume-fit/internal/types"
)

func docxWithParagraphs(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestResumeFromUpload_DOCX(t *testing.T) {
	data := docxWithParagraphs(t, "Jane Doe", "Senior   Go Engineer")

	doc, err := ResumeFromUpload(data, "/tmp/uploads/Jane_Resume.DOCX")
	require.NoError(t, err)
	assert.Equal(t, types.OriginUploadedResume, doc.Origin)
	assert.Equal(t, "Jane Doe\nSenior Go Engineer", doc.Text)
	assert.Equal(t, "Jane_Resume.DOCX", doc.Source)
}

func TestResumeFromUpload_BlankDocument(t *testing.T) {
	data := docxWithParagraphs(t, "   ", "")

	_, err := ResumeFromUpload(data, "resume.docx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoText))
}

func TestResumeFromUpload_Malformed(t *testing.T) {
	_, err := ResumeFromUpload([]byte("not a zip"), "resume.docx")

	var parseErr *extract.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, extract.KindDOCX, parseErr.Kind)
}

func TestResumeFromUpload_UnsupportedExtension(t *testing.T) {
	_, err := ResumeFromUpload([]byte("plain"), "resume.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".txt")
}
