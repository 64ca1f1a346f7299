package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

const docxDocumentXMLPath = "word/document.xml"

// wordNamespace is the WordprocessingML main namespace.
const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", &ParseError{Kind: KindDOCX, Message: "not a zip archive", Cause: err}
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == docxDocumentXMLPath {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", &ParseError{Kind: KindDOCX, Message: docxDocumentXMLPath + " not found"}
	}

	rc, err := doc.Open()
	if err != nil {
		return "", &ParseError{Kind: KindDOCX, Message: "open " + doc.Name, Cause: err}
	}
	defer func() { _ = rc.Close() }()

	paragraphs, err := readParagraphs(rc)
	if err != nil {
		return "", &ParseError{Kind: KindDOCX, Message: "read " + doc.Name, Cause: err}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// readParagraphs streams document.xml and returns the text of every w:p in order.
func readParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		depth      int // nesting of w:p, tables can nest paragraphs
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					current.Reset()
				}
				depth++
			case "t":
				inText = true
			case "tab":
				if depth > 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if depth > 0 {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				depth--
				if depth == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && depth > 0 {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
