package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

func extractPDF(content []byte) (text string, err error) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ParseError{Kind: KindPDF, Message: "malformed document"}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", &ParseError{Kind: KindPDF, Message: "open document", Cause: err}
	}

	numPages := r.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		pages = append(pages, pageText(r.Page(i)))
	}
	return strings.Join(pages, "\n"), nil
}

// pageText returns "" for pages without extractable text.
func pageText(page pdf.Page) string {
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
