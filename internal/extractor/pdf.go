package extractor

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFPageCount opens data as a PDF and returns its page count.
func PDFPageCount(data []byte) (n int, err error) {
	// The reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	return pdfReader.NumPage(), nil
}

// PageCount returns the number of pages for PDFs and zero for anything else.
func PageCount(data []byte, contentType string) (int, error) {
	if contentType != "application/pdf" {
		return 0, nil
	}
	return PDFPageCount(data)
}
