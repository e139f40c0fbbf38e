package models

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Source gives access to the bytes of a selected document.
type Source interface {
	Open() (io.ReadCloser, error)
}

// BytesSource serves content already held in memory.
type BytesSource []byte

func (b BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// FileSource reads content lazily from a path on disk.
type FileSource string

func (f FileSource) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}

// Document is the user-selected file. It is never mutated after construction.
type Document struct {
	Name     string
	MIMEType string
	Size     int64
	Source   Source
}

func NewDocumentFromBytes(name, mimeType string, data []byte) *Document {
	return &Document{
		Name:     name,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Source:   BytesSource(data),
	}
}

// NewDocumentFromFile stats path and builds a Document backed by it. When
// mimeType is empty it is derived from the extension, then from the content.
func NewDocumentFromFile(path, mimeType string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	if mimeType == "" {
		mimeType, err = detectFileType(path)
		if err != nil {
			return nil, err
		}
	}

	return &Document{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Size:     info.Size(),
		Source:   FileSource(path),
	}, nil
}

// SizeKB mirrors the size shown next to the selected file name.
func (d *Document) SizeKB() string {
	return fmt.Sprintf("%.2f KB", float64(d.Size)/1024)
}

func detectFileType(path string) (string, error) {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		mediaType, _, err := mime.ParseMediaType(byExt)
		if err == nil {
			return mediaType, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return strings.Split(http.DetectContentType(head[:n]), ";")[0], nil
}
