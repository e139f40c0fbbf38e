package encoder

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"
)

// Payload is a document in the shape the generative API expects inline.
type Payload struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

// Encode reads the whole document and returns it base64 encoded. The read
// runs in its own goroutine so a cancelled ctx releases the caller; the
// source is closed to unblock the reader. Every failure is an EncodingError.
func Encode(ctx context.Context, doc *models.Document) (*Payload, error) {
	if doc == nil || doc.Source == nil {
		return nil, utils.NewEncodingError(errors.New("no document content"))
	}

	rc, err := doc.Source.Open()
	if err != nil {
		return nil, utils.NewEncodingError(fmt.Errorf("open %s: %w", doc.Name, err))
	}

	type result struct {
		data string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if doc.Size > 0 {
			buf.Grow(base64.StdEncoding.EncodedLen(int(doc.Size)))
		}
		enc := base64.NewEncoder(base64.StdEncoding, &buf)
		if _, err := io.Copy(enc, rc); err != nil {
			done <- result{err: err}
			return
		}
		if err := enc.Close(); err != nil {
			done <- result{err: err}
			return
		}
		done <- result{data: buf.String()}
	}()

	select {
	case <-ctx.Done():
		rc.Close()
		return nil, utils.NewEncodingError(fmt.Errorf("read %s: %w", doc.Name, ctx.Err()))
	case res := <-done:
		rc.Close()
		if res.err != nil {
			return nil, utils.NewEncodingError(fmt.Errorf("read %s: %w", doc.Name, res.err))
		}
		return &Payload{Data: res.data, MIMEType: doc.MIMEType}, nil
	}
}

// Decode returns the raw bytes of p. Backends whose SDK wants bytes use it.
func (p *Payload) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.Data)
}

// DataURL renders p as an RFC 2397 data URL.
func (p *Payload) DataURL() string {
	return "data:" + p.MIMEType + ";base64," + p.Data
}
