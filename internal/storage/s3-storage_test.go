package storage

import "testing"

func TestDocumentKey(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"paper.pdf", "documents/rec-1/paper.pdf"},
		{"../../etc/passwd", "documents/rec-1/passwd"},
		{`C:\Users\me\scan.png`, "documents/rec-1/scan.png"},
		{"", "documents/rec-1/document"},
	}

	for _, tt := range tests {
		if got := DocumentKey("rec-1", tt.filename); got != tt.want {
			t.Errorf("DocumentKey(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
