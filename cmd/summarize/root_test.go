package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BerylCAtieno/document-summary-assistant/internal/config"
	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
	"github.com/BerylCAtieno/document-summary-assistant/internal/summarizer"
	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"
)

type fakeGenerator struct {
	text  string
	err   error
	calls int
	last  *summarizer.Request
}

func (f *fakeGenerator) GenerateContent(_ context.Context, req *summarizer.Request) (string, error) {
	f.calls++
	f.last = req
	return f.text, f.err
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newClient(gen summarizer.Generator, key string) *summarizer.Client {
	return summarizer.NewClient(gen, summarizer.StaticCredentials(key), "gemini-2.5-flash", utils.NewNopLogger())
}

func TestSummarizeFile(t *testing.T) {
	gen := &fakeGenerator{text: "Doc is about X."}
	path := writeTemp(t, "paper.pdf", []byte("%PDF-1.4 tiny"))

	text, err := summarizeFile(context.Background(), newClient(gen, "k"), models.DefaultTypePolicy(), utils.NewNopLogger(), path, "", "short")
	if err != nil {
		t.Fatalf("summarizeFile returned error: %v", err)
	}
	if text != "Doc is about X." {
		t.Fatalf("text = %q", text)
	}
	if gen.calls != 1 {
		t.Fatalf("calls = %d", gen.calls)
	}
	if gen.last.Payload.MIMEType != "application/pdf" || !strings.Contains(gen.last.Prompt, "short summary") {
		t.Fatalf("unexpected request %+v", gen.last)
	}
}

func TestSummarizeFileErrors(t *testing.T) {
	pdf := writeTemp(t, "paper.pdf", []byte("%PDF-1.4 tiny"))
	txt := writeTemp(t, "notes.txt", []byte("plain words"))

	tests := []struct {
		name    string
		path    string
		length  string
		key     string
		genErr  error
		kind    utils.ErrorKind
		message string
	}{
		{name: "bad length", path: pdf, length: "tiny", key: "k", kind: utils.KindValidation},
		{name: "unsupported type", path: txt, length: "short", key: "k", kind: utils.KindValidation, message: "Invalid file type."},
		{name: "missing file", path: filepath.Join(t.TempDir(), "gone.pdf"), length: "short", key: "k", kind: utils.KindEncoding},
		{name: "missing credential", path: pdf, length: "short", kind: utils.KindConfiguration, message: summarizer.MissingCredentialMessage},
		{name: "remote failure", path: pdf, length: "short", key: "k", genErr: errors.New("quota exceeded"), message: "An error occurred while generating the summary: quota exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{text: "unused", err: tt.genErr}

			_, err := summarizeFile(context.Background(), newClient(gen, tt.key), models.DefaultTypePolicy(), utils.NewNopLogger(), tt.path, "", tt.length)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.kind != "" && !utils.IsKind(err, tt.kind) {
				t.Fatalf("expected %s error, got %v", tt.kind, err)
			}
			if tt.message != "" && !strings.HasPrefix(err.Error(), tt.message) {
				t.Fatalf("error = %q", err.Error())
			}
			if tt.genErr == nil && gen.calls != 0 {
				t.Fatalf("remote call made for %s", tt.name)
			}
		})
	}
}

func TestWriteSummary(t *testing.T) {
	var out bytes.Buffer
	if err := writeSummary(&out, "", "# Title"); err != nil {
		t.Fatalf("writeSummary returned error: %v", err)
	}
	if out.String() != "# Title\n" {
		t.Fatalf("stdout = %q", out.String())
	}

	path := filepath.Join(t.TempDir(), "summary.md")
	if err := writeSummary(&out, path, "# Title"); err != nil {
		t.Fatalf("writeSummary returned error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "# Title" {
		t.Fatalf("file = %q", got)
	}
}

func TestApplyOverridesNormalizesProvider(t *testing.T) {
	cfg := &config.Config{Provider: config.ProviderGemini, Model: config.DefaultModel}

	if err := applyOverrides(cfg, options{provider: " OpenRouter ", model: "google/gemini-2.5-flash"}); err != nil {
		t.Fatalf("applyOverrides returned error: %v", err)
	}
	if cfg.Provider != config.ProviderOpenRouter || cfg.Model != "google/gemini-2.5-flash" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if err := applyOverrides(cfg, options{provider: "Gemini"}); err != nil || cfg.Provider != config.ProviderGemini {
		t.Fatalf("provider = %q, err = %v", cfg.Provider, err)
	}

	err := applyOverrides(cfg, options{provider: "claude"})
	if !utils.IsKind(err, utils.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if cfg.Provider != config.ProviderGemini {
		t.Fatalf("rejected override changed provider to %q", cfg.Provider)
	}
}

func TestSummarizeFileAcceptsLookalikeSummary(t *testing.T) {
	lookalike := "An error occurred while generating the summary of Q3 sales, per the audit."
	gen := &fakeGenerator{text: lookalike}
	path := writeTemp(t, "paper.pdf", []byte("%PDF-1.4 tiny"))

	text, err := summarizeFile(context.Background(), newClient(gen, "k"), models.DefaultTypePolicy(), utils.NewNopLogger(), path, "", "short")
	if err != nil {
		t.Fatalf("summarizeFile returned error: %v", err)
	}
	if text != lookalike {
		t.Fatalf("text = %q", text)
	}
}
