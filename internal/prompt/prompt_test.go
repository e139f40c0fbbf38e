package prompt

import (
	"strings"
	"testing"

	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
)

func TestBuildNamesLength(t *testing.T) {
	for _, length := range models.SummaryLengths {
		got := Build(length)
		if !strings.Contains(got, "provide a "+string(length)+" summary") {
			t.Errorf("Build(%q) = %q, missing length", length, got)
		}
		if !strings.Contains(got, "markdown") {
			t.Errorf("Build(%q) does not ask for markdown", length)
		}
		if Build(length) != got {
			t.Errorf("Build(%q) is not deterministic", length)
		}
	}
}

func TestBuildExactText(t *testing.T) {
	want := "Please provide a short summary of the attached document. " +
		"The summary should highlight key points and main ideas, capturing the essential information. " +
		"Present the summary in clean, well-structured markdown."
	if got := Build(models.LengthShort); got != want {
		t.Fatalf("Build(short) = %q", got)
	}
}
