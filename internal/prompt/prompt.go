package prompt

import (
	"fmt"

	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
)

const summaryTemplate = "Please provide a %s summary of the attached document. " +
	"The summary should highlight key points and main ideas, capturing the essential information. " +
	"Present the summary in clean, well-structured markdown."

// Build returns the instruction sent alongside the document.
func Build(length models.SummaryLength) string {
	return fmt.Sprintf(summaryTemplate, length)
}
