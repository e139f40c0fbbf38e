package models

import (
	"fmt"
	"strings"
	"time"
)

type SummaryLength string

const (
	LengthShort  SummaryLength = "short"
	LengthMedium SummaryLength = "medium"
	LengthLong   SummaryLength = "long"

	DefaultLength = LengthMedium
)

var SummaryLengths = []SummaryLength{LengthShort, LengthMedium, LengthLong}

// ParseSummaryLength accepts the three lengths case-insensitively. An empty
// string yields the default.
func ParseSummaryLength(s string) (SummaryLength, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLength, nil
	}
	for _, l := range SummaryLengths {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("invalid summary length %q: must be one of short, medium, long", s)
}

func (l SummaryLength) Valid() bool {
	_, err := ParseSummaryLength(string(l))
	return err == nil && l != ""
}

type RequestState string

const (
	StateIdle      RequestState = "idle"
	StateLoading   RequestState = "loading"
	StateSucceeded RequestState = "succeeded"
	StateFailed    RequestState = "failed"
)

type DocumentInfo struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
	SizeKB   string `json:"size_kb"`
}

// Snapshot is a consistent copy of a controller's state.
type Snapshot struct {
	ID       string        `json:"id,omitempty"`
	State    RequestState  `json:"state"`
	Loading  bool          `json:"loading"`
	Document *DocumentInfo `json:"document,omitempty"`
	Length   SummaryLength `json:"length"`
	Summary  string        `json:"summary"`
	Error    string        `json:"error,omitempty"`
}

// Record statuses. StatusServiceError marks a "summary" whose text is the
// converted description of a remote failure.
const (
	StatusSucceeded    = "succeeded"
	StatusFailed       = "failed"
	StatusServiceError = "service_error"
)

type SummaryRecord struct {
	ID           string     `json:"id" db:"id"`
	SessionID    *string    `json:"session_id,omitempty" db:"session_id"`
	Filename     string     `json:"filename" db:"filename"`
	ContentType  string     `json:"content_type" db:"content_type"`
	FileSize     int64      `json:"file_size" db:"file_size"`
	PageCount    int        `json:"page_count" db:"page_count"`
	Length       string     `json:"length" db:"length"`
	Status       string     `json:"status" db:"status"`
	Summary      *string    `json:"summary,omitempty" db:"summary"`
	ErrorMessage *string    `json:"error,omitempty" db:"error_message"`
	ArchiveKey   *string    `json:"archive_key,omitempty" db:"archive_key"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

type SummarizeRequest struct {
	File        []byte
	Filename    string
	ContentType string
	Length      string
}

type SummaryResponse struct {
	ID       string        `json:"id"`
	Filename string        `json:"filename"`
	Length   SummaryLength `json:"length"`
	State    RequestState  `json:"state"`
	Summary  string        `json:"summary,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type LengthRequest struct {
	Length string `json:"length"`
}
