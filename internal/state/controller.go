// Package state holds the per-session application state: the selected
// document, the chosen length and the outcome of the last generate action.
package state

import (
	"context"
	"strings"
	"sync"

	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"
)

const (
	NoFileMessage         = "Please upload a file first."
	BusyMessage           = "A summary is already being generated."
	UnexpectedFailureText = "An unexpected error occurred."
)

// Summarizer is the part of the summary client the controller needs.
type Summarizer interface {
	GenerateSummary(ctx context.Context, doc *models.Document, length models.SummaryLength) (string, error)
}

// FailureReporter is implemented by summarizers that can tell when the text
// they return stands in for a failed remote call.
type FailureReporter interface {
	GenerateSummaryDetail(ctx context.Context, doc *models.Document, length models.SummaryLength) (text string, remoteErr error, err error)
}

// Outcome describes a request that reached a terminal state. RemoteErr is
// set when Summary is the displayable text of a failed remote call.
type Outcome struct {
	Document  *models.Document
	Length    models.SummaryLength
	Summary   string
	RemoteErr error
	Err       error
}

// Controller sequences selection, length choice and generation for one
// session. The remote call runs without the lock held.
type Controller struct {
	summarizer Summarizer
	policy     *models.TypePolicy
	logger     *utils.Logger
	onComplete func(Outcome)

	mu      sync.Mutex
	doc     *models.Document
	length  models.SummaryLength
	state   models.RequestState
	loading bool
	summary string
	errMsg  string

	// generation invalidates the outstanding request when bumped.
	generation uint64
	cancel     context.CancelFunc
}

type Option func(*Controller)

// WithCompletionHook registers fn to run after each request settles, outside the lock.
func WithCompletionHook(fn func(Outcome)) Option {
	return func(c *Controller) { c.onComplete = fn }
}

func NewController(summarizer Summarizer, policy *models.TypePolicy, logger *utils.Logger, opts ...Option) *Controller {
	if policy == nil {
		policy = models.DefaultTypePolicy()
	}
	c := &Controller{
		summarizer: summarizer,
		policy:     policy,
		logger:     logger,
		length:     models.DefaultLength,
		state:      models.StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectDocument replaces the held document. Prior result and error stay
// until the next generate or clear. A nil doc clears.
func (c *Controller) SelectDocument(doc *models.Document) error {
	if doc == nil {
		c.ClearDocument()
		return nil
	}
	if !c.policy.Allows(doc.MIMEType) {
		c.logger.Warn("Rejected document type", "filename", doc.Name, "content_type", doc.MIMEType)
		return utils.NewValidationError("Invalid file type. Please upload one of: " + c.policy.String())
	}

	c.mu.Lock()
	c.doc = doc
	c.mu.Unlock()

	c.logger.Info("Document selected", "filename", doc.Name, "content_type", doc.MIMEType, "size", doc.Size)
	return nil
}

// ClearDocument returns to idle immediately. An outstanding request is
// cancelled and its late result discarded.
func (c *Controller) ClearDocument() {
	c.mu.Lock()
	c.doc = nil
	c.summary = ""
	c.errMsg = ""
	c.loading = false
	c.state = models.StateIdle
	c.generation++
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (c *Controller) SetLength(length models.SummaryLength) error {
	parsed, err := models.ParseSummaryLength(string(length))
	if err != nil || length == "" {
		return utils.NewValidationError("Invalid summary length. Please choose short, medium or long.")
	}

	c.mu.Lock()
	c.length = parsed
	c.mu.Unlock()
	return nil
}

// Generate runs one summary request and blocks until it settles. The
// returned error is non-nil only when the action is rejected up front; a
// failed request is reported through the snapshot.
func (c *Controller) Generate(ctx context.Context) (models.Snapshot, error) {
	c.mu.Lock()
	if c.doc == nil {
		c.errMsg = NoFileMessage
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, utils.NewValidationError(NoFileMessage)
	}
	if c.loading {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, utils.NewConflictError(BusyMessage)
	}

	reqCtx, cancel := context.WithCancel(ctx)
	c.generation++
	gen := c.generation
	c.cancel = cancel
	c.errMsg = ""
	c.summary = ""
	c.loading = true
	c.state = models.StateLoading
	doc, length := c.doc, c.length
	c.mu.Unlock()

	c.logger.Info("Generating summary", "filename", doc.Name, "length", length)
	var (
		text      string
		remoteErr error
		err       error
	)
	if r, ok := c.summarizer.(FailureReporter); ok {
		text, remoteErr, err = r.GenerateSummaryDetail(reqCtx, doc, length)
	} else {
		text, err = c.summarizer.GenerateSummary(reqCtx, doc, length)
	}
	cancel()

	c.mu.Lock()
	if c.generation != gen {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Info("Discarded result of cleared request", "filename", doc.Name)
		return snap, nil
	}

	c.loading = false
	c.cancel = nil
	if err != nil {
		c.summary = ""
		c.errMsg = failureMessage(err)
		c.state = models.StateFailed
	} else {
		c.summary = text
		c.errMsg = ""
		c.state = models.StateSucceeded
	}
	snap := c.snapshotLocked()
	hook := c.onComplete
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("Summary generation failed", "filename", doc.Name, "error", err)
	} else {
		c.logger.Info("Summary generated", "filename", doc.Name, "summary_length", len(text))
	}

	if hook != nil {
		hook(Outcome{Document: doc, Length: length, Summary: text, RemoteErr: remoteErr, Err: err})
	}
	return snap, nil
}

func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		State:   c.state,
		Loading: c.loading,
		Length:  c.length,
		Summary: c.summary,
		Error:   c.errMsg,
	}
	if c.doc != nil {
		snap.Document = &models.DocumentInfo{
			Name:     c.doc.Name,
			MIMEType: c.doc.MIMEType,
			Size:     c.doc.Size,
			SizeKB:   c.doc.SizeKB(),
		}
	}
	return snap
}

func failureMessage(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return UnexpectedFailureText
}
