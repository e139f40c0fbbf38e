package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/BerylCAtieno/document-summary-assistant/internal/extractor"
	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
	"github.com/BerylCAtieno/document-summary-assistant/internal/repository"
	"github.com/BerylCAtieno/document-summary-assistant/internal/state"
	"github.com/BerylCAtieno/document-summary-assistant/internal/storage"
	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"
)

const recordTimeout = 15 * time.Second

type SummaryService interface {
	// One-shot summaries
	Summarize(ctx context.Context, req *models.SummarizeRequest) (*models.SummaryResponse, error)
	GetSummary(ctx context.Context, id string) (*models.SummaryRecord, error)
	ListSummaries(ctx context.Context, limit int) ([]models.SummaryRecord, error)
	GetArchivedDocument(ctx context.Context, id string) (*ArchivedDocument, error)

	// Sessions
	CreateSession() models.Snapshot
	GetSession(id string) (models.Snapshot, error)
	DeleteSession(id string) error
	SelectDocument(id string, req *models.SummarizeRequest) (models.Snapshot, error)
	ClearDocument(id string) (models.Snapshot, error)
	SetLength(id string, length string) (models.Snapshot, error)
	Generate(ctx context.Context, id string) (models.Snapshot, error)
	SessionSummary(id string) (string, error)
	SessionHistory(ctx context.Context, id string) ([]models.SummaryRecord, error)
}

type ArchivedDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}

type summaryService struct {
	repo       repository.Repository
	summarizer state.Summarizer
	storage    storage.Storage
	policy     *models.TypePolicy
	logger     *utils.Logger

	mu       sync.RWMutex
	sessions map[string]*state.Controller
}

// NewService wires the summary flow. store may be nil to disable archiving.
func NewService(repo repository.Repository, sum state.Summarizer, store storage.Storage, policy *models.TypePolicy, logger *utils.Logger) SummaryService {
	if policy == nil {
		policy = models.DefaultTypePolicy()
	}
	return &summaryService{
		repo:       repo,
		summarizer: sum,
		storage:    store,
		policy:     policy,
		logger:     logger,
		sessions:   make(map[string]*state.Controller),
	}
}

func (s *summaryService) Summarize(ctx context.Context, req *models.SummarizeRequest) (*models.SummaryResponse, error) {
	length, err := models.ParseSummaryLength(req.Length)
	if err != nil {
		return nil, utils.NewBadRequestError(err.Error())
	}

	var (
		recordID string
		failure  error
	)
	ctrl := state.NewController(s.summarizer, s.policy, s.logger, state.WithCompletionHook(func(o state.Outcome) {
		failure = o.Err
		recordID = s.record(nil, o)
	}))

	doc := models.NewDocumentFromBytes(req.Filename, req.ContentType, req.File)
	if err := ctrl.SelectDocument(doc); err != nil {
		return nil, err
	}
	if err := ctrl.SetLength(length); err != nil {
		return nil, err
	}

	// Like session requests, a one-shot request is not aborted by the caller going away
	snap, err := ctrl.Generate(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}

	return &models.SummaryResponse{
		ID:       recordID,
		Filename: req.Filename,
		Length:   snap.Length,
		State:    snap.State,
		Summary:  snap.Summary,
		Error:    snap.Error,
	}, nil
}

func (s *summaryService) GetSummary(ctx context.Context, id string) (*models.SummaryRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get summary", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve summary")
	}
	if rec == nil {
		return nil, utils.NewNotFoundError("Summary not found")
	}

	return rec, nil
}

func (s *summaryService) ListSummaries(ctx context.Context, limit int) ([]models.SummaryRecord, error) {
	recs, err := s.repo.List(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list summaries", "error", err)
		return nil, utils.NewInternalError("Failed to list summaries")
	}

	return recs, nil
}

func (s *summaryService) GetArchivedDocument(ctx context.Context, id string) (*ArchivedDocument, error) {
	rec, err := s.GetSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.storage == nil || rec.ArchiveKey == nil {
		return nil, utils.NewNotFoundError("Document was not archived")
	}

	data, contentType, err := s.storage.Download(ctx, *rec.ArchiveKey)
	if err != nil {
		s.logger.Error("Failed to download archived document", "error", err, "archive_key", *rec.ArchiveKey)
		return nil, utils.NewInternalError("Failed to retrieve archived document")
	}
	if contentType == "" {
		contentType = rec.ContentType
	}

	return &ArchivedDocument{Filename: rec.Filename, ContentType: contentType, Data: data}, nil
}

// record persists a settled request and returns the new record ID, or ""
// when persisting failed. Archiving and page counting are best effort.
func (s *summaryService) record(sessionID *string, o state.Outcome) string {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	now := time.Now().UTC()
	rec := &models.SummaryRecord{
		ID:          utils.GenerateID(),
		SessionID:   sessionID,
		Filename:    o.Document.Name,
		ContentType: o.Document.MIMEType,
		FileSize:    o.Document.Size,
		Length:      string(o.Length),
		CreatedAt:   now,
		CompletedAt: &now,
	}

	switch {
	case o.Err != nil:
		msg := o.Err.Error()
		rec.Status = models.StatusFailed
		rec.ErrorMessage = &msg
	case o.RemoteErr != nil:
		text := o.Summary
		rec.Status = models.StatusServiceError
		rec.Summary = &text
	default:
		text := o.Summary
		rec.Status = models.StatusSucceeded
		rec.Summary = &text
	}

	data, err := readAll(o.Document)
	if err != nil {
		s.logger.Warn("Could not read document for history", "error", err, "filename", o.Document.Name)
	} else {
		if pages, err := extractor.PageCount(data, o.Document.MIMEType); err != nil {
			s.logger.Warn("Could not count pages", "error", err, "filename", o.Document.Name)
		} else {
			rec.PageCount = pages
		}

		if s.storage != nil {
			key := storage.DocumentKey(rec.ID, o.Document.Name)
			if err := s.storage.Upload(ctx, key, data, o.Document.MIMEType); err != nil {
				s.logger.Error("Failed to archive document", "error", err, "archive_key", key)
			} else {
				rec.ArchiveKey = &key
			}
		}
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error("Failed to save summary record", "error", err, "id", rec.ID)
		if rec.ArchiveKey != nil {
			_ = s.storage.Delete(ctx, *rec.ArchiveKey)
		}
		return ""
	}

	s.logger.Info("Summary recorded",
		"id", rec.ID,
		"status", rec.Status,
		"filename", rec.Filename,
		"page_count", rec.PageCount)

	return rec.ID
}

func readAll(doc *models.Document) ([]byte, error) {
	if b, ok := doc.Source.(models.BytesSource); ok {
		return b, nil
	}
	rc, err := doc.Source.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
