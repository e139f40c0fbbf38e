package services

import (
	"context"

	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
	"github.com/BerylCAtieno/document-summary-assistant/internal/state"
	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"
)

func (s *summaryService) CreateSession() models.Snapshot {
	id := utils.GenerateID()
	sessionID := id

	ctrl := state.NewController(s.summarizer, s.policy, s.logger.With("session_id", id),
		state.WithCompletionHook(func(o state.Outcome) {
			s.record(&sessionID, o)
		}))

	s.mu.Lock()
	s.sessions[id] = ctrl
	s.mu.Unlock()

	s.logger.Info("Session created", "session_id", id)

	snap := ctrl.Snapshot()
	snap.ID = id
	return snap
}

func (s *summaryService) session(id string) (*state.Controller, error) {
	s.mu.RLock()
	ctrl, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, utils.NewNotFoundError("Session not found")
	}
	return ctrl, nil
}

func withID(id string, snap models.Snapshot) models.Snapshot {
	snap.ID = id
	return snap
}

func (s *summaryService) GetSession(id string) (models.Snapshot, error) {
	ctrl, err := s.session(id)
	if err != nil {
		return models.Snapshot{}, err
	}
	return withID(id, ctrl.Snapshot()), nil
}

func (s *summaryService) DeleteSession(id string) error {
	s.mu.Lock()
	ctrl, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return utils.NewNotFoundError("Session not found")
	}
	ctrl.ClearDocument()
	s.logger.Info("Session deleted", "session_id", id)
	return nil
}

func (s *summaryService) SelectDocument(id string, req *models.SummarizeRequest) (models.Snapshot, error) {
	ctrl, err := s.session(id)
	if err != nil {
		return models.Snapshot{}, err
	}

	doc := models.NewDocumentFromBytes(req.Filename, req.ContentType, req.File)
	if err := ctrl.SelectDocument(doc); err != nil {
		return withID(id, ctrl.Snapshot()), err
	}
	return withID(id, ctrl.Snapshot()), nil
}

func (s *summaryService) ClearDocument(id string) (models.Snapshot, error) {
	ctrl, err := s.session(id)
	if err != nil {
		return models.Snapshot{}, err
	}
	ctrl.ClearDocument()
	return withID(id, ctrl.Snapshot()), nil
}

func (s *summaryService) SetLength(id string, length string) (models.Snapshot, error) {
	ctrl, err := s.session(id)
	if err != nil {
		return models.Snapshot{}, err
	}
	if err := ctrl.SetLength(models.SummaryLength(length)); err != nil {
		return withID(id, ctrl.Snapshot()), err
	}
	return withID(id, ctrl.Snapshot()), nil
}

// Generate detaches from the caller's cancellation: once issued, a request
// runs to completion unless the session clears its document.
func (s *summaryService) Generate(ctx context.Context, id string) (models.Snapshot, error) {
	ctrl, err := s.session(id)
	if err != nil {
		return models.Snapshot{}, err
	}
	snap, err := ctrl.Generate(context.WithoutCancel(ctx))
	return withID(id, snap), err
}

func (s *summaryService) SessionSummary(id string) (string, error) {
	ctrl, err := s.session(id)
	if err != nil {
		return "", err
	}
	snap := ctrl.Snapshot()
	if snap.Summary == "" {
		return "", utils.NewNotFoundError("No summary available")
	}
	return snap.Summary, nil
}

func (s *summaryService) SessionHistory(ctx context.Context, id string) ([]models.SummaryRecord, error) {
	if _, err := s.session(id); err != nil {
		return nil, err
	}
	recs, err := s.repo.ListBySession(ctx, id)
	if err != nil {
		s.logger.Error("Failed to list session history", "error", err, "session_id", id)
		return nil, utils.NewInternalError("Failed to list session history")
	}
	return recs, nil
}
