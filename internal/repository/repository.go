package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
	"github.com/jmoiron/sqlx"
)

const maxListLimit = 100

type Repository interface {
	Create(ctx context.Context, rec *models.SummaryRecord) error
	GetByID(ctx context.Context, id string) (*models.SummaryRecord, error)
	List(ctx context.Context, limit int) ([]models.SummaryRecord, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.SummaryRecord, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const summaryColumns = `id, session_id, filename, content_type, file_size, page_count, length,
	status, summary, error_message, archive_key, created_at, completed_at`

func (r *repository) Create(ctx context.Context, rec *models.SummaryRecord) error {
	query := `
		INSERT INTO summaries (` + summaryColumns + `)
		VALUES (:id, :session_id, :filename, :content_type, :file_size, :page_count, :length,
			:status, :summary, :error_message, :archive_key, :created_at, :completed_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, rec)
	return err
}

// GetByID returns nil, nil when no record exists.
func (r *repository) GetByID(ctx context.Context, id string) (*models.SummaryRecord, error) {
	var rec models.SummaryRecord

	query := `SELECT ` + summaryColumns + ` FROM summaries WHERE id = ?`

	err := r.db.GetContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *repository) List(ctx context.Context, limit int) ([]models.SummaryRecord, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	recs := []models.SummaryRecord{}
	query := `SELECT ` + summaryColumns + ` FROM summaries ORDER BY created_at DESC, id LIMIT ?`
	if err := r.db.SelectContext(ctx, &recs, query, limit); err != nil {
		return nil, err
	}

	return recs, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID string) ([]models.SummaryRecord, error) {
	recs := []models.SummaryRecord{}
	query := `SELECT ` + summaryColumns + ` FROM summaries WHERE session_id = ? ORDER BY created_at DESC, id`
	if err := r.db.SelectContext(ctx, &recs, query, sessionID); err != nil {
		return nil, err
	}

	return recs, nil
}
