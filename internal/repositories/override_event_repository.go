package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rldguard/internal/models"
)

var ErrAuditTableMissing = errors.New("override_events table missing; run migrations")

// OverrideEventRepository is the append-only audit log of override changes.
type OverrideEventRepository interface {
	Create(ctx context.Context, e *models.OverrideEvent) error
	ListByDeal(ctx context.Context, dealID string, limit int) ([]models.OverrideEvent, error)
}

type overrideEventRepository struct {
	db *sql.DB
}

func NewOverrideEventRepository(db *sql.DB) OverrideEventRepository {
	return &overrideEventRepository{db: db}
}

func (r *overrideEventRepository) Create(ctx context.Context, e *models.OverrideEvent) error {
	prepareEvent(e)
	query := `
        INSERT INTO override_events (id, deal_id, from_status, to_status, actor, reason, close_date, rld, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.DealID, e.FromStatus, e.ToStatus, e.Actor, e.Reason, e.CloseDate, e.RLD, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("запись события override: %w", mapPQError(err))
	}
	return nil
}

func (r *overrideEventRepository) ListByDeal(ctx context.Context, dealID string, limit int) ([]models.OverrideEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, deal_id, from_status, to_status, actor, reason, close_date, rld, created_at
	          FROM override_events
	          WHERE deal_id = $1
	          ORDER BY created_at DESC
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, dealID, limit)
	if err != nil {
		return nil, fmt.Errorf("чтение событий override: %w", mapPQError(err))
	}
	defer rows.Close()

	var events []models.OverrideEvent
	for rows.Next() {
		var e models.OverrideEvent
		if err := rows.Scan(&e.ID, &e.DealID, &e.FromStatus, &e.ToStatus, &e.Actor, &e.Reason, &e.CloseDate, &e.RLD, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
		return ErrAuditTableMissing
	}
	return err
}

func prepareEvent(e *models.OverrideEvent) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
}
