package repositories

import (
	"context"
	"sort"
	"sync"

	"rldguard/internal/models"
)

// MemoryOverrideEventRepository keeps the audit log in process; used when no
// database is configured.
type MemoryOverrideEventRepository struct {
	mu     sync.Mutex
	events map[string][]models.OverrideEvent
}

func NewMemoryOverrideEventRepository() *MemoryOverrideEventRepository {
	return &MemoryOverrideEventRepository{events: make(map[string][]models.OverrideEvent)}
}

func (r *MemoryOverrideEventRepository) Create(_ context.Context, e *models.OverrideEvent) error {
	prepareEvent(e)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[e.DealID] = append(r.events[e.DealID], *e)
	return nil
}

func (r *MemoryOverrideEventRepository) ListByDeal(_ context.Context, dealID string, limit int) ([]models.OverrideEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	r.mu.Lock()
	out := append([]models.OverrideEvent(nil), r.events[dealID]...)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
