package repositories

import (
	"context"
	"testing"
	"time"

	"rldguard/internal/models"
)

func TestMemoryOverrideEvents(t *testing.T) {
	repo := NewMemoryOverrideEventRepository()
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, to := range []string{models.OverridePending, models.OverrideApproved, models.OverrideNone} {
		e := &models.OverrideEvent{DealID: "42", ToStatus: to, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
		if e.ID == "" {
			t.Fatalf("expected generated id")
		}
	}
	if err := repo.Create(ctx, &models.OverrideEvent{DealID: "7", ToStatus: models.OverridePending}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.ListByDeal(ctx, "42", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ToStatus != models.OverrideNone || got[1].ToStatus != models.OverrideApproved {
		t.Fatalf("expected newest first, got %+v", got)
	}

	other, _ := repo.ListByDeal(ctx, "7", 0)
	if len(other) != 1 || other[0].CreatedAt.IsZero() {
		t.Fatalf("unexpected events for deal 7: %+v", other)
	}
}
