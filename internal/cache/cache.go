package cache

import (
	"context"
	"strings"
	"time"

	"backoffice/internal/domain/models"
)

// CreditNoteCache keeps the available credit notes per supplier between requests.
type CreditNoteCache interface {
	Get(ctx context.Context, supplier string) ([]models.CreditNote, bool, error)
	Set(ctx context.Context, supplier string, notes []models.CreditNote, ttl time.Duration) error
	Invalidate(ctx context.Context, suppliers ...string) error
}

type NoopCreditNoteCache struct{}

func (NoopCreditNoteCache) Get(_ context.Context, _ string) ([]models.CreditNote, bool, error) {
	return nil, false, nil
}

func (NoopCreditNoteCache) Set(_ context.Context, _ string, _ []models.CreditNote, _ time.Duration) error {
	return nil
}

func (NoopCreditNoteCache) Invalidate(_ context.Context, _ ...string) error {
	return nil
}

// SupplierKey normalizes the supplier name the same way credit-note lookups match it.
func SupplierKey(supplier string) string {
	return "credit_notes:available:" + strings.ToLower(strings.TrimSpace(supplier))
}
