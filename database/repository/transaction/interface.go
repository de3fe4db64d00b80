package txRepo

import (
	"context"
	"errors"

	"hireloop/models"
)

// ErrNotFound is returned when no transaction matches the lookup.
var ErrNotFound = errors.New("transaction not found")

// TransactionRepository defines data access for the acceptance ledger.
// Records are written once, at acceptance, and read thereafter.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByRequestID(ctx context.Context, requestID string) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Transaction, error)
}
