// Package catalog provides product lookups keyed by normalized NDC.
package catalog

import (
	"context"
	"errors"

	"github.com/rxreturns/rxreturns/internal/domain"
)

// ErrNotFound is returned when an NDC is absent from the catalog. It is a
// terminal, non-retryable condition: the estimator degrades the line to a
// zero-credit result instead of aborting the batch.
var ErrNotFound = errors.New("product not found")

// Catalog looks up immutable product reference data. Implementations must
// be safe for concurrent use.
type Catalog interface {
	// Lookup returns the product for a normalized NDC, or ErrNotFound.
	Lookup(ctx context.Context, ndc string) (*domain.ProductRecord, error)

	// Search returns up to limit products whose NDC or names match the
	// query, ordered by NDC.
	Search(ctx context.Context, query string, limit int) ([]domain.ProductRecord, error)
}
