package credentials

import (
	"context"

	"github.com/herblock/herblock/internal/client/models"
)

// Repository stores the per-collector offline login material. One row per
// collector id; every successful online login replaces it.
type Repository interface {
	// Cache upserts the credential and stamps its LastLogin.
	Cache(ctx context.Context, c *models.Credential) error

	// Lookup returns the cached credential for a collector, or
	// common.ErrorNotFound if none was cached on this device.
	Lookup(ctx context.Context, collectorID string) (*models.Credential, error)

	// Clear removes all cached credentials.
	Clear(ctx context.Context) error
}
