package events

import (
	"context"

	"github.com/herblock/herblock/internal/client/models"
)

// Repository describes the durable store of collection events. Every write
// path of the client goes through here before anything touches the network,
// so an event that Save accepted survives crashes and restarts.
type Repository interface {
	// Save appends a new event. The id must be unique; saving an id that
	// already exists fails with common.ErrorAlreadyExists.
	Save(ctx context.Context, e *models.CollectionEvent) error

	// ListByStatus returns the most recent events first, optionally
	// narrowed to a status, capped at 100 rows.
	ListByStatus(ctx context.Context, filter models.StatusFilter) ([]*models.CollectionEvent, error)

	// GetAllPending returns every pending event in creation order
	// (oldest first), uncapped. This is the sync queue.
	GetAllPending(ctx context.Context) ([]*models.CollectionEvent, error)

	// UpdateStatus sets the status of one event. The bool reports whether
	// a row with that id existed.
	UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error)

	// MarkSynced transitions one event to synced, recording the ledger
	// transaction id and confirmation time.
	MarkSynced(ctx context.Context, id string, txID string) (bool, error)

	// DeleteByID removes one event. Deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id string) error

	// Clear removes all events.
	Clear(ctx context.Context) error

	// Stats recomputes the sync counters from the stored rows.
	Stats(ctx context.Context) (*models.SyncStats, error)
}
