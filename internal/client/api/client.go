// Package api implements the client side of the remote ledger gateway
// contract: collector authentication and collection-event submission with
// strict error classification. The gateway itself (geo-fence evaluation,
// ledger consensus) is a black box to this package.
package api

import (
	"context"

	"github.com/herblock/herblock/internal/client/models"
)

// SubmitResult is the gateway's per-event verdict.
//
// GeoValidated=false on a successful response is the one and only signal
// that may terminate an event as rejected. Everything ambiguous is an
// ErrUnavailable error instead, never a result.
type SubmitResult struct {
	Success      bool   `json:"success"`
	GeoValidated bool   `json:"geo_validated"`
	TxID         string `json:"txId"`
}

// BatchItemResult pairs a verdict with the event id it belongs to.
type BatchItemResult struct {
	ID string `json:"id"`
	SubmitResult
}

// Session is the result of a successful online login.
type Session struct {
	Token     string
	Collector models.Collector
}

// Client defines the remote operations the field client depends on.
//
// Contract:
//   - Login: exchange collector id + PIN for a session token and profile.
//   - Submit: one event in, one verdict out; transient trouble is an error.
//   - SubmitBatch: bulk variant with identical per-item semantics; returns
//     ErrBatchUnsupported when the gateway has no batch endpoint.
//   - Ping: cheap liveness probe for the reachability watcher.
//
// All methods must honor context cancellation/timeouts.
type Client interface {
	Login(ctx context.Context, collectorID string, pin []byte) (*Session, error)
	Submit(ctx context.Context, event *models.CollectionEvent) (*SubmitResult, error)
	SubmitBatch(ctx context.Context, events []*models.CollectionEvent) ([]BatchItemResult, error)
	Ping(ctx context.Context) error
	Close() error
}
