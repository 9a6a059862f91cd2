package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/herblock/herblock/internal/client/api"
	"github.com/herblock/herblock/internal/client/client"
	"github.com/herblock/herblock/internal/client/models"
	"github.com/herblock/herblock/internal/logging"
)

// Outcome tells the caller where an event ended up after an operation that
// may have talked to the gateway.
type Outcome int

const (
	// OutcomeQueued means the event is durably stored and pending; it will
	// be retried on the next sync.
	OutcomeQueued Outcome = iota

	// OutcomeSynced means the ledger confirmed the event.
	OutcomeSynced

	// OutcomeRejected means the ledger refused the event's coordinates.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSynced:
		return "synced"
	case OutcomeRejected:
		return "rejected"
	default:
		return "queued"
	}
}

// Tally summarizes one SyncAll pass. Failed counts transient failures;
// those events stay pending and are retried next time.
type Tally struct {
	Synced   int
	Rejected int
	Failed   int
}

// Coordinator owns every status transition of collection events. It keeps an
// in-memory snapshot of the pending set, always writes through the event
// repository first, and applies gateway verdicts under a single mutex so
// concurrent CLI commands and the background sync never race.
//
// An event leaves the pending set only on a definitive verdict: confirmed
// (synced) or geo-rejected (rejected). Anything ambiguous keeps it queued.
type Coordinator struct {
	client  api.Client
	repos   *client.Repositories
	watcher *OnlineWatcher
	logger  logging.Logger

	mu      sync.Mutex
	pending []*models.CollectionEvent // creation order, oldest first
}

// NewCoordinator constructs a Coordinator. watcher may be nil; then Enqueue
// never attempts an immediate submission.
func NewCoordinator(c api.Client, repos *client.Repositories, watcher *OnlineWatcher, logger logging.Logger) *Coordinator {
	return &Coordinator{client: c, repos: repos, watcher: watcher, logger: logger}
}

// LoadPending rebuilds the in-memory pending set from the event store.
// Call it once on startup, after InitDatabase.
func (s *Coordinator) LoadPending(ctx context.Context) error {
	events, err := s.repos.Events.GetAllPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pending events: %w", err)
	}

	s.mu.Lock()
	s.pending = events
	s.mu.Unlock()

	s.logger.Debug(ctx, "pending events loaded", "count", len(events))
	return nil
}

// Enqueue validates and durably stores a new event, then, if the gateway
// looked reachable a moment ago, tries to submit it right away. The returned
// Outcome says where the event ended up; a transient submission failure is
// not an error, the event is simply queued.
//
// A non-nil error means the event was NOT stored and must not be considered
// recorded.
func (s *Coordinator) Enqueue(ctx context.Context, e *models.CollectionEvent) (Outcome, error) {
	if err := e.Validate(); err != nil {
		return OutcomeQueued, err
	}
	e.Status = models.StatusPending

	if err := s.repos.Events.Save(ctx, e); err != nil {
		return OutcomeQueued, fmt.Errorf("failed to store event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, e)

	if s.watcher == nil || !s.watcher.Online() {
		return OutcomeQueued, nil
	}
	return s.attempt(ctx, e), nil
}

// SyncOne pushes a single event through one submission attempt. Terminal
// events are left untouched.
func (s *Coordinator) SyncOne(ctx context.Context, e *models.CollectionEvent) (Outcome, error) {
	if e.Status.Terminal() {
		s.logger.Warn(ctx, "event already has a final status, skipping", "id", e.ID, "status", string(e.Status))
		if e.Status == models.StatusSynced {
			return OutcomeSynced, nil
		}
		return OutcomeRejected, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt(ctx, e), nil
}

// SyncAll submits every pending event in creation order. It prefers the
// gateway's batch endpoint and falls back to per-event submission when the
// gateway does not offer one. SyncAll never returns an error: transient
// trouble only shows up in the tally, and the affected events stay pending.
func (s *Coordinator) SyncAll(ctx context.Context) Tally {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return Tally{}
	}

	snapshot := make([]*models.CollectionEvent, len(s.pending))
	copy(snapshot, s.pending)

	results, err := s.client.SubmitBatch(ctx, snapshot)
	if err == nil {
		return s.applyBatch(ctx, snapshot, results)
	}
	if !errors.Is(err, api.ErrBatchUnsupported) {
		s.logger.Warn(ctx, "batch submission failed, events stay pending", "error", err)
		return Tally{Failed: len(snapshot)}
	}

	var tally Tally
	for _, e := range snapshot {
		switch s.attempt(ctx, e) {
		case OutcomeSynced:
			tally.Synced++
		case OutcomeRejected:
			tally.Rejected++
		default:
			tally.Failed++
		}
	}
	s.logger.Info(ctx, "sync finished",
		"synced", tally.Synced, "rejected", tally.Rejected, "failed", tally.Failed)
	return tally
}

// Delete removes one event from the local store regardless of status.
func (s *Coordinator) Delete(ctx context.Context, id string) error {
	if err := s.repos.Events.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.removeFromPending(id)
	s.mu.Unlock()
	return nil
}

// ClearAll wipes the whole local event history, including terminal events.
func (s *Coordinator) ClearAll(ctx context.Context) error {
	if err := s.repos.Events.Clear(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
	return nil
}

// Pending returns a copy of the current pending set in creation order.
func (s *Coordinator) Pending() []*models.CollectionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.CollectionEvent, len(s.pending))
	copy(out, s.pending)
	return out
}

// History returns the most recent events from the store, optionally
// narrowed by filter.
func (s *Coordinator) History(ctx context.Context, filter models.StatusFilter) ([]*models.CollectionEvent, error) {
	return s.repos.Events.ListByStatus(ctx, filter)
}

// Stats recomputes the sync counters from the event store.
func (s *Coordinator) Stats(ctx context.Context) (*models.SyncStats, error) {
	return s.repos.Events.Stats(ctx)
}

// attempt performs one submission and applies the verdict. Caller holds mu.
func (s *Coordinator) attempt(ctx context.Context, e *models.CollectionEvent) Outcome {
	res, err := s.client.Submit(ctx, e)
	if err != nil {
		s.logger.Debug(ctx, "submission failed, event stays pending", "id", e.ID, "error", err)
		return OutcomeQueued
	}
	return s.applyVerdict(ctx, e, res)
}

// applyBatch matches per-item verdicts to the snapshot by event id. Items
// the gateway did not answer for stay pending.
func (s *Coordinator) applyBatch(ctx context.Context, snapshot []*models.CollectionEvent, results []api.BatchItemResult) Tally {
	byID := make(map[string]*api.SubmitResult, len(results))
	for i := range results {
		byID[results[i].ID] = &results[i].SubmitResult
	}

	var tally Tally
	for _, e := range snapshot {
		res, ok := byID[e.ID]
		if !ok {
			tally.Failed++
			continue
		}
		switch s.applyVerdict(ctx, e, res) {
		case OutcomeSynced:
			tally.Synced++
		case OutcomeRejected:
			tally.Rejected++
		default:
			tally.Failed++
		}
	}
	s.logger.Info(ctx, "batch sync finished",
		"synced", tally.Synced, "rejected", tally.Rejected, "failed", tally.Failed)
	return tally
}

// applyVerdict persists a definitive verdict and mirrors it on the in-memory
// event. Caller holds mu.
func (s *Coordinator) applyVerdict(ctx context.Context, e *models.CollectionEvent, res *api.SubmitResult) Outcome {
	switch {
	case !res.GeoValidated:
		found, err := s.repos.Events.UpdateStatus(ctx, e.ID, models.StatusRejected)
		if err != nil || !found {
			s.logger.Error(ctx, "failed to persist rejection, event stays pending", "id", e.ID, "error", err)
			return OutcomeQueued
		}
		e.Status = models.StatusRejected
		s.removeFromPending(e.ID)
		s.logger.Warn(ctx, "event rejected by geo-fence", "id", e.ID)
		return OutcomeRejected

	case res.Success:
		found, err := s.repos.Events.MarkSynced(ctx, e.ID, res.TxID)
		if err != nil || !found {
			s.logger.Error(ctx, "failed to persist confirmation, event stays pending", "id", e.ID, "error", err)
			return OutcomeQueued
		}
		now := time.Now().UTC()
		e.Status = models.StatusSynced
		e.TxID = &res.TxID
		e.SyncedAt = &now
		s.removeFromPending(e.ID)
		s.logger.Info(ctx, "event confirmed", "id", e.ID, "tx", res.TxID)
		return OutcomeSynced

	default:
		// success=false with geo_validated=true carries no usable verdict
		s.logger.Debug(ctx, "ambiguous gateway response, event stays pending", "id", e.ID)
		return OutcomeQueued
	}
}

// removeFromPending drops one id from the pending slice. Caller holds mu.
func (s *Coordinator) removeFromPending(id string) {
	for i, e := range s.pending {
		if e.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}
