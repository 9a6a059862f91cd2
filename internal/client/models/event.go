// Package models defines client-side data models for the HerbLock field
// client: collection events, their sync status, and cached collector
// credentials.
package models

import (
	"fmt"
	"time"

	"github.com/herblock/herblock/internal/common"
)

// Status is the single authoritative sync state of a collection event.
// Exactly one status holds at any time; synced and rejected are terminal.
type Status string

const (
	// StatusPending marks an event not yet confirmed by the remote ledger,
	// including events whose submission failed transiently.
	StatusPending Status = "pending"

	// StatusSynced marks an event accepted and geo-validated by the ledger.
	StatusSynced Status = "synced"

	// StatusRejected marks an event the ledger explicitly refused because
	// its coordinates fall outside the approved zone for its species.
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further sync transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusSynced || s == StatusRejected
}

// StatusFilter selects a slice of history in ListByStatus queries.
type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterPending StatusFilter = "pending"
	FilterSynced  StatusFilter = "synced"
)

// CollectionEvent is a single field-recorded herb-gathering observation.
//
// The id is generated on the device at creation time and is never reused;
// id and geolocation are immutable afterwards (a resubmission resends the
// same coordinates). TxID and SyncedAt are non-nil if and only if the
// status is StatusSynced.
type CollectionEvent struct {
	// ID is the client-generated unique identifier (UUIDv4).
	ID string

	// ProductID is the batch/product correlation identifier linking this
	// event to downstream processing records.
	ProductID string

	// Species is the common name from the approved catalog.
	Species string

	// ScientificName is optional and purely informational.
	ScientificName string

	// Lat and Lon are the captured coordinates, with an optional GPS
	// accuracy radius in meters.
	Lat      float64
	Lon      float64
	Accuracy *float64

	// CollectorID identifies the field worker who recorded the event.
	CollectorID string

	// Quantity is a positive amount in Unit (defaults to kg).
	Quantity float64
	Unit     string

	// Notes is free text entered by the collector.
	Notes string

	// Timestamp is the client-clock capture time.
	Timestamp time.Time

	// Status is the sync state; transitions are made exclusively by the
	// sync coordinator.
	Status Status

	// TxID is the remote ledger transaction reference, set on transition
	// to StatusSynced.
	TxID *string

	// CreatedAt is when the row was inserted locally.
	CreatedAt time.Time

	// SyncedAt is when the ledger confirmed the event.
	SyncedAt *time.Time
}

// Validate checks the fields the device can verify before the event is
// accepted for local durability. Geo-fencing is the remote ledger's call,
// not ours.
func (e *CollectionEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: missing id", common.ErrorInternal)
	}
	if _, ok := SpeciesByName(e.Species); !ok {
		return fmt.Errorf("%w: %q", common.ErrorUnknownSpecies, e.Species)
	}
	if e.Quantity <= 0 {
		return fmt.Errorf("%w: %v", common.ErrorInvalidQuantity, e.Quantity)
	}
	if e.Lat < -90 || e.Lat > 90 || e.Lon < -180 || e.Lon > 180 {
		return fmt.Errorf("%w: lat=%v lon=%v", common.ErrorInvalidLocation, e.Lat, e.Lon)
	}
	if e.CollectorID == "" {
		return fmt.Errorf("%w: missing collector id", common.ErrorInternal)
	}
	return nil
}

// SyncStats is a read-only projection recomputed from the event store;
// it is never an independent source of truth.
type SyncStats struct {
	Total       int
	Pending     int
	Synced      int
	Rejected    int
	SyncedToday int
	LastSyncAt  *time.Time
}
