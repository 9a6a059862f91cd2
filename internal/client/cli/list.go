package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/herblock/herblock/internal/client/models"
)

func formatEvent(e *models.CollectionEvent) string {
	line := fmt.Sprintf("%s  %-12s %6.2f %s  (%.4f, %.4f)  %s",
		e.Timestamp.Format("2006-01-02 15:04"), e.Species, e.Quantity, e.Unit, e.Lat, e.Lon, e.Status)
	if e.TxID != nil {
		line += "  tx=" + *e.TxID
	}
	return line
}

// List prints the most recent events, optionally narrowed by a filter
// argument: all (default), pending or synced.
func (a *App) List(ctx context.Context, args []string) error {
	filter := models.FilterAll
	if len(args) > 0 {
		switch args[0] {
		case "pending":
			filter = models.FilterPending
		case "synced":
			filter = models.FilterSynced
		case "all":
		default:
			printlnFn("Usage: list [all|pending|synced]")
			return nil
		}
	}

	events, err := a.coordinator.History(ctx, filter)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	if len(events) == 0 {
		printlnFn("No events")
		return nil
	}
	for _, e := range events {
		printlnFn(formatEvent(e))
	}
	return nil
}

// Sync pushes every pending event to the ledger and reports the tally.
func (a *App) Sync(ctx context.Context) error {
	tally := a.coordinator.SyncAll(ctx)
	printlnFn(fmt.Sprintf("Sync finished: %d synced, %d rejected, %d failed",
		tally.Synced, tally.Rejected, tally.Failed))
	return nil
}

// Status prints the sync counters recomputed from the local store.
func (a *App) Status(ctx context.Context) error {
	s, err := a.coordinator.Stats(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Total: %d  Pending: %d  Synced: %d  Rejected: %d  Synced today: %d",
		s.Total, s.Pending, s.Synced, s.Rejected, s.SyncedToday))
	if s.LastSyncAt != nil {
		printlnFn("Last sync: " + s.LastSyncAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
