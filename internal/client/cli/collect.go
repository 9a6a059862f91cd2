package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/herblock/herblock/internal/client/models"
	"github.com/herblock/herblock/internal/client/services"
	"github.com/herblock/herblock/internal/common"
)

// newProductID derives the batch correlation id: the uppercased species
// prefix plus the capture time in unix milliseconds.
func newProductID(species string, ts time.Time) string {
	prefix := strings.ToUpper(species)
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return fmt.Sprintf("%s-%d", prefix, ts.UnixMilli())
}

// Collect interactively records a new collection event: species from the
// approved catalog, GPS coordinates, quantity and optional notes. The event
// is durably stored before any network activity; the printed outcome tells
// the collector whether it was confirmed right away or queued for later.
func (a *App) Collect(ctx context.Context) error {
	collector := a.currentCollector()
	if collector == nil {
		printlnFn("Please login first")
		return nil
	}

	catalog := models.SpeciesCatalog()
	options := make([]string, len(catalog))
	for i, s := range catalog {
		options[i] = fmt.Sprintf("%s (%s)", s.Name, s.ScientificName)
	}
	idx, err := GetChoice(a.reader, "Select species:", options, os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	species := catalog[idx]

	lat, err := GetFloat(a.reader, "Enter latitude", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	lon, err := GetFloat(a.reader, "Enter longitude", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	quantity, err := GetFloat(a.reader, "Enter quantity (kg)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	notes, err := getSimpleText(a.reader, "Notes (optional)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	now := time.Now().UTC()
	event := &models.CollectionEvent{
		ID:             uuid.NewString(),
		ProductID:      newProductID(species.Name, now),
		Species:        species.Name,
		ScientificName: species.ScientificName,
		Lat:            lat,
		Lon:            lon,
		CollectorID:    collector.ID,
		Quantity:       quantity,
		Unit:           common.DefaultQuantityUnit,
		Notes:          notes,
		Timestamp:      now,
	}

	outcome, err := a.coordinator.Enqueue(ctx, event)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	switch outcome {
	case services.OutcomeSynced:
		printlnFn("Recorded and confirmed on the ledger, tx " + deref(event.TxID))
	case services.OutcomeRejected:
		printlnFn("Recorded, but rejected: coordinates outside the approved zone for " + species.Name)
	default:
		printlnFn("Recorded locally, will sync when the gateway is reachable")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
