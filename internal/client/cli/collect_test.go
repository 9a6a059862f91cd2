package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/herblock/herblock/internal/client/api"
	"github.com/herblock/herblock/internal/client/models"
)

func scriptReader(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestCollect_OfflineQueuesEvent(t *testing.T) {
	silencePrintln(t)

	gw := &fakeGateway{}
	a, repos := newTestApp(t, gw, false)
	a.collector = &models.Collector{ID: "COL-001", Name: "Asha"}

	// species 1 (Ashwagandha), lat, lon, quantity, notes
	a.reader = scriptReader("1", "22.7196", "75.8577", "2.5", "morning harvest")

	ctx := context.Background()
	if err := a.Collect(ctx); err != nil {
		t.Fatalf("Collect err: %v", err)
	}

	pending, err := repos.Events.GetAllPending(ctx)
	if err != nil {
		t.Fatalf("GetAllPending err: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	e := pending[0]
	if _, err := uuid.Parse(e.ID); err != nil {
		t.Fatalf("event id %q is not a UUID: %v", e.ID, err)
	}
	if !strings.HasPrefix(e.ProductID, "ASHW-") {
		t.Fatalf("product id = %q, want ASHW- prefix", e.ProductID)
	}
	if e.Species != "Ashwagandha" || e.ScientificName != "Withania somnifera" {
		t.Fatalf("species = %q (%q)", e.Species, e.ScientificName)
	}
	if e.CollectorID != "COL-001" || e.Unit != "kg" || e.Quantity != 2.5 {
		t.Fatalf("unexpected event fields: %+v", e)
	}
	if e.Notes != "morning harvest" {
		t.Fatalf("notes = %q", e.Notes)
	}
	if gw.submitCalls != 0 {
		t.Fatalf("offline collect must not touch the gateway, got %d calls", gw.submitCalls)
	}
}

func TestCollect_OnlineConfirmsImmediately(t *testing.T) {
	lines := silencePrintln(t)

	gw := &fakeGateway{submitResult: &api.SubmitResult{Success: true, GeoValidated: true, TxID: "tx-007"}}
	a, repos := newTestApp(t, gw, true)
	a.collector = &models.Collector{ID: "COL-001"}
	a.reader = scriptReader("2", "26.9", "75.8", "1.0", "")

	ctx := context.Background()
	if err := a.Collect(ctx); err != nil {
		t.Fatalf("Collect err: %v", err)
	}

	synced, err := repos.Events.ListByStatus(ctx, models.FilterSynced)
	if err != nil {
		t.Fatalf("ListByStatus err: %v", err)
	}
	if len(synced) != 1 || synced[0].TxID == nil || *synced[0].TxID != "tx-007" {
		t.Fatalf("expected one synced event with tx-007, got %+v", synced)
	}
	if synced[0].Species != "Tulsi" {
		t.Fatalf("species = %q, want Tulsi", synced[0].Species)
	}

	confirmed := false
	for _, l := range *lines {
		if strings.Contains(l, "tx-007") {
			confirmed = true
		}
	}
	if !confirmed {
		t.Fatalf("expected a confirmation line naming the tx, got %v", *lines)
	}
}

func TestCollect_GeoRejectedIsReported(t *testing.T) {
	lines := silencePrintln(t)

	gw := &fakeGateway{submitResult: &api.SubmitResult{Success: false, GeoValidated: false}}
	a, repos := newTestApp(t, gw, true)
	a.collector = &models.Collector{ID: "COL-001"}
	a.reader = scriptReader("1", "48.85", "2.35", "3.0", "paris is not an approved zone")

	ctx := context.Background()
	if err := a.Collect(ctx); err != nil {
		t.Fatalf("Collect err: %v", err)
	}

	s, err := repos.Events.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats err: %v", err)
	}
	if s.Rejected != 1 || s.Pending != 0 {
		t.Fatalf("stats = %+v, want one rejected", s)
	}

	reported := false
	for _, l := range *lines {
		if strings.Contains(l, "rejected") {
			reported = true
		}
	}
	if !reported {
		t.Fatalf("expected a rejection line, got %v", *lines)
	}
}

func TestCollect_InvalidSelection(t *testing.T) {
	silencePrintln(t)

	a, repos := newTestApp(t, &fakeGateway{}, false)
	a.collector = &models.Collector{ID: "COL-001"}
	a.reader = scriptReader("42")

	if err := a.Collect(context.Background()); err == nil {
		t.Fatal("expected an error for an out-of-range selection")
	}

	s, err := repos.Events.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats err: %v", err)
	}
	if s.Total != 0 {
		t.Fatalf("nothing should be stored, got %+v", s)
	}
}

func TestCollect_NotLoggedIn(t *testing.T) {
	lines := silencePrintln(t)

	a, repos := newTestApp(t, &fakeGateway{}, false)
	a.reader = scriptReader("1", "22.7", "75.8", "2.5", "should never be read")

	if err := a.Collect(context.Background()); err != nil {
		t.Fatalf("Collect err: %v", err)
	}

	prompted := false
	for _, l := range *lines {
		if strings.Contains(l, "Please login first") {
			prompted = true
		}
	}
	if !prompted {
		t.Fatalf("expected a login prompt, got %v", *lines)
	}

	s, err := repos.Events.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats err: %v", err)
	}
	if s.Total != 0 {
		t.Fatalf("nothing should be stored, got %+v", s)
	}
}

func TestNewProductID(t *testing.T) {
	now := time.Now().UTC()
	if got := newProductID("Ashwagandha", now); !strings.HasPrefix(got, "ASHW-") {
		t.Fatalf("product id = %q", got)
	}
	if got := newProductID("Tulsi", now); !strings.HasPrefix(got, "TULS-") {
		t.Fatalf("product id = %q", got)
	}
}
