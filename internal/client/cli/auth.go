package cli

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/herblock/herblock/internal/client/api"
	"github.com/herblock/herblock/internal/common"
)

// getSimpleText and getPin are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPin = GetPin

// Login prompts the user for a collector id and PIN and tries to
// authenticate.
//
// The method first attempts an online login, which also refreshes the
// offline credential cache. If the gateway is unavailable
// (errors.Is(err, api.ErrUnavailable)), it falls back to offline login
// against the cached verifier. The resulting connectivity Mode:
//   - ModeOnline if online login succeeds,
//   - ModeOffline if offline login succeeds,
//   - ModeDisabled if both fail.
//
// The PIN is securely wiped before returning. A nil error does not imply
// ModeOnline; inspect App.Mode for the final state.
func (a *App) Login(ctx context.Context) error {
	collectorID, err := getSimpleText(a.reader, "Enter collector id", os.Stdout)
	if err != nil {
		return err
	}

	pin, err := getPin(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	collector, err := a.authService.OnlineLogin(ctx, collectorID, pin)
	if err == nil {
		log.Printf("Login successful, welcome %s", collector.Name)
		a.setCollector(collector)
		a.setMode(ModeOnline)
		go a.coordinator.SyncAll(context.Background())
		return nil
	}

	if !errors.Is(err, api.ErrUnavailable) {
		log.Printf("Login unsuccessful: %s", err.Error())
		return nil
	}

	log.Printf("Gateway unavailable, trying offline login...")
	collector, err = a.authService.OfflineLogin(ctx, collectorID, pin)
	if err != nil {
		log.Printf("Offline login unsuccessful: %s", err.Error())
		a.setCollector(nil)
		a.setMode(ModeDisabled)
		return nil
	}

	log.Printf("Offline login successful, welcome %s", collector.Name)
	a.setCollector(collector)
	a.setMode(ModeOffline)
	return nil
}

// Logout clears locally cached credentials and forgets the in-memory
// collector. Stored collection events are kept.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.ClearOfflineData(ctx); err != nil {
		return err
	}
	a.setCollector(nil)
	return nil
}
