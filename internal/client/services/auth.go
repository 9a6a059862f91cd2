// Package services contains application services for the HerbLock field
// client. This file defines the authentication service: online login against
// the gateway, offline login against a locally cached verifier, and
// housekeeping of the credential cache.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/herblock/herblock/internal/client/api"
	"github.com/herblock/herblock/internal/client/client"
	"github.com/herblock/herblock/internal/client/models"
	"github.com/herblock/herblock/internal/client/repositories/credentials"
	"github.com/herblock/herblock/internal/common"
	"github.com/herblock/herblock/internal/cryptox"
	"github.com/herblock/herblock/internal/dbx"
)

// CredentialTTL bounds how long a cached credential keeps working without a
// fresh online login. Past it, offline login behaves as if nothing was
// cached, forcing the collector back online.
const CredentialTTL = 30 * 24 * time.Hour

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - OnlineLogin: authenticate against the gateway and refresh the local
//     credential cache so the same PIN keeps working offline.
//   - OfflineLogin: verify the PIN against the cached verifier; never
//     touches the network.
//   - Ping: check gateway liveness.
//   - Close: release underlying client resources.
//   - ClearOfflineData: wipe the cached credentials (e.g. on logout).
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	OnlineLogin(ctx context.Context, collectorID string, pin []byte) (*models.Collector, error)
	OfflineLogin(ctx context.Context, collectorID string, pin []byte) (*models.Collector, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	ClearOfflineData(ctx context.Context) error
}

// authService is the concrete AuthService backed by the remote gateway
// client and the local credential repository.
type authService struct {
	client api.Client
	repos  *client.Repositories
}

// NewAuthService constructs an AuthService bound to the given API client
// and repositories.
func NewAuthService(c api.Client, repos *client.Repositories) AuthService {
	return &authService{client: c, repos: repos}
}

// OnlineLogin exchanges the collector id and PIN for a gateway session and,
// on success, refreshes the offline credential cache in one transaction.
// A PIN the gateway refused is never cached.
func (a *authService) OnlineLogin(ctx context.Context, collectorID string, pin []byte) (*models.Collector, error) {
	session, err := a.client.Login(ctx, collectorID, pin)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	salt := common.GenerateRandByteArray(32)
	key := cryptox.DerivePinKey(pin, salt)
	verifier := cryptox.MakeVerifier(key)

	cred := &models.Credential{
		CollectorID: session.Collector.ID,
		Salt:        salt,
		Verifier:    verifier,
		Name:        session.Collector.Name,
		Region:      session.Collector.Region,
	}
	err = dbx.WithTx(ctx, a.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return credentials.NewSQLiteRepository(tx).Cache(ctx, cred)
	})
	if err != nil {
		return nil, fmt.Errorf("offline data saving error: %w", err)
	}

	collector := session.Collector
	return &collector, nil
}

// OfflineLogin derives a key from (PIN, cached salt) and verifies it against
// the cached verifier. If nothing usable is cached, or the cached credential
// is older than CredentialTTL, it returns api.ErrLocalDataNotAvailable; a
// wrong PIN returns common.ErrorUnauthorized. The gateway's api.ErrUnauthorized
// is reserved for remote refusals.
func (a *authService) OfflineLogin(ctx context.Context, collectorID string, pin []byte) (*models.Collector, error) {
	cred, err := a.repos.Credentials.Lookup(ctx, collectorID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, api.ErrLocalDataNotAvailable
		}
		return nil, fmt.Errorf("credential lookup error: %w", err)
	}

	if time.Since(cred.LastLogin) > CredentialTTL {
		return nil, api.ErrLocalDataNotAvailable
	}

	key := cryptox.DerivePinKey(pin, cred.Salt)
	if !cryptox.VerifierMatches(cred.Verifier, cryptox.MakeVerifier(key)) {
		return nil, common.ErrorUnauthorized
	}

	return &models.Collector{ID: cred.CollectorID, Name: cred.Name, Region: cred.Region}, nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// ClearOfflineData wipes the cached credentials.
func (a *authService) ClearOfflineData(ctx context.Context) error {
	return a.repos.Credentials.Clear(ctx)
}
