package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herblock/herblock/internal/client/api"
	"github.com/herblock/herblock/internal/client/models"
	"github.com/herblock/herblock/internal/common"
)

func TestOnlineLogin_CachesCredentialForOfflineUse(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	f := newFakeClient()
	f.LoginSession = &api.Session{
		Token:     "tok",
		Collector: models.Collector{ID: "COL-001", Name: "Asha", Region: "Madhya Pradesh"},
	}
	a := NewAuthService(f, repos)

	col, err := a.OnlineLogin(ctx, "COL-001", []byte("4921"))
	require.NoError(t, err)
	assert.Equal(t, "Asha", col.Name)

	// the same PIN now works with the gateway gone
	col, err = a.OfflineLogin(ctx, "COL-001", []byte("4921"))
	require.NoError(t, err)
	assert.Equal(t, "COL-001", col.ID)
	assert.Equal(t, "Madhya Pradesh", col.Region)
}

func TestOnlineLogin_BadPinIsNotCached(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	f := newFakeClient()
	f.LoginErr = api.ErrUnauthorized
	a := NewAuthService(f, repos)

	_, err := a.OnlineLogin(ctx, "COL-001", []byte("0000"))
	require.ErrorIs(t, err, api.ErrUnauthorized)

	_, err = a.OfflineLogin(ctx, "COL-001", []byte("0000"))
	require.ErrorIs(t, err, api.ErrLocalDataNotAvailable)
}

func TestOfflineLogin_WrongPin(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	f := newFakeClient()
	f.LoginSession = &api.Session{
		Token:     "tok",
		Collector: models.Collector{ID: "COL-001", Name: "Asha", Region: "MP"},
	}
	a := NewAuthService(f, repos)

	_, err := a.OnlineLogin(ctx, "COL-001", []byte("4921"))
	require.NoError(t, err)

	_, err = a.OfflineLogin(ctx, "COL-001", []byte("1234"))
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	require.NotErrorIs(t, err, api.ErrUnavailable)
}

func TestOfflineLogin_NothingCached(t *testing.T) {
	repos := setupRepos(t)
	a := NewAuthService(newFakeClient(), repos)

	_, err := a.OfflineLogin(context.Background(), "COL-404", []byte("4921"))
	require.ErrorIs(t, err, api.ErrLocalDataNotAvailable)
}

func TestOfflineLogin_ExpiredCredential(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	f := newFakeClient()
	f.LoginSession = &api.Session{
		Token:     "tok",
		Collector: models.Collector{ID: "COL-001", Name: "Asha", Region: "MP"},
	}
	a := NewAuthService(f, repos)

	_, err := a.OnlineLogin(ctx, "COL-001", []byte("4921"))
	require.NoError(t, err)

	// age the cached row past the TTL
	stale := time.Now().UTC().Add(-CredentialTTL - time.Hour).Format(time.RFC3339)
	_, err = repos.DB.Exec(`UPDATE credentials SET last_login=?`, stale)
	require.NoError(t, err)

	_, err = a.OfflineLogin(ctx, "COL-001", []byte("4921"))
	require.ErrorIs(t, err, api.ErrLocalDataNotAvailable)
}

func TestClearOfflineData(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	f := newFakeClient()
	f.LoginSession = &api.Session{
		Token:     "tok",
		Collector: models.Collector{ID: "COL-001"},
	}
	a := NewAuthService(f, repos)

	_, err := a.OnlineLogin(ctx, "COL-001", []byte("4921"))
	require.NoError(t, err)

	require.NoError(t, a.ClearOfflineData(ctx))

	_, err = a.OfflineLogin(ctx, "COL-001", []byte("4921"))
	require.ErrorIs(t, err, api.ErrLocalDataNotAvailable)
}
