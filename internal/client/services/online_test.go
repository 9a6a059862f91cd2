package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herblock/herblock/internal/client/api"
)

func TestCheck_TogglesFlagAndFiresCallback(t *testing.T) {
	ctx := context.Background()
	f := newFakeClient()

	var transitions []bool
	w := NewOnlineWatcher(f, time.Minute, testLogger(), func(online bool) {
		transitions = append(transitions, online)
	})

	assert.False(t, w.Online()) // starts offline

	assert.True(t, w.Check(ctx))
	assert.True(t, w.Online())

	// repeated probe with no change fires no callback
	assert.True(t, w.Check(ctx))

	f.PingErr = api.ErrUnavailable
	assert.False(t, w.Check(ctx))
	assert.False(t, w.Online())

	assert.Equal(t, []bool{true, false}, transitions)
}

func TestRun_ProbesUntilCancelled(t *testing.T) {
	f := newFakeClient()
	w := NewOnlineWatcher(f, 10*time.Millisecond, testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, w.Online, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}
