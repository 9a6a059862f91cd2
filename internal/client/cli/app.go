package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/herblock/herblock/internal/client/api"
	"github.com/herblock/herblock/internal/client/client"
	"github.com/herblock/herblock/internal/client/config"
	"github.com/herblock/herblock/internal/client/models"
	"github.com/herblock/herblock/internal/client/services"
	"github.com/herblock/herblock/internal/logging"

	_ "modernc.org/sqlite"
)

// Mode is the client's connectivity state as shown to the user.
type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// App wires the services behind the interactive CLI and holds the
// per-session state: the logged-in collector and the connectivity mode.
// Both are read by the reachability watcher goroutine, so they live
// under mu and are accessed through the accessors below.
type App struct {
	config      *config.Config
	authService services.AuthService
	coordinator *services.Coordinator
	watcher     *services.OnlineWatcher
	logger      logging.Logger

	mu        sync.Mutex
	collector *models.Collector
	mode      Mode

	reader *bufio.Reader
}

// NewApp builds the full client: local database, gateway client,
// reachability watcher and sync coordinator.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.NewSlogLogger(slog.Default())

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.ServerEndpointAddr)

	a := &App{
		config: c,
		logger: logger,
		mode:   ModeOffline,
		reader: bufio.NewReader(os.Stdin),
	}
	a.watcher = services.NewOnlineWatcher(apiClient, c.OnlineCheckInterval, logger, a.onReachabilityChange)
	a.authService = services.NewAuthService(apiClient, repos)
	a.coordinator = services.NewCoordinator(apiClient, repos, a.watcher, logger)

	return a, nil
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		printlnFn("Switched to " + string(mode) + " mode")
	}
}

func (a *App) setCollector(c *models.Collector) {
	a.mu.Lock()
	a.collector = c
	a.mu.Unlock()
}

func (a *App) currentCollector() *models.Collector {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.collector
}

func (a *App) isLoggedIn() bool {
	return a.currentCollector() != nil
}

// onReachabilityChange flips the visible mode and, when connectivity comes
// back mid-session, drains the pending queue in the background.
func (a *App) onReachabilityChange(online bool) {
	if a.Mode() == ModeDisabled {
		return
	}
	if !online {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
	if a.isLoggedIn() {
		go a.coordinator.SyncAll(context.Background())
	}
}

// Run starts the reachability watcher, restores the pending queue from the
// local store and enters the interactive loop. It blocks until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.authService.Close(ctx)

	if err := a.coordinator.LoadPending(ctx); err != nil {
		return err
	}

	go a.watcher.Run(ctx)

	_ = a.Login(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
	return nil
}

func (a *App) getStatus() string {
	s := ""
	if c := a.currentCollector(); c != nil {
		s = c.ID + " "
	}
	s += string(a.Mode())
	return "(" + s + ")"
}
