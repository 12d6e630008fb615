// Package daemon assembles and runs the revq scheduler daemon: storage,
// scheduling core, API surface and transports, with graceful shutdown.
package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/revq/revq/common"
	"github.com/revq/revq/internal/api"
	"github.com/revq/revq/internal/server"
	"github.com/revq/revq/internal/storage"
	"github.com/revq/revq/pkg/logger"
	"github.com/revq/revq/pkg/revlib"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Run is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")
)

const (
	databaseFile   = "revq.db"
	checkpointFile = "pretag.checkpoint"
)

// Config holds the daemon configuration.
type Config struct {
	// DataDir is where the database and pretagging checkpoint live.
	// Empty uses REVQ_DATA_DIR, else the user config directory.
	DataDir string

	// TCPPort is the fallback port when the platform transport fails.
	TCPPort int

	// WebPort, when non-zero, serves the HTTP/WebSocket bridge on it.
	WebPort int

	// Scheduler is the scheduling-core configuration.
	Scheduler revlib.Config

	// Build identifies the binary in system.getVersion.
	Build api.BuildInfo

	// AutoPretag starts a pretagging pass at boot in full mode.
	AutoPretag bool
}

// dataDir resolves the configured data directory, creating it if needed.
func (c *Config) dataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		dir = os.Getenv(common.DataDirEnv)
	}
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "revq")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// Runner owns the daemon lifecycle.
type Runner struct {
	cfg *Config
	log logger.Logger

	running bool
}

// New creates a runner. A nil log discards messages.
func New(cfg *Config, log logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Runner{cfg: cfg, log: log}
}

// Run assembles the daemon and blocks until ctx is cancelled or a
// transport fails. It returns nil on a clean shutdown.
func (r *Runner) Run(ctx context.Context) error {
	if r.running {
		return ErrAlreadyRunning
	}
	r.running = true
	defer func() { r.running = false }()

	dir, err := r.cfg.dataDir()
	if err != nil {
		return err
	}
	backend, err := storage.Open(filepath.Join(dir, databaseFile))
	if err != nil {
		return err
	}
	store, err := revlib.NewStore(r.cfg.Scheduler, backend, r.log)
	if err != nil {
		backend.Close()
		return err
	}
	defer store.Close()

	ranker := revlib.NewRanker(store)
	pretagger := revlib.NewPretagger(store, r.log, afero.NewOsFs(), filepath.Join(dir, checkpointFile))
	a := api.NewApi(ctx, r.log, store, ranker, pretagger, r.cfg.Build)
	methods := a.Methods()
	port := r.cfg.TCPPort
	if port == 0 {
		port = common.DefaultTCPPort
	}
	srv := server.NewServer(r.log, methods, port)

	cfg := store.Config()
	if r.cfg.AutoPretag && cfg.PerformanceMode == revlib.ModeFull {
		if err := pretagger.Start(ctx); err != nil {
			r.log.Warning("startup pretagging: %v", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(ctx) })
	if r.cfg.WebPort != 0 {
		web := server.NewWebBridge(r.log, methods, r.cfg.WebPort)
		g.Go(func() error { return web.Serve(ctx) })
	}
	if cfg.RefreshCron != "" && cfg.PerformanceMode == revlib.ModeFull {
		g.Go(func() error {
			runRefreshLoop(ctx, r.log, cfg.RefreshCron, pretagger)
			return nil
		})
	}

	err = g.Wait()
	pretagger.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
