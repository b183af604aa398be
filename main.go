package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jinkieyz/lajfi/config"
	"github.com/Jinkieyz/lajfi/export"
	"github.com/Jinkieyz/lajfi/ledger"
	"github.com/Jinkieyz/lajfi/telemetry"
	"github.com/Jinkieyz/lajfi/world"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = until interrupted)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	realtime := flag.Bool("realtime", false, "Sleep world.tick_seconds between ticks")
	ledgerKind := flag.String("ledger", "", "Ledger backend: memory or sqlite (empty = use config)")
	replay := flag.String("replay", "", "Re-run a recorded run ID with its stored seed and config")
	compareSnapshot := flag.String("compare-snapshot", "", "Snapshot file to compare against the final world state")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()
	if *ledgerKind != "" {
		cfg.Ledger.Backend = *ledgerKind
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		slog.Error("unusable output directory", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise ledger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := ledger.CloseIfSupported(store); err != nil {
			slog.Warn("failed to close ledger", "error", err)
		}
	}()

	// Set up seed
	rngSeed := *seed
	if *replay != "" {
		cfg, rngSeed, err = loadReplay(ctx, store, *replay, cfg)
		if err != nil {
			slog.Error("failed to load replay", "run_id", *replay, "error", err)
			os.Exit(1)
		}
		if *seed != 0 && *seed != rngSeed {
			slog.Warn("ignoring --seed for replay", "seed", *seed, "replay_seed", rngSeed)
		}
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	runID, err := recordRun(ctx, store, cfg, rngSeed)
	if err != nil {
		slog.Error("failed to record run", "error", err)
		os.Exit(1)
	}

	files, err := telemetry.NewRunFiles(*outputDir)
	if err != nil {
		slog.Error("failed to create run files", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := files.Close(); err != nil {
			slog.Warn("failed to close run files", "error", err)
		}
	}()
	if err := files.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config", "error", err)
	}

	exportOpts := export.OptionsFromConfig(cfg.Export)
	exportOpts.Ledger = store
	exportOpts.RunID = runID
	exportOpts.Logger = logger
	exporter := export.NewExporter(export.NewSTLRenderer(), exportOpts)

	var w *world.World
	w, err = world.New(cfg, world.Options{
		Seed:   rngSeed,
		Sink:   exporter,
		Logger: logger,
		OnWindow: func(win world.Window) {
			handleWindow(w, win, files, *logStats, *snapshotDir)
		},
	})
	if err != nil {
		exporter.Close()
		slog.Error("failed to create world", "error", err)
		os.Exit(1)
	}

	slog.Info("simulation_start",
		"run_id", runID,
		"replay_of", *replay,
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"realtime", *realtime,
		"output_dir", cfg.Export.OutputDir,
	)

	run(ctx, w, *maxTicks, *realtime, cfg.World.TickSeconds)

	// Drain pending exports before the ledger closes
	exporter.Close()

	final := w.Snapshot()
	if *snapshotDir != "" {
		if path, err := telemetry.SaveSnapshot(final, *snapshotDir); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		} else {
			slog.Info("snapshot saved", "path", path)
		}
	}
	if *compareSnapshot != "" {
		if err := compareWithSnapshot(final, *compareSnapshot); err != nil {
			slog.Error("snapshot mismatch", "path", *compareSnapshot, "error", err)
		} else {
			slog.Info("snapshot_match", "path", *compareSnapshot, "tick", final.Tick)
		}
	}

	// Use a fresh context: the run context is cancelled on interrupt.
	recs, err := store.ListExports(context.Background(), runID)
	if err != nil {
		slog.Warn("failed to list exports", "error", err)
	}
	if err := files.WriteExports(recs); err != nil {
		slog.Warn("failed to write exports", "error", err)
	}
	done, failed := ledger.Tally(recs)

	slog.Info("simulation_stop",
		"run_id", runID,
		"tick", w.Tick(),
		"organisms", w.Count(),
		"exports", done,
		"export_failures", failed,
	)
}

// run steps the world until ctx is cancelled or maxTicks is reached.
func run(ctx context.Context, w *world.World, maxTicks int64, realtime bool, tickSeconds float64) {
	var ticker *time.Ticker
	if realtime && tickSeconds > 0 {
		ticker = time.NewTicker(time.Duration(tickSeconds * float64(time.Second)))
		defer ticker.Stop()
	}

	for {
		if maxTicks > 0 && w.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", w.Tick())
			return
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				slog.Info("interrupted", "tick", w.Tick())
				return
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			slog.Info("interrupted", "tick", w.Tick())
			return
		}

		w.Step()
	}
}

// openStore initialises the configured ledger backend.
func openStore(ctx context.Context, cfg *config.Config) (ledger.Store, error) {
	store, err := ledger.NewStore(cfg.Ledger.Backend, cfg.LedgerPath())
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, errors.Join(err, ledger.CloseIfSupported(store))
	}
	return store, nil
}

// recordRun saves this run's seed and effective config and returns its ID.
func recordRun(ctx context.Context, store ledger.Store, cfg *config.Config, seed int64) (string, error) {
	yamlText, err := cfg.YAML()
	if err != nil {
		return "", err
	}
	run := ledger.Run{
		ID:         ledger.NewRunID(),
		Seed:       seed,
		ConfigYAML: string(yamlText),
		StartedAt:  time.Now().UTC(),
	}
	if err := store.SaveRun(ctx, run); err != nil {
		return "", err
	}
	return run.ID, nil
}

// loadReplay returns the config and seed a recorded run used. The ledger and
// export sections of current are kept so the replay writes where this
// invocation points.
func loadReplay(ctx context.Context, store ledger.Store, runID string, current *config.Config) (*config.Config, int64, error) {
	run, ok, err := store.GetRun(ctx, runID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, fmt.Errorf("run %q not found in ledger", runID)
	}
	cfg, err := config.Parse([]byte(run.ConfigYAML))
	if err != nil {
		return nil, 0, fmt.Errorf("run %q: %w", runID, err)
	}
	cfg.Ledger = current.Ledger
	cfg.Export = current.Export
	if err := cfg.Validate(); err != nil {
		return nil, 0, fmt.Errorf("run %q: %w", runID, err)
	}
	return cfg, run.Seed, nil
}

// compareWithSnapshot reports where snap differs from the snapshot at path.
func compareWithSnapshot(snap *telemetry.Snapshot, path string) error {
	want, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if d := snap.Divergence(want); d != "" {
		return errors.New(d)
	}
	return nil
}

// handleWindow logs and persists one closed telemetry window.
func handleWindow(w *world.World, win world.Window, files *telemetry.RunFiles, logStats bool, snapshotDir string) {
	if logStats {
		win.Stats.LogStats()
		win.Perf.LogStats()
	}

	for _, bm := range win.Bookmarks {
		bm.LogBookmark()
		if err := files.WriteBookmark(bm); err != nil {
			slog.Warn("failed to write bookmark", "error", err)
		}
		if snapshotDir != "" {
			if _, err := telemetry.SaveSnapshot(w.BookmarkSnapshot(bm), snapshotDir); err != nil {
				slog.Warn("failed to save bookmark snapshot", "error", err)
			}
		}
	}

	if err := files.WriteWindow(win.Stats, win.Perf, win.Census); err != nil {
		slog.Warn("failed to write window", "error", err)
	}
}
