package export

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Jinkieyz/lajfi/config"
	"github.com/Jinkieyz/lajfi/ledger"
	"github.com/Jinkieyz/lajfi/superformula"
)

// ledgerTimeout bounds a single ledger write.
const ledgerTimeout = 5 * time.Second

// Options configures an Exporter.
type Options struct {
	OutputDir string
	Queue     int           // job buffer; values below 1 mean 1
	Timeout   time.Duration // per render; 0 means none
	Ledger    ledger.Store  // optional
	RunID     string
	Logger    *slog.Logger // defaults to slog.Default()
	Now       func() time.Time
}

// OptionsFromConfig maps the export config onto Options.
func OptionsFromConfig(cfg config.ExportConfig) Options {
	return Options{
		OutputDir: cfg.OutputDir,
		Queue:     cfg.Queue,
		Timeout:   time.Duration(cfg.TimeoutSeconds * float64(time.Second)),
	}
}

// Exporter renders descriptors on a single worker goroutine. Submit never
// blocks; a full queue rejects the descriptor.
type Exporter struct {
	renderer Renderer
	opts     Options
	log      *slog.Logger

	jobs chan superformula.ShapeDescriptor
	done chan struct{}

	mu     sync.RWMutex
	closed bool

	completed atomic.Int64
	failed    atomic.Int64
}

// NewExporter starts an exporter worker.
func NewExporter(r Renderer, opts Options) *Exporter {
	if opts.Queue < 1 {
		opts.Queue = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	e := &Exporter{
		renderer: r,
		opts:     opts,
		log:      opts.Logger,
		jobs:     make(chan superformula.ShapeDescriptor, opts.Queue),
		done:     make(chan struct{}),
	}
	go e.run()
	return e
}

// Submit queues desc for rendering. It returns false if the queue is full or
// the exporter is closed.
func (e *Exporter) Submit(desc superformula.ShapeDescriptor) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return false
	}
	select {
	case e.jobs <- desc:
		return true
	default:
		return false
	}
}

// Close stops accepting work, drains the queue and waits for the worker.
func (e *Exporter) Close() {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.jobs)
	}
	e.mu.Unlock()
	<-e.done
}

// Completed returns the number of successful renders.
func (e *Exporter) Completed() int64 { return e.completed.Load() }

// Failed returns the number of failed renders.
func (e *Exporter) Failed() int64 { return e.failed.Load() }

func (e *Exporter) run() {
	defer close(e.done)
	for desc := range e.jobs {
		e.export(desc)
	}
}

func (e *Exporter) export(desc superformula.ShapeDescriptor) {
	ctx := context.Background()
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	path := filepath.Join(e.opts.OutputDir, ArtifactName(desc))
	start := time.Now()
	err := e.renderer.Render(ctx, desc, path)

	rec := ledger.ExportRecord{
		RunID:      e.opts.RunID,
		OrganismID: desc.OrganismID,
		Name:       desc.Name,
		Generation: desc.Generation,
		Tick:       desc.Tick,
		CreatedAt:  e.opts.Now(),
	}
	if err != nil {
		e.failed.Add(1)
		rec.Status = ledger.StatusFailed
		rec.Error = err.Error()
		e.log.Error("export_failed",
			"id", desc.OrganismID,
			"name", desc.Name,
			"generation", desc.Generation,
			"tick", desc.Tick,
			"err", err,
		)
	} else {
		e.completed.Add(1)
		rec.Status = ledger.StatusDone
		rec.Artifact = path
		e.log.Info("export_done",
			"id", desc.OrganismID,
			"name", desc.Name,
			"generation", desc.Generation,
			"tick", desc.Tick,
			"path", path,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}

	if e.opts.Ledger == nil {
		return
	}
	lctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
	defer cancel()
	if err := e.opts.Ledger.RecordExport(lctx, rec); err != nil {
		e.log.Warn("ledger write failed", "tick", desc.Tick, "err", err)
	}
}
