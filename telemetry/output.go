package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Jinkieyz/lajfi/config"
	"github.com/Jinkieyz/lajfi/ledger"
	"github.com/gocarina/gocsv"
)

// csvTable appends records of one type to a CSV file. The header goes out
// with the first non-empty batch.
type csvTable[T any] struct {
	f      *os.File
	header bool
}

func createTable[T any](dir, name string) (*csvTable[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvTable[T]{f: f}, nil
}

func (t *csvTable[T]) append(rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	var err error
	if t.header {
		err = gocsv.MarshalWithoutHeaders(rows, t.f)
	} else {
		err = gocsv.Marshal(rows, t.f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(t.f.Name()), err)
	}
	t.header = true
	return nil
}

func (t *csvTable[T]) close() error {
	if t == nil {
		return nil
	}
	return t.f.Close()
}

// ExportRow is one ledger export record in exports.csv.
type ExportRow struct {
	Tick       int64  `csv:"tick"`
	OrganismID uint32 `csv:"organism_id"`
	Name       string `csv:"name"`
	Generation int    `csv:"generation"`
	Status     string `csv:"status"`
	Artifact   string `csv:"artifact"`
	Error      string `csv:"error"`
	CreatedAt  string `csv:"created_at"`
}

// RunFiles writes one run's CSV tables and config into a directory:
//
//	telemetry.csv  one WindowStats row per window
//	perf.csv       one row per phase per window
//	census.csv     one row per organism per window
//	bookmarks.csv  notable windows
//	exports.csv    the run's export ledger, written at shutdown
type RunFiles struct {
	dir       string
	telemetry *csvTable[WindowStats]
	perf      *csvTable[PerfRow]
	census    *csvTable[CensusRow]
	bookmarks *csvTable[Bookmark]
	exports   *csvTable[ExportRow]
}

// NewRunFiles creates dir and its CSV files. Returns nil if dir is empty
// (file output disabled); every method is safe on a nil *RunFiles.
func NewRunFiles(dir string) (*RunFiles, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	rf := &RunFiles{dir: dir}
	var err error
	if rf.telemetry, err = createTable[WindowStats](dir, "telemetry.csv"); err != nil {
		return nil, errors.Join(err, rf.Close())
	}
	if rf.perf, err = createTable[PerfRow](dir, "perf.csv"); err != nil {
		return nil, errors.Join(err, rf.Close())
	}
	if rf.census, err = createTable[CensusRow](dir, "census.csv"); err != nil {
		return nil, errors.Join(err, rf.Close())
	}
	if rf.bookmarks, err = createTable[Bookmark](dir, "bookmarks.csv"); err != nil {
		return nil, errors.Join(err, rf.Close())
	}
	if rf.exports, err = createTable[ExportRow](dir, "exports.csv"); err != nil {
		return nil, errors.Join(err, rf.Close())
	}
	return rf, nil
}

// WriteConfig saves the effective configuration as config.yaml.
func (rf *RunFiles) WriteConfig(cfg *config.Config) error {
	if rf == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(rf.dir, "config.yaml"))
}

// WriteWindow appends a closed window's stats, phase timings and census.
func (rf *RunFiles) WriteWindow(stats WindowStats, perf PerfStats, census []CensusRow) error {
	if rf == nil {
		return nil
	}
	return errors.Join(
		rf.telemetry.append([]WindowStats{stats}),
		rf.perf.append(perf.Rows(stats.WindowEndTick)),
		rf.census.append(census),
	)
}

// WriteBookmark appends a bookmark.
func (rf *RunFiles) WriteBookmark(b Bookmark) error {
	if rf == nil {
		return nil
	}
	return rf.bookmarks.append([]Bookmark{b})
}

// WriteExports appends ledger export records.
func (rf *RunFiles) WriteExports(recs []ledger.ExportRecord) error {
	if rf == nil {
		return nil
	}
	rows := make([]ExportRow, len(recs))
	for i, r := range recs {
		rows[i] = ExportRow{
			Tick:       r.Tick,
			OrganismID: r.OrganismID,
			Name:       r.Name,
			Generation: r.Generation,
			Status:     r.Status,
			Artifact:   r.Artifact,
			Error:      r.Error,
			CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return rf.exports.append(rows)
}

// Dir returns the output directory path.
func (rf *RunFiles) Dir() string {
	if rf == nil {
		return ""
	}
	return rf.dir
}

// Close closes every open file.
func (rf *RunFiles) Close() error {
	if rf == nil {
		return nil
	}
	return errors.Join(
		rf.telemetry.close(),
		rf.perf.close(),
		rf.census.close(),
		rf.bookmarks.close(),
		rf.exports.close(),
	)
}
