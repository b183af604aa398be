package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkGenerationRecord BookmarkType = "generation_record"
	BookmarkBabyBoom         BookmarkType = "baby_boom"
	BookmarkDieOff           BookmarkType = "die_off"
	BookmarkFamine           BookmarkType = "famine"
	BookmarkStablePopulation BookmarkType = "stable_population"
)

// generationMilestone is the generation step that triggers a record bookmark.
const generationMilestone = 10

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int64        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	lastMilestone      int // highest generation milestone already reported
	inFamine           bool
	stableWindowsCount int // consecutive windows with a steady population
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable population detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkGenerationRecord(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFamine(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkBabyBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkDieOff(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStablePopulation(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkGenerationRecord(stats WindowStats) *Bookmark {
	milestone := stats.MaxGeneration / generationMilestone * generationMilestone
	if milestone == 0 || milestone <= bd.lastMilestone {
		return nil
	}
	bd.lastMilestone = milestone
	return &Bookmark{
		Type:        BookmarkGenerationRecord,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Lineage reached generation %d", stats.MaxGeneration),
	}
}

func (bd *BookmarkDetector) checkFamine(stats WindowStats) *Bookmark {
	famine := stats.Plants == 0 && stats.Organisms > 0
	defer func() { bd.inFamine = famine }()
	if !famine || bd.inFamine {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFamine,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No plants left for %d organisms", stats.Organisms),
	}
}

func (bd *BookmarkDetector) checkBabyBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalBirths int
	for _, h := range history {
		totalBirths += h.Births
	}
	avgBirths := float64(totalBirths) / float64(len(history))

	if stats.Births >= 3 && float64(stats.Births) > avgBirths*2 {
		return &Bookmark{
			Type:        BookmarkBabyBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births against an average of %.1f", stats.Births, avgBirths),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkDieOff(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	prev := history[len(history)-1]
	if prev.Organisms < 2 || stats.Deaths < prev.Organisms {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkDieOff,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d deaths wiped out a population of %d", stats.Deaths, prev.Organisms),
	}
}

func (bd *BookmarkDetector) checkStablePopulation(stats WindowStats) *Bookmark {
	if stats.Organisms == 0 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	counts := make([]float64, len(recent))
	for i, h := range recent {
		counts[i] = float64(h.Organisms)
	}
	mean, variance := stat.PopMeanVariance(counts, nil)

	// Squared coefficient of variation below 0.04 means CV < 0.2
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population steady around %.1f over 5+ windows", mean),
		}
	}
	return nil
}
