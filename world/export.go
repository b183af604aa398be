package world

import (
	"log/slog"
	"time"

	"github.com/Jinkieyz/lajfi/telemetry"
)

// exportDue reports whether the export trigger fires this tick.
func (w *World) exportDue() bool {
	ec := w.cfg.Export
	if ec.IntervalTicks > 0 && w.tick%int64(ec.IntervalTicks) == 0 {
		return true
	}
	if ec.IntervalSeconds > 0 {
		interval := time.Duration(ec.IntervalSeconds * float64(time.Second))
		return w.clock().Sub(w.lastExport) >= interval
	}
	return false
}

// exportChampion hands the champion's shape to the sink. It draws nothing
// from the rng and leaves organisms untouched.
func (w *World) exportChampion() {
	if w.sink == nil || !w.exportDue() {
		return
	}
	now := w.clock()
	w.lastExport = now

	champ, ok := w.Champion()
	if !ok {
		return
	}

	desc := w.shape(champ.Genome, w.cfg.Export.Resolution)
	desc.OrganismID = champ.ID
	desc.Name = champ.Name
	desc.Generation = champ.Generation
	desc.Tick = w.tick
	desc.Timestamp = now

	if err := desc.Validate(); err != nil {
		w.emit(telemetry.NewExportEvent(telemetry.EventExportSkipped, w.tick, champ.ID, champ.Name),
			slog.String("reason", err.Error()),
		)
		return
	}
	if !w.sink.Submit(desc.Clone()) {
		w.emit(telemetry.NewExportEvent(telemetry.EventExportDropped, w.tick, champ.ID, champ.Name))
		return
	}
	w.emit(telemetry.NewExportEvent(telemetry.EventExport, w.tick, champ.ID, champ.Name),
		slog.Int("generation", champ.Generation),
		slog.Float64("energy", champ.Vitals.Energy),
	)
}
