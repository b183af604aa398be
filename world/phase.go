package world

import "slices"

// Phase is one stage of a tick.
type Phase uint8

// Phases run in this order every tick.
const (
	PhaseMovement Phase = iota
	PhaseFeeding
	PhaseMetabolism
	PhaseReproduction
	PhaseCleanup
	PhaseReplenish
	PhaseExport

	numPhases
)

var phaseNames = [numPhases]string{
	PhaseMovement:     "movement",
	PhaseFeeding:      "feeding",
	PhaseMetabolism:   "metabolism",
	PhaseReproduction: "reproduction",
	PhaseCleanup:      "cleanup",
	PhaseReplenish:    "replenish",
	PhaseExport:       "export",
}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// PhaseNames returns every phase name in execution order.
func PhaseNames() []string {
	return slices.Clone(phaseNames[:])
}

// PhaseObserver is called before each phase runs.
type PhaseObserver func(tick int64, p Phase)
