package components

// Stage is an organism's lifecycle state.
type Stage uint8

const (
	StageJuvenile Stage = iota
	StageAdult
	StageDead
)

func (s Stage) String() string {
	switch s {
	case StageJuvenile:
		return "juvenile"
	case StageAdult:
		return "adult"
	case StageDead:
		return "dead"
	}
	return "unknown"
}

// Vitals tracks an organism's mutable phenotype state.
type Vitals struct {
	Energy       float64 // never negative
	Age          int64   // ticks alive
	Alive        bool
	MateCooldown int     // ticks until the organism may mate again
	Moved        float64 // distance covered during the current tick
}

// Stage derives the lifecycle state from age and the alive flag.
func (v Vitals) Stage(maturityAge int) Stage {
	if !v.Alive {
		return StageDead
	}
	if v.Age >= int64(maturityAge) {
		return StageAdult
	}
	return StageJuvenile
}

// Identity bundles naming and lineage. Parents are ids, not references;
// 0 marks a founder.
type Identity struct {
	ID         uint32
	Name       string
	Generation int
	ParentA    uint32
	ParentB    uint32
	BirthTick  int64
}
