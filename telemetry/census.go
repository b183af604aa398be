package telemetry

import "github.com/Jinkieyz/lajfi/genetics"

// CensusRow is one organism as it stood at the end of a stats window.
type CensusRow struct {
	WindowEnd  int64   `csv:"window_end"`
	ID         uint32  `csv:"id"`
	Name       string  `csv:"name"`
	Generation int     `csv:"generation"`
	Age        int64   `csv:"age"`
	Energy     float64 `csv:"energy"`
	Levels     int     `csv:"levels"`
	Children   int     `csv:"children"`
	Speed      float64 `csv:"speed"`
	Scale      float64 `csv:"scale"`
	Aggression float64 `csv:"aggression"`
	Meals      int     `csv:"meals"`
	Kills      int     `csv:"kills"`
	Offspring  int     `csv:"offspring"`
}

// NewCensusRow fills the genome columns from g and the history columns from
// ls, which may be nil.
func NewCensusRow(windowEnd int64, id uint32, name string, generation int, age int64, energy float64, g genetics.Genome, ls *LifetimeStats) CensusRow {
	row := CensusRow{
		WindowEnd:  windowEnd,
		ID:         id,
		Name:       name,
		Generation: generation,
		Age:        age,
		Energy:     energy,
		Levels:     g.Levels,
		Children:   g.Children,
		Speed:      g.Speed,
		Scale:      g.Scale,
		Aggression: g.Aggression,
	}
	if ls != nil {
		row.Meals = ls.Meals
		row.Kills = ls.Kills
		row.Offspring = ls.Children
	}
	return row
}
