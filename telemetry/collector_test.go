package telemetry

import "testing"

func TestCollector_FlushCountsAndResets(t *testing.T) {
	c := NewCollector(100)

	c.Record(NewSpawnEvent(1, 1, "BAKO"))
	c.Record(NewBirthEvent(40, 4, "MIRU", 2))
	c.Record(NewBirthEvent(60, 5, "TEVA", 3))
	c.Record(NewDeathEvent(70, 1, "BAKO", 0))
	c.Record(NewMealEvent(80, 2, 9, 25))
	c.Record(NewMatingEvent(40, 1, 2))
	c.Record(NewFightEvent(50, 2, 3))
	c.Record(NewFightEvent(51, 2, 3))
	c.Record(NewKillEvent(52, 2, 3, 21))
	c.Record(NewExportEvent(EventExport, 90, 2, "MIRU"))
	c.Record(NewExportEvent(EventExportSkipped, 95, 2, "MIRU"))
	c.Record(NewExportEvent(EventExportDropped, 99, 2, "MIRU"))

	if c.ShouldFlush(99) {
		t.Error("ShouldFlush(99) = true before window end")
	}
	if !c.ShouldFlush(100) {
		t.Fatal("ShouldFlush(100) = false at window end")
	}

	stats := c.Flush(100, Population{
		Organisms:     2,
		Plants:        5,
		PendingPlants: 3,
		PlantEnergy:   125,
		Energies:      []float64{30, 50},
		Generations:   []float64{1, 3},
	})

	if stats.Spawns != 1 || stats.Births != 2 || stats.Deaths != 1 || stats.Meals != 1 || stats.Matings != 1 {
		t.Errorf("event counts = %+v", stats)
	}
	if stats.Plants != 5 || stats.PlantsPending != 3 {
		t.Errorf("plants = %d live, %d pending", stats.Plants, stats.PlantsPending)
	}
	if stats.Fights != 2 || stats.Kills != 1 {
		t.Errorf("combat counts = %d fights, %d kills", stats.Fights, stats.Kills)
	}
	if stats.Exports != 1 || stats.ExportsSkipped != 1 || stats.ExportsDropped != 1 {
		t.Errorf("export counts = %d/%d/%d", stats.Exports, stats.ExportsSkipped, stats.ExportsDropped)
	}
	if stats.EnergyMean != 40 || stats.MaxGeneration != 3 || stats.GenerationMean != 2 {
		t.Errorf("distribution = mean %v, max gen %d, gen mean %v", stats.EnergyMean, stats.MaxGeneration, stats.GenerationMean)
	}
	if stats.WindowStartTick != 0 || stats.WindowEndTick != 100 {
		t.Errorf("window = [%d,%d]", stats.WindowStartTick, stats.WindowEndTick)
	}

	next := c.Flush(200, Population{})
	if next.Births != 0 || next.Deaths != 0 || next.Kills != 0 || next.WindowStartTick != 100 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollector_MinimumWindow(t *testing.T) {
	c := NewCollector(0)
	if c.WindowTicks() != 1 {
		t.Errorf("WindowTicks = %d, want 1", c.WindowTicks())
	}
}

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		typ  EventType
		want string
	}{
		{EventSpawn, "spawn"},
		{EventBirth, "birth"},
		{EventDeath, "death"},
		{EventMeal, "meal"},
		{EventFight, "fight"},
		{EventKill, "kill"},
		{EventExportDropped, "export_dropped"},
		{EventType(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("EventType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
