package telemetry

import "testing"

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(7, 100, 2, 40)

	lt.RecordMeal(7, 25)
	lt.RecordMeal(7, 30)
	lt.RecordChild(7)
	lt.RecordKill(7, 14)
	lt.UpdateEnergy(7, 95)
	lt.UpdateEnergy(7, 60)

	// Unknown ids are ignored.
	lt.RecordMeal(99, 10)
	lt.RecordChild(99)
	lt.RecordKill(99, 5)

	s := lt.Get(7)
	if s == nil {
		t.Fatal("stats not registered")
	}
	if s.Meals != 3 || s.Kills != 1 || s.EnergyEaten != 69 || s.Children != 1 || s.PeakEnergy != 95 {
		t.Errorf("stats = %+v", s)
	}
	if s.Lifespan(350) != 250 {
		t.Errorf("Lifespan = %d, want 250", s.Lifespan(350))
	}

	if removed := lt.Remove(7); removed != s {
		t.Error("Remove returned different stats")
	}
	if lt.Count() != 0 || lt.Get(7) != nil {
		t.Error("stats still tracked after Remove")
	}
}
