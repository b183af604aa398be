// Package telemetry provides population tracking, bookmarking, and snapshots.
package telemetry

import "log/slog"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventBirth
	EventDeath
	EventMeal
	EventMating
	EventFight
	EventKill
	EventExport
	EventExportSkipped
	EventExportDropped
)

var eventNames = [...]string{
	EventSpawn:         "spawn",
	EventBirth:         "birth",
	EventDeath:         "death",
	EventMeal:          "meal",
	EventMating:        "mating",
	EventFight:         "fight",
	EventKill:          "kill",
	EventExport:        "export_submitted",
	EventExportSkipped: "export_skipped",
	EventExportDropped: "export_dropped",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int64
	EntityID uint32
	Name     string

	// Optional fields depending on event type
	TargetID uint32  // second parent for births and matings, plant for meals, prey for fights
	Amount   float64 // energy gained (meal, kill) or held (death)
}

// NewSpawnEvent creates a founder spawn event.
func NewSpawnEvent(tick int64, id uint32, name string) Event {
	return Event{Type: EventSpawn, Tick: tick, EntityID: id, Name: name}
}

// NewBirthEvent creates a birth event. The second parent is stored in TargetID.
func NewBirthEvent(tick int64, childID uint32, name string, parentB uint32) Event {
	return Event{
		Type:     EventBirth,
		Tick:     tick,
		EntityID: childID,
		Name:     name,
		TargetID: parentB,
	}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int64, id uint32, name string, energy float64) Event {
	return Event{Type: EventDeath, Tick: tick, EntityID: id, Name: name, Amount: energy}
}

// NewMealEvent creates a feeding event.
func NewMealEvent(tick int64, id, plantID uint32, amount float64) Event {
	return Event{Type: EventMeal, Tick: tick, EntityID: id, TargetID: plantID, Amount: amount}
}

// NewMatingEvent creates a mating event between two parents.
func NewMatingEvent(tick int64, a, b uint32) Event {
	return Event{Type: EventMating, Tick: tick, EntityID: a, TargetID: b}
}

// NewFightEvent creates an event for an attack the prey survived.
func NewFightEvent(tick int64, attacker, prey uint32) Event {
	return Event{Type: EventFight, Tick: tick, EntityID: attacker, TargetID: prey}
}

// NewKillEvent creates an event for an attack that killed the prey.
func NewKillEvent(tick int64, attacker, prey uint32, gained float64) Event {
	return Event{Type: EventKill, Tick: tick, EntityID: attacker, TargetID: prey, Amount: gained}
}

// NewExportEvent creates an export event of the given type for the champion.
func NewExportEvent(t EventType, tick int64, id uint32, name string) Event {
	return Event{Type: t, Tick: tick, EntityID: id, Name: name}
}

// Level returns the log level the event is reported at.
func (e Event) Level() slog.Level {
	switch e.Type {
	case EventMeal, EventMating, EventFight:
		return slog.LevelDebug
	case EventExportSkipped, EventExportDropped:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// LogValue implements slog.LogValuer for structured logging.
func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("tick", e.Tick),
		slog.Any("id", e.EntityID),
	}
	if e.Name != "" {
		attrs = append(attrs, slog.String("name", e.Name))
	}
	if e.TargetID != 0 {
		attrs = append(attrs, slog.Any("target", e.TargetID))
	}
	if e.Amount != 0 {
		attrs = append(attrs, slog.Float64("amount", e.Amount))
	}
	return slog.GroupValue(attrs...)
}
