package vm

// EventType enum type.
type EventType int

// EventType values.
const (
	_ EventType = iota
	EventSpawn
	EventDeath
	EventFault
	EventEliminated
	EventBattleOver
)

func (et EventType) String() string {
	switch et {
	case EventSpawn:
		return "Spawn"
	case EventDeath:
		return "Death"
	case EventFault:
		return "Fault"
	case EventEliminated:
		return "Eliminated"
	case EventBattleOver:
		return "Battle Over"
	default:
		return "Unknown"
	}
}

// Event describes one thing that happened during a battle. Viewers and
// loggers subscribe through Battle.Trace; the core never blocks on them.
type Event struct {
	Type    EventType
	Round   int
	Warrior string
	PC      int
	Message string
}

func (b *Battle) emit(et EventType, warrior string, pc int, msg string) {
	if b.Trace == nil {
		return
	}
	b.Trace(Event{Type: et, Round: b.round, Warrior: warrior, PC: pc, Message: msg})
}
