package game

type EventType int

const (
	EventPowerUpSpawned EventType = iota
	EventPowerUpCollected
	EventAbilityUnlocked
	EventEnemyKilled
	EventPlayerHurt
	EventTrapHit
	EventGameOver
	EventReset
)

// Event is a notification for presentation collaborators (tooltips, audio).
type Event struct {
	Type EventType
	X, Y float64
	Data int // PowerUpKind, Ability or damage amount depending on Type.
}

type EventHandler func(Event)

type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
