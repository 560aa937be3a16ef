package kinematic

import "github.com/go-gl/mathgl/mgl64"

const (
	LANDED EventType = iota
	TAKEOFF_FROM_SLOPE
	TAKEOFF_FROM_LEDGE
	TAKEOFF_FROM_JUMP
)

type EventType uint8

func (t EventType) String() string {
	switch t {
	case LANDED:
		return "landed"
	case TAKEOFF_FROM_SLOPE:
		return "takeoff_from_slope"
	case TAKEOFF_FROM_LEDGE:
		return "takeoff_from_ledge"
	case TAKEOFF_FROM_JUMP:
		return "takeoff_from_jump"
	default:
		return "unknown"
	}
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// LandedEvent fires on the airborne to grounded edge. PlanarVelocity is the
// walking velocity carried over from the fall.
type LandedEvent struct {
	Ground         GroundContact
	PlanarVelocity mgl64.Vec3
}

func (e LandedEvent) Type() EventType { return LANDED }

// TakeoffFromSlopeEvent fires when the ground under a grounded agent became
// too steep to stand on. Surface is that ground.
type TakeoffFromSlopeEvent struct {
	Surface GroundContact
}

func (e TakeoffFromSlopeEvent) Type() EventType { return TAKEOFF_FROM_SLOPE }

// TakeoffFromLedgeEvent fires when a grounded agent finds nothing below it
type TakeoffFromLedgeEvent struct{}

func (e TakeoffFromLedgeEvent) Type() EventType { return TAKEOFF_FROM_LEDGE }

type TakeoffFromJumpEvent struct {
	Ground GroundContact
}

func (e TakeoffFromJumpEvent) Type() EventType { return TAKEOFF_FROM_JUMP }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 4),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// emit buffers an event until the end of the tick
func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
