package playground

import "github.com/jakecoffman/cp"

// EventKind identifies a pointer event delivered to a toy.
type EventKind int

const (
	EventPointerEnter EventKind = iota
	EventPointerLeave
	EventPointerDown
	EventPointerUp
	EventPointerMove
)

func (k EventKind) String() string {
	switch k {
	case EventPointerEnter:
		return "pointer_enter"
	case EventPointerLeave:
		return "pointer_leave"
	case EventPointerDown:
		return "pointer_down"
	case EventPointerUp:
		return "pointer_up"
	case EventPointerMove:
		return "pointer_move"
	}
	return "unknown"
}

// Event is a typed pointer message. Point carries world coordinates and is
// meaningful for down and move events only.
type Event struct {
	Kind  EventKind
	Point cp.Vector
}
