package playground

import "github.com/jakecoffman/cp"

// PointerState is one frame of raw pointer input in world coordinates.
type PointerState struct {
	Pos          cp.Vector
	Pressed      bool
	JustPressed  bool
	JustReleased bool
}

// Pointer turns per-frame pointer state into typed events for toys. While
// a drag is live the dragged toy captures move and release regardless of
// where the cursor sits; hover tracking stays independent of the drag.
type Pointer struct {
	world   *World
	hovered *Toy
	dragged *Toy
}

func NewPointer(w *World) *Pointer {
	return &Pointer{world: w}
}

// Dragged returns the toy currently captured by a drag, or nil.
func (p *Pointer) Dragged() *Toy {
	if p == nil {
		return nil
	}
	return p.dragged
}

// Hovered returns the toy currently under the cursor, or nil.
func (p *Pointer) Hovered() *Toy {
	if p == nil {
		return nil
	}
	return p.hovered
}

// Dispatch delivers one frame of pointer input. Call it before stepping the
// world so constraint changes land in the same simulation step.
func (p *Pointer) Dispatch(s PointerState) {
	if p == nil || p.world == nil {
		return
	}

	// drop references to toys destroyed since last frame
	if p.dragged != nil && !p.dragged.Alive() {
		p.dragged = nil
	}
	if p.hovered != nil && !p.hovered.Alive() {
		p.hovered = nil
	}

	if p.dragged != nil {
		p.dragged.HandleEvent(Event{Kind: EventPointerMove, Point: s.Pos})
		if s.JustReleased {
			p.dragged.HandleEvent(Event{Kind: EventPointerUp})
			p.dragged = nil
		}
	}

	hit := p.world.ToyAt(s.Pos)
	if hit != p.hovered {
		if p.hovered != nil {
			p.hovered.HandleEvent(Event{Kind: EventPointerLeave})
		}
		if hit != nil {
			hit.HandleEvent(Event{Kind: EventPointerEnter})
		}
		p.hovered = hit
	}

	if s.JustPressed && p.dragged == nil {
		if grab := p.world.GrabbableToyAt(s.Pos); grab != nil {
			grab.HandleEvent(Event{Kind: EventPointerDown, Point: s.Pos})
			if grab.IsDragging() {
				p.dragged = grab
			}
		}
	}
}
