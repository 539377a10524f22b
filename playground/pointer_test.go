package playground

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestPointerHoverTransitions(t *testing.T) {
	w := newTestWorld()
	toy := mustToy(t, w, ballConfig(cp.Vector{X: 320, Y: 240}))
	ptr := NewPointer(w)

	ptr.Dispatch(PointerState{Pos: cp.Vector{X: 50, Y: 50}})
	if ptr.Hovered() != nil {
		t.Fatalf("hovered over empty space")
	}

	ptr.Dispatch(PointerState{Pos: cp.Vector{X: 320, Y: 240}})
	if ptr.Hovered() != toy {
		t.Fatalf("toy under cursor not hovered")
	}
	if toy.ActiveImageIndex() != 1 {
		t.Fatalf("image index = %d, want hover", toy.ActiveImageIndex())
	}

	// staying on the toy keeps the state without re-entering
	ptr.Dispatch(PointerState{Pos: cp.Vector{X: 325, Y: 240}})
	if ptr.Hovered() != toy || toy.ActiveImageIndex() != 1 {
		t.Fatalf("hover lost while cursor stayed on the toy")
	}

	ptr.Dispatch(PointerState{Pos: cp.Vector{X: 50, Y: 50}})
	if ptr.Hovered() != nil {
		t.Fatalf("hover survived leaving the toy")
	}
	if toy.ActiveImageIndex() != 0 {
		t.Fatalf("image index = %d, want default after leave", toy.ActiveImageIndex())
	}
}

func TestPointerDragCapture(t *testing.T) {
	w := newTestWorld()
	toy := mustToy(t, w, ballConfig(cp.Vector{X: 320, Y: 240}))
	ptr := NewPointer(w)

	press := cp.Vector{X: 320, Y: 240}
	ptr.Dispatch(PointerState{Pos: press, Pressed: true, JustPressed: true})
	if ptr.Dragged() != toy {
		t.Fatalf("press on toy did not capture it")
	}
	if n := countConstraints(w.Space()); n != 1 {
		t.Fatalf("constraints = %d, want 1", n)
	}

	// moving far off the toy keeps the capture and retargets the drag
	away := cp.Vector{X: 40, Y: 400}
	ptr.Dispatch(PointerState{Pos: away, Pressed: true})
	if ptr.Dragged() != toy {
		t.Fatalf("capture lost while button held")
	}
	if got := toy.Drag().Target(); got != away {
		t.Fatalf("drag target = %v, want %v", got, away)
	}

	ptr.Dispatch(PointerState{Pos: away, JustReleased: true})
	if ptr.Dragged() != nil {
		t.Fatalf("capture survived release")
	}
	if n := countConstraints(w.Space()); n != 0 {
		t.Fatalf("constraints after release = %d, want 0", n)
	}
}

func TestPointerPressMisses(t *testing.T) {
	w := newTestWorld()
	mustToy(t, w, ballConfig(cp.Vector{X: 320, Y: 240}))

	propCfg := ToyConfig{
		Name:     "shelf",
		Factory:  BoxFactory{Width: 80, Height: 10},
		Images:   [2]string{"toy/shelf", "toy/shelf#hover"},
		Position: cp.Vector{X: 100, Y: 400},
		Static:   true,
	}
	prop := mustToy(t, w, propCfg)
	ptr := NewPointer(w)

	// empty space
	ptr.Dispatch(PointerState{Pos: cp.Vector{X: 550, Y: 100}, Pressed: true, JustPressed: true})
	if ptr.Dragged() != nil {
		t.Fatalf("press on empty space captured %v", ptr.Dragged())
	}

	// static props hover but never grab
	ptr.Dispatch(PointerState{Pos: cp.Vector{X: 100, Y: 400}, Pressed: true, JustPressed: true})
	if ptr.Hovered() != prop {
		t.Fatalf("prop under cursor not hovered")
	}
	if ptr.Dragged() != nil {
		t.Fatalf("static prop was captured")
	}
	if n := countConstraints(w.Space()); n != 0 {
		t.Fatalf("constraints = %d, want 0", n)
	}
}

func TestPointerHoverTracksWhileDragging(t *testing.T) {
	w := newTestWorld()
	a := mustToy(t, w, ballConfig(cp.Vector{X: 150, Y: 240}))
	b := mustToy(t, w, ballConfig(cp.Vector{X: 450, Y: 240}))
	ptr := NewPointer(w)

	ptr.Dispatch(PointerState{Pos: cp.Vector{X: 150, Y: 240}, Pressed: true, JustPressed: true})
	if ptr.Dragged() != a {
		t.Fatalf("first toy not captured")
	}

	// cursor crosses the second toy mid-drag
	ptr.Dispatch(PointerState{Pos: cp.Vector{X: 450, Y: 240}, Pressed: true})
	if ptr.Dragged() != a {
		t.Fatalf("drag jumped to the hovered toy")
	}
	if ptr.Hovered() != b {
		t.Fatalf("hover did not follow the cursor during a drag")
	}
	if a.ActiveImageIndex() != 0 {
		t.Fatalf("dragged toy still shows hover image off-cursor")
	}
	if b.ActiveImageIndex() != 1 {
		t.Fatalf("toy under cursor not showing hover image")
	}

	// pressing again while captured must not steal the drag
	ptr.Dispatch(PointerState{Pos: cp.Vector{X: 450, Y: 240}, Pressed: true, JustPressed: true})
	if ptr.Dragged() != a {
		t.Fatalf("second press stole the capture")
	}
	if b.IsDragging() {
		t.Fatalf("hovered toy started a drag while another was captured")
	}
}

func TestPointerDropsDestroyedToys(t *testing.T) {
	w := newTestWorld()
	toy := mustToy(t, w, ballConfig(cp.Vector{X: 320, Y: 240}))
	ptr := NewPointer(w)

	ptr.Dispatch(PointerState{Pos: cp.Vector{X: 320, Y: 240}, Pressed: true, JustPressed: true})
	if ptr.Dragged() != toy || ptr.Hovered() != toy {
		t.Fatalf("toy not captured and hovered")
	}

	toy.Destroy()
	ptr.Dispatch(PointerState{Pos: cp.Vector{X: 320, Y: 240}, Pressed: true})
	if ptr.Dragged() != nil {
		t.Fatalf("destroyed toy still captured")
	}
	if ptr.Hovered() != nil {
		t.Fatalf("destroyed toy still hovered")
	}
}
