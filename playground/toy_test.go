package playground

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/jakecoffman/cp"
)

type recordingVisual struct {
	images []string
	scales []float64
}

func (v *recordingVisual) SetImage(id string) { v.images = append(v.images, id) }
func (v *recordingVisual) SetScale(s float64) { v.scales = append(v.scales, s) }

func (v *recordingVisual) current() string {
	if len(v.images) == 0 {
		return ""
	}
	return v.images[len(v.images)-1]
}

func newTestWorld() *World {
	return NewWorld(WorldConfig{Width: 640, Height: 480, Iterations: 10})
}

func ballConfig(pos cp.Vector) ToyConfig {
	return ToyConfig{
		Name:     "ball",
		Factory:  CircleFactory{Radius: 20, Mass: 1, Friction: 0.7, Elasticity: 0.4},
		Images:   [2]string{"toy/ball", "toy/ball#hover"},
		Position: pos,
	}
}

func mustToy(t *testing.T, w *World, cfg ToyConfig) *Toy {
	t.Helper()
	toy, err := NewToy(w, cfg)
	if err != nil {
		t.Fatalf("NewToy(%s) failed: %v", cfg.Name, err)
	}
	return toy
}

func countConstraints(space *cp.Space) int {
	n := 0
	space.EachConstraint(func(*cp.Constraint) { n++ })
	return n
}

func countBodies(space *cp.Space) int {
	n := 0
	space.EachBody(func(*cp.Body) { n++ })
	return n
}

func countShapes(space *cp.Space) int {
	n := 0
	space.EachShape(func(*cp.Shape) { n++ })
	return n
}

func TestToyHoverSwapsImage(t *testing.T) {
	w := newTestWorld()
	vis := &recordingVisual{}
	cfg := ballConfig(cp.Vector{X: 320, Y: 240})
	cfg.Visual = vis
	toy := mustToy(t, w, cfg)

	if got := vis.current(); got != "toy/ball" {
		t.Fatalf("initial image = %q, want default", got)
	}
	if toy.ActiveImageIndex() != 0 {
		t.Fatalf("initial image index = %d, want 0", toy.ActiveImageIndex())
	}

	toy.OnPointerEnter()
	if toy.ActiveImageIndex() != 1 {
		t.Fatalf("image index after enter = %d, want 1", toy.ActiveImageIndex())
	}
	if got := vis.current(); got != "toy/ball#hover" {
		t.Fatalf("image after enter = %q, want hover", got)
	}

	// duplicate enter keeps the hover image active
	toy.OnPointerEnter()
	if toy.ActiveImageIndex() != 1 {
		t.Fatalf("image index after duplicate enter = %d, want 1", toy.ActiveImageIndex())
	}

	toy.OnPointerLeave()
	if toy.ActiveImageIndex() != 0 {
		t.Fatalf("image index after leave = %d, want 0", toy.ActiveImageIndex())
	}
	if got := vis.current(); got != "toy/ball" {
		t.Fatalf("image after leave = %q, want default", got)
	}
}

func TestToyDragLifecycle(t *testing.T) {
	w := newTestWorld()
	toy := mustToy(t, w, ballConfig(cp.Vector{X: 320, Y: 240}))

	toy.OnPointerDown(cp.Vector{X: 320, Y: 240})
	if !toy.IsDragging() {
		t.Fatalf("expected dragging after press")
	}
	if n := countConstraints(w.Space()); n != 1 {
		t.Fatalf("constraints after press = %d, want 1", n)
	}

	toy.OnPointerMove(cp.Vector{X: 10, Y: 5})
	if got := toy.Drag().Target(); got.X != 10 || got.Y != 5 {
		t.Fatalf("drag target = %v, want (10, 5)", got)
	}

	toy.OnPointerUp()
	if toy.IsDragging() {
		t.Fatalf("expected drag to end after release")
	}
	if n := countConstraints(w.Space()); n != 0 {
		t.Fatalf("constraints after release = %d, want 0", n)
	}

	// move after release must not retarget
	toy.OnPointerMove(cp.Vector{X: 99, Y: 99})
	if got := toy.Drag().Target(); got.X != 10 || got.Y != 5 {
		t.Fatalf("target changed after release: %v", got)
	}
}

func TestToyIllegalSequencesAreNoops(t *testing.T) {
	cases := []struct {
		name   string
		events []Event
	}{
		{"release_without_press", []Event{{Kind: EventPointerUp}}},
		{"move_without_press", []Event{{Kind: EventPointerMove, Point: cp.Vector{X: 1, Y: 1}}}},
		{"double_press", []Event{
			{Kind: EventPointerDown, Point: cp.Vector{X: 320, Y: 240}},
			{Kind: EventPointerDown, Point: cp.Vector{X: 100, Y: 100}},
		}},
		{"leave_without_enter", []Event{{Kind: EventPointerLeave}}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld()
			toy := mustToy(t, w, ballConfig(cp.Vector{X: 320, Y: 240}))
			for _, ev := range c.events {
				toy.HandleEvent(ev)
			}
			if n := countConstraints(w.Space()); n > 1 {
				t.Fatalf("constraints = %d, want at most 1", n)
			}
			active := toy.Drag().Active()
			if toy.IsDragging() != active {
				t.Fatalf("dragging=%v but constraint active=%v", toy.IsDragging(), active)
			}
		})
	}
}

// The drag flag must equal "last press not yet released", and the
// constraint must be inserted exactly while the flag is set, under any
// event order.
func TestDragFlagMatchesConstraint(t *testing.T) {
	sequences := []struct {
		name   string
		events []Event
	}{
		{"plain_drag", []Event{
			{Kind: EventPointerEnter},
			{Kind: EventPointerDown, Point: cp.Vector{X: 320, Y: 240}},
			{Kind: EventPointerMove, Point: cp.Vector{X: 400, Y: 300}},
			{Kind: EventPointerUp},
			{Kind: EventPointerLeave},
		}},
		{"leave_mid_drag", []Event{
			{Kind: EventPointerEnter},
			{Kind: EventPointerDown, Point: cp.Vector{X: 320, Y: 240}},
			{Kind: EventPointerLeave},
			{Kind: EventPointerMove, Point: cp.Vector{X: 10, Y: 10}},
			{Kind: EventPointerEnter},
			{Kind: EventPointerUp},
		}},
		{"spurious_releases", []Event{
			{Kind: EventPointerUp},
			{Kind: EventPointerDown, Point: cp.Vector{X: 320, Y: 240}},
			{Kind: EventPointerUp},
			{Kind: EventPointerUp},
			{Kind: EventPointerMove, Point: cp.Vector{X: 1, Y: 1}},
		}},
		{"press_press_release", []Event{
			{Kind: EventPointerDown, Point: cp.Vector{X: 320, Y: 240}},
			{Kind: EventPointerDown, Point: cp.Vector{X: 1, Y: 1}},
			{Kind: EventPointerUp},
		}},
	}

	for _, seq := range sequences {
		t.Run(seq.name, func(t *testing.T) {
			w := newTestWorld()
			toy := mustToy(t, w, ballConfig(cp.Vector{X: 320, Y: 240}))

			pressed := false
			for i, ev := range seq.events {
				toy.HandleEvent(ev)
				switch ev.Kind {
				case EventPointerDown:
					pressed = true
				case EventPointerUp:
					pressed = false
				}
				if toy.IsDragging() != pressed {
					t.Fatalf("event %d (%s): dragging=%v, want %v", i, ev.Kind, toy.IsDragging(), pressed)
				}
				want := 0
				if pressed {
					want = 1
				}
				if n := countConstraints(w.Space()); n != want {
					t.Fatalf("event %d (%s): constraints=%d, want %d", i, ev.Kind, n, want)
				}
			}
		})
	}
}

// A drag must not change which image is active; hover alone decides.
func TestImageIndexIgnoresDrag(t *testing.T) {
	w := newTestWorld()
	toy := mustToy(t, w, ballConfig(cp.Vector{X: 320, Y: 240}))

	toy.OnPointerEnter()
	toy.OnPointerDown(cp.Vector{X: 320, Y: 240})
	if toy.ActiveImageIndex() != 1 {
		t.Fatalf("index while hovered+dragging = %d, want 1", toy.ActiveImageIndex())
	}
	toy.OnPointerLeave()
	if toy.ActiveImageIndex() != 0 {
		t.Fatalf("index while dragging unhovered = %d, want 0", toy.ActiveImageIndex())
	}
	if !toy.IsDragging() {
		t.Fatalf("leave must not end the drag")
	}
}

func TestApplyClickForce(t *testing.T) {
	cases := []struct {
		name  string
		pos   cp.Vector
		click cp.Vector
		want  cp.Vector // expected force
	}{
		{"offset_x", cp.Vector{X: 320, Y: 240}, cp.Vector{X: 325, Y: 240}, cp.Vector{X: 1000, Y: 0}},
		{"offset_xy", cp.Vector{X: 320, Y: 240}, cp.Vector{X: 318, Y: 243}, cp.Vector{X: -400, Y: 600}},
		{"on_center", cp.Vector{X: 320, Y: 240}, cp.Vector{X: 320, Y: 240}, cp.Vector{}},
	}

	const dt = 1.0 / 60.0
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld()
			toy := mustToy(t, w, ballConfig(c.pos))

			toy.ApplyClick(c.click)
			w.Step(dt)

			// unit mass and zero gravity: velocity after one step is force*dt
			got := toy.Body().Velocity()
			wantV := c.want.Mult(dt)
			if math.Abs(got.X-wantV.X) > 1e-9 || math.Abs(got.Y-wantV.Y) > 1e-9 {
				t.Fatalf("velocity after click = %v, want %v", got, wantV)
			}
		})
	}
}

func TestNewToyFailsAtomically(t *testing.T) {
	cases := []struct {
		name    string
		factory BodyFactory
	}{
		{"zero_radius_circle", CircleFactory{Radius: 0}},
		{"flat_box", BoxFactory{Width: 10, Height: 0}},
		{"two_vert_polygon", PolyFactory{Verts: []cp.Vector{{X: 0, Y: 0}, {X: 1, Y: 0}}}},
		{"collinear_polygon", PolyFactory{Verts: []cp.Vector{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}}},
		{"empty_compound", CompoundFactory{}},
		{"bad_compound_part", CompoundFactory{Parts: []BodyFactory{CircleFactory{Radius: -1}}}},
		{"nil_factory", nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld()
			bodies := countBodies(w.Space())
			shapes := countShapes(w.Space())

			cfg := ballConfig(cp.Vector{X: 320, Y: 240})
			cfg.Name = c.name
			cfg.Factory = c.factory
			toy, err := NewToy(w, cfg)
			if err == nil {
				t.Fatalf("expected construction error")
			}
			if toy != nil {
				t.Fatalf("expected nil toy on error")
			}
			var cerr *ConstructionError
			if !errors.As(err, &cerr) {
				t.Fatalf("error %T is not a ConstructionError", err)
			}
			if cerr.Variant != c.name {
				t.Fatalf("error variant = %q, want %q", cerr.Variant, c.name)
			}

			if n := countBodies(w.Space()); n != bodies {
				t.Fatalf("bodies leaked: %d, want %d", n, bodies)
			}
			if n := countShapes(w.Space()); n != shapes {
				t.Fatalf("shapes leaked: %d, want %d", n, shapes)
			}
			if n := countConstraints(w.Space()); n != 0 {
				t.Fatalf("constraints leaked: %d", n)
			}
			if len(w.Toys()) != 0 {
				t.Fatalf("toy registered despite failure")
			}
		})
	}
}

func TestToyDestroy(t *testing.T) {
	w := newTestWorld()
	baseBodies := countBodies(w.Space())
	baseShapes := countShapes(w.Space())

	a := mustToy(t, w, ballConfig(cp.Vector{X: 100, Y: 100}))
	b := mustToy(t, w, ballConfig(cp.Vector{X: 300, Y: 100}))

	a.OnPointerDown(cp.Vector{X: 100, Y: 100})
	if n := countConstraints(w.Space()); n != 1 {
		t.Fatalf("constraints = %d, want 1", n)
	}

	a.Destroy()
	if a.Alive() {
		t.Fatalf("destroyed toy reports alive")
	}
	if n := countConstraints(w.Space()); n != 0 {
		t.Fatalf("constraint survived destroy: %d", n)
	}
	a.Destroy() // second destroy is a no-op

	b.Destroy()
	if n := countBodies(w.Space()); n != baseBodies {
		t.Fatalf("bodies after destroy = %d, want %d", n, baseBodies)
	}
	if n := countShapes(w.Space()); n != baseShapes {
		t.Fatalf("shapes after destroy = %d, want %d", n, baseShapes)
	}
	if len(w.Toys()) != 0 {
		t.Fatalf("toys still registered: %d", len(w.Toys()))
	}
	if len(w.shapeToToy) != 0 {
		t.Fatalf("shape lookup still holds %d entries", len(w.shapeToToy))
	}
}

func TestStaticToy(t *testing.T) {
	w := newTestWorld()
	vis := &recordingVisual{}
	cfg := ToyConfig{
		Name:     "bumper",
		Factory:  CircleFactory{Radius: 28, Elasticity: 1.1},
		Images:   [2]string{"toy/bumper", "toy/bumper#hover"},
		Visual:   vis,
		Position: cp.Vector{X: 320, Y: 400},
		Static:   true,
	}
	toy := mustToy(t, w, cfg)

	toy.OnPointerEnter()
	if toy.ActiveImageIndex() != 1 {
		t.Fatalf("static toy should still hover, index = %d", toy.ActiveImageIndex())
	}

	toy.OnPointerDown(cp.Vector{X: 320, Y: 400})
	if toy.IsDragging() {
		t.Fatalf("static toy must not start a drag")
	}
	if n := countConstraints(w.Space()); n != 0 {
		t.Fatalf("constraints = %d, want 0", n)
	}

	toy.ApplyClick(cp.Vector{X: 400, Y: 400})
	w.Step(1.0 / 60.0)
	if v := toy.Body().Velocity(); v.X != 0 || v.Y != 0 {
		t.Fatalf("static toy moved: %v", v)
	}
}

func TestRollScale(t *testing.T) {
	cases := []struct {
		name     string
		min, max float64
		wantLo   float64
		wantHi   float64
	}{
		{"range", 0.8, 1.2, 0.8, 1.2},
		{"fixed_min", 0.5, 0, 0.5, 0.5},
		{"unset", 0, 0, 1, 1},
		{"inverted_range", 1.5, 0.5, 1.5, 1.5},
	}

	r := rand.New(rand.NewPCG(7, 11))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				got := rollScale(ToyConfig{ScaleMin: c.min, ScaleMax: c.max, Rand: r})
				if got < c.wantLo || got > c.wantHi {
					t.Fatalf("scale %v outside [%v, %v]", got, c.wantLo, c.wantHi)
				}
			}
		})
	}
}

func TestScaleAppliedOnceToBodyAndVisual(t *testing.T) {
	w := newTestWorld()
	vis := &recordingVisual{}
	cfg := ToyConfig{
		Name:     "ball",
		Factory:  CircleFactory{Radius: 20, Mass: 1},
		Images:   [2]string{"toy/ball", "toy/ball#hover"},
		Visual:   vis,
		Position: cp.Vector{X: 320, Y: 240},
		ScaleMin: 2,
	}
	toy := mustToy(t, w, cfg)

	if toy.Scale() != 2 {
		t.Fatalf("scale = %v, want 2", toy.Scale())
	}
	if len(vis.scales) != 1 || vis.scales[0] != 2 {
		t.Fatalf("visual scales = %v, want one call with 2", vis.scales)
	}
	// the body geometry carries the same scale: hit test at 1.5x the base
	// radius still lands inside the scaled circle
	if got := w.ToyAt(cp.Vector{X: 320 + 30, Y: 240}); got != toy {
		t.Fatalf("scaled body did not cover the scaled radius")
	}
}
