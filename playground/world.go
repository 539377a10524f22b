package playground

import (
	"github.com/jakecoffman/cp"
)

const (
	CollisionTypeToy cp.CollisionType = iota + 1
	CollisionTypeProp
	CollisionTypeBounds
)

// GrabbableMaskBit marks shape categories the pointer may pick up. Shapes
// that keep the default filter carry it; walls and props mask it out.
const GrabbableMaskBit uint = 1 << 31

var (
	GrabFilter         = cp.NewShapeFilter(cp.NO_GROUP, GrabbableMaskBit, GrabbableMaskBit)
	NotGrabbableFilter = cp.NewShapeFilter(cp.NO_GROUP, ^GrabbableMaskBit, ^GrabbableMaskBit)
)

// ImpactFunc observes toy collisions. b is nil when a toy hits the bounds.
type ImpactFunc func(a, b *Toy, speed float64)

type WorldConfig struct {
	Width      float64
	Height     float64
	Gravity    cp.Vector
	Damping    float64
	Iterations int
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Width:      1280,
		Height:     720,
		Gravity:    cp.Vector{X: 0, Y: 900},
		Damping:    1.0,
		Iterations: 20,
	}
}

// World owns the Chipmunk space, the boundary shapes, and the live toys.
// Coordinates are screen-style: Y grows downward, gravity is positive Y.
type World struct {
	space   *cp.Space
	width   float64
	height  float64
	gravity cp.Vector

	nextID     int
	toys       []*Toy
	shapeToToy map[*cp.Shape]*Toy
	impact     ImpactFunc
}

func NewWorld(cfg WorldConfig) *World {
	space := cp.NewSpace()
	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = 20
	}
	space.Iterations = uint(iterations)
	space.SetGravity(cfg.Gravity)
	if cfg.Damping > 0 {
		space.SetDamping(cfg.Damping)
	}

	w := &World{
		space:      space,
		width:      cfg.Width,
		height:     cfg.Height,
		gravity:    cfg.Gravity,
		shapeToToy: make(map[*cp.Shape]*Toy),
	}
	w.buildBounds()
	w.setupHandlers()
	return w
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) Width() float64  { return w.width }
func (w *World) Height() float64 { return w.height }

func (w *World) Gravity() cp.Vector {
	if w == nil {
		return cp.Vector{}
	}
	return w.gravity
}

func (w *World) SetGravity(g cp.Vector) {
	if w == nil || w.space == nil {
		return
	}
	w.gravity = g
	w.space.SetGravity(g)
}

// SetImpactFunc registers the collision observer. Passing nil removes it.
func (w *World) SetImpactFunc(fn ImpactFunc) {
	if w == nil {
		return
	}
	w.impact = fn
}

// Step advances live drags and then the simulation by dt seconds.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil {
		return
	}
	for _, t := range w.toys {
		t.drag.advance()
	}
	w.space.Step(dt)
}

// Toys returns a snapshot of the live toys in spawn order.
func (w *World) Toys() []*Toy {
	if w == nil {
		return nil
	}
	out := make([]*Toy, len(w.toys))
	copy(out, w.toys)
	return out
}

// ToyByID finds a live toy by its id, or nil.
func (w *World) ToyByID(id int) *Toy {
	if w == nil {
		return nil
	}
	for _, t := range w.toys {
		if t.id == id {
			return t
		}
	}
	return nil
}

// ToyAt returns the toy whose interactive region contains the world point
// p, or nil. Props count; bounds do not.
func (w *World) ToyAt(p cp.Vector) *Toy {
	return w.toyAt(p, cp.SHAPE_FILTER_ALL)
}

// GrabbableToyAt is ToyAt restricted to shapes the pointer may pick up.
func (w *World) GrabbableToyAt(p cp.Vector) *Toy {
	return w.toyAt(p, GrabFilter)
}

func (w *World) toyAt(p cp.Vector, filter cp.ShapeFilter) *Toy {
	if w == nil || w.space == nil {
		return nil
	}
	info := w.space.PointQueryNearest(p, 0, filter)
	if info == nil || info.Shape == nil {
		return nil
	}
	return w.shapeToToy[info.Shape]
}

func (w *World) buildBounds() {
	if w.width <= 0 || w.height <= 0 {
		return
	}
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: w.width, Y: 0}},
		{a: cp.Vector{X: 0, Y: w.height}, b: cp.Vector{X: w.width, Y: w.height}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: w.height}},
		{a: cp.Vector{X: w.width, Y: 0}, b: cp.Vector{X: w.width, Y: w.height}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(w.space.StaticBody, seg.a, seg.b, 1)
		shape.SetFriction(0.8)
		// unit elasticity so a toy's own bounciness governs restitution
		shape.SetElasticity(1.0)
		shape.SetCollisionType(CollisionTypeBounds)
		shape.SetFilter(NotGrabbableFilter)
		w.space.AddShape(shape)
	}
}

func (w *World) setupHandlers() {
	if w == nil || w.space == nil {
		return
	}

	pairBegin := func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil || world.impact == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		a := world.shapeToToy[shapeA]
		b := world.shapeToToy[shapeB]
		if a == nil || b == nil {
			return true
		}
		speed := shapeA.Body().Velocity().Sub(shapeB.Body().Velocity()).Length()
		world.impact(a, b, speed)
		return true
	}

	toyHandler := w.space.NewCollisionHandler(CollisionTypeToy, CollisionTypeToy)
	toyHandler.UserData = w
	toyHandler.BeginFunc = pairBegin

	// props are toys too; hitting one reports both participants
	propHandler := w.space.NewCollisionHandler(CollisionTypeToy, CollisionTypeProp)
	propHandler.UserData = w
	propHandler.BeginFunc = pairBegin

	boundsHandler := w.space.NewCollisionHandler(CollisionTypeToy, CollisionTypeBounds)
	boundsHandler.UserData = w
	boundsHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil || world.impact == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		t := world.shapeToToy[shapeA]
		speed := shapeA.Body().Velocity().Length()
		if t == nil {
			t = world.shapeToToy[shapeB]
			speed = shapeB.Body().Velocity().Length()
		}
		if t == nil {
			return true
		}
		world.impact(t, nil, speed)
		return true
	}
}

func (w *World) register(t *Toy) {
	w.nextID++
	t.id = w.nextID
	w.toys = append(w.toys, t)
	for _, s := range t.shapes {
		w.shapeToToy[s] = t
	}
}

func (w *World) unregister(t *Toy) {
	for i, other := range w.toys {
		if other == t {
			w.toys = append(w.toys[:i], w.toys[i+1:]...)
			break
		}
	}
	for _, s := range t.shapes {
		delete(w.shapeToToy, s)
	}
}
