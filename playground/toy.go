package playground

import (
	"errors"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
)

// clickForceGain scales the one-shot click impulse: the applied force is
// (click point - body position) * clickForceGain.
const clickForceGain = 200.0

// Visual is the render-side hook a toy drives. Image identifiers are opaque
// to the playground; the host resolves them.
type Visual interface {
	SetImage(id string)
	SetScale(s float64)
}

// ToyConfig describes one toy to build. Images holds the ordered pair
// {default, hovered}. ScaleMin/ScaleMax bound the visual-and-body scale
// jitter rolled once at construction; zero values mean no jitter.
type ToyConfig struct {
	Name     string
	Factory  BodyFactory
	Images   [2]string
	Visual   Visual
	Position cp.Vector
	ScaleMin float64
	ScaleMax float64
	Static   bool
	Rand     *rand.Rand
}

// Toy is a body in the playground the pointer can hover, drag, and poke.
// hovered and dragging are the whole interaction state: the active image is
// a pure function of hovered, and dragging is true exactly while the drag
// joint is inserted in the space.
type Toy struct {
	id     int
	name   string
	world  *World
	body   *cp.Body
	shapes []*cp.Shape
	drag   *DragJoint
	visual Visual
	images [2]string
	scale  float64
	static bool

	hovered  bool
	dragging bool
}

// NewToy builds a toy and inserts it into the world. Construction is
// atomic: on error nothing has been added to the space and the returned
// error is a *ConstructionError.
func NewToy(w *World, cfg ToyConfig) (*Toy, error) {
	if w == nil || w.space == nil {
		return nil, constructErr(cfg.Name, errors.New("nil world"))
	}
	if cfg.Factory == nil {
		return nil, constructErr(cfg.Name, errors.New("nil body factory"))
	}

	scale := rollScale(cfg)

	var (
		body   *cp.Body
		shapes []*cp.Shape
		err    error
	)
	if cfg.Static {
		body = cp.NewStaticBody()
		shapes, err = cfg.Factory.StaticShapes(body, scale)
	} else {
		body, shapes, err = cfg.Factory.CreateBody(scale, cfg.Name)
	}
	if err != nil {
		return nil, constructErr(cfg.Name, err)
	}
	if body == nil || len(shapes) == 0 {
		return nil, constructErr(cfg.Name, errors.New("factory produced no body or shapes"))
	}

	body.SetPosition(cfg.Position)

	t := &Toy{
		name:   cfg.Name,
		world:  w,
		body:   body,
		shapes: shapes,
		visual: cfg.Visual,
		images: cfg.Images,
		scale:  scale,
		static: cfg.Static,
	}
	t.drag = newDragJoint(w.space, body)

	w.space.AddBody(body)
	for _, s := range shapes {
		if cfg.Static {
			s.SetCollisionType(CollisionTypeProp)
			s.SetFilter(NotGrabbableFilter)
		} else {
			s.SetCollisionType(CollisionTypeToy)
		}
		w.space.AddShape(s)
	}
	w.register(t)

	if t.visual != nil {
		t.visual.SetScale(scale)
		t.visual.SetImage(t.images[0])
	}
	return t, nil
}

// Destroy stops any drag, removes the body and shapes from the space, and
// unregisters the toy. Safe to call twice.
func (t *Toy) Destroy() {
	if t == nil || t.world == nil {
		return
	}
	t.drag.Stop()
	t.dragging = false
	t.hovered = false
	for _, s := range t.shapes {
		t.world.space.RemoveShape(s)
	}
	t.world.space.RemoveBody(t.body)
	t.world.unregister(t)
	t.world = nil
}

// Alive reports whether the toy is still registered in a world.
func (t *Toy) Alive() bool {
	return t != nil && t.world != nil
}

// HandleEvent routes a typed pointer message to the matching handler.
func (t *Toy) HandleEvent(ev Event) {
	switch ev.Kind {
	case EventPointerEnter:
		t.OnPointerEnter()
	case EventPointerLeave:
		t.OnPointerLeave()
	case EventPointerDown:
		t.OnPointerDown(ev.Point)
	case EventPointerUp:
		t.OnPointerUp()
	case EventPointerMove:
		t.OnPointerMove(ev.Point)
	}
}

// OnPointerEnter marks the toy hovered and swaps in the hover image.
// Entering twice in a row is a no-op.
func (t *Toy) OnPointerEnter() {
	if t == nil {
		return
	}
	t.hovered = true
	t.syncImage()
}

// OnPointerLeave clears the hover. A drag in progress keeps going; only
// the visual reverts.
func (t *Toy) OnPointerLeave() {
	if t == nil {
		return
	}
	t.hovered = false
	t.syncImage()
}

// OnPointerDown begins a drag at the world point p. Presses on a static
// toy, or while a drag is already live, do nothing.
func (t *Toy) OnPointerDown(p cp.Vector) {
	if t == nil || t.world == nil || t.static || t.dragging {
		return
	}
	t.drag.Start(p)
	t.dragging = t.drag.Active()
}

// OnPointerUp ends the drag. A release without a matching press is a no-op.
func (t *Toy) OnPointerUp() {
	if t == nil || !t.dragging {
		return
	}
	t.drag.Stop()
	t.dragging = false
}

// OnPointerMove retargets a live drag; it does nothing otherwise.
func (t *Toy) OnPointerMove(p cp.Vector) {
	if t == nil || !t.dragging {
		return
	}
	t.drag.UpdateTarget(p)
}

// ApplyClick applies the one-shot force (p - position) * clickForceGain at
// the body's current position, nudging the toy toward the click point.
// Static toys ignore it.
func (t *Toy) ApplyClick(p cp.Vector) {
	if t == nil || t.body == nil || t.static {
		return
	}
	pos := t.body.Position()
	t.body.ApplyForceAtWorldPoint(p.Sub(pos).Mult(clickForceGain), pos)
}

// ActiveImageIndex is 1 while hovered and 0 otherwise, regardless of drag.
func (t *Toy) ActiveImageIndex() int {
	if t != nil && t.hovered {
		return 1
	}
	return 0
}

func (t *Toy) syncImage() {
	if t.visual == nil {
		return
	}
	t.visual.SetImage(t.images[t.ActiveImageIndex()])
}

func (t *Toy) ID() int        { return t.id }
func (t *Toy) Name() string   { return t.name }
func (t *Toy) Scale() float64 { return t.scale }
func (t *Toy) Static() bool   { return t != nil && t.static }

func (t *Toy) IsHovered() bool  { return t != nil && t.hovered }
func (t *Toy) IsDragging() bool { return t != nil && t.dragging }

func (t *Toy) Body() *cp.Body {
	if t == nil {
		return nil
	}
	return t.body
}

func (t *Toy) Drag() *DragJoint {
	if t == nil {
		return nil
	}
	return t.drag
}

func (t *Toy) Position() cp.Vector {
	if t == nil || t.body == nil {
		return cp.Vector{}
	}
	return t.body.Position()
}

func (t *Toy) Angle() float64 {
	if t == nil || t.body == nil {
		return 0
	}
	return t.body.Angle()
}

func rollScale(cfg ToyConfig) float64 {
	min, max := cfg.ScaleMin, cfg.ScaleMax
	switch {
	case min > 0 && max > min:
		r := rand.Float64
		if cfg.Rand != nil {
			r = cfg.Rand.Float64
		}
		return min + r()*(max-min)
	case min > 0:
		return min
	default:
		return 1
	}
}
