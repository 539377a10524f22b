package playground

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// BodyFactory builds the physical half of a toy variant. CreateBody returns
// a free-standing dynamic body with its collision shapes attached; nothing
// is added to a space, ownership stays with the caller. StaticShapes is the
// detection-only hook for variants that never simulate: it attaches shapes
// to a body the caller provides (normally a static one). The two hooks are
// independent and need not produce the same shape class.
type BodyFactory interface {
	CreateBody(scale float64, name string) (*cp.Body, []*cp.Shape, error)
	StaticShapes(body *cp.Body, scale float64) ([]*cp.Shape, error)
}

// shapeBuilder is the composition hook shared by the concrete factories so
// CompoundFactory can attach several parts to one body. Moment contributions
// must already account for the part's offset.
type shapeBuilder interface {
	buildShapes(body *cp.Body, scale float64) (shapes []*cp.Shape, mass, moment float64, err error)
}

type CircleFactory struct {
	Radius     float64
	Offset     cp.Vector
	Mass       float64
	Friction   float64
	Elasticity float64
}

func (f CircleFactory) CreateBody(scale float64, name string) (*cp.Body, []*cp.Shape, error) {
	return assembleBody(f, scale, name)
}

func (f CircleFactory) StaticShapes(body *cp.Body, scale float64) ([]*cp.Shape, error) {
	shapes, _, _, err := f.buildShapes(body, scale)
	return shapes, err
}

func (f CircleFactory) buildShapes(body *cp.Body, scale float64) ([]*cp.Shape, float64, float64, error) {
	r := f.Radius * scale
	if r <= 0 {
		return nil, 0, 0, fmt.Errorf("circle radius %v must be positive", r)
	}
	mass := defaultMass(f.Mass)
	offset := f.Offset.Mult(scale)
	shape := cp.NewCircle(body, r, offset)
	shape.SetFriction(f.Friction)
	shape.SetElasticity(f.Elasticity)
	return []*cp.Shape{shape}, mass, cp.MomentForCircle(mass, 0, r, offset), nil
}

type BoxFactory struct {
	Width      float64
	Height     float64
	Offset     cp.Vector
	Mass       float64
	Friction   float64
	Elasticity float64
}

func (f BoxFactory) CreateBody(scale float64, name string) (*cp.Body, []*cp.Shape, error) {
	return assembleBody(f, scale, name)
}

func (f BoxFactory) StaticShapes(body *cp.Body, scale float64) ([]*cp.Shape, error) {
	shapes, _, _, err := f.buildShapes(body, scale)
	return shapes, err
}

func (f BoxFactory) buildShapes(body *cp.Body, scale float64) ([]*cp.Shape, float64, float64, error) {
	w := f.Width * scale
	h := f.Height * scale
	if w <= 0 || h <= 0 {
		return nil, 0, 0, fmt.Errorf("box extents %vx%v must be positive", w, h)
	}
	mass := defaultMass(f.Mass)
	offset := f.Offset.Mult(scale)
	bb := cp.BB{
		L: offset.X - w/2,
		B: offset.Y - h/2,
		R: offset.X + w/2,
		T: offset.Y + h/2,
	}
	shape := cp.NewBox2(body, bb, 0)
	shape.SetFriction(f.Friction)
	shape.SetElasticity(f.Elasticity)
	return []*cp.Shape{shape}, mass, cp.MomentForBox2(mass, bb), nil
}

type PolyFactory struct {
	Verts      []cp.Vector
	Offset     cp.Vector
	Mass       float64
	Friction   float64
	Elasticity float64
}

func (f PolyFactory) CreateBody(scale float64, name string) (*cp.Body, []*cp.Shape, error) {
	return assembleBody(f, scale, name)
}

func (f PolyFactory) StaticShapes(body *cp.Body, scale float64) ([]*cp.Shape, error) {
	shapes, _, _, err := f.buildShapes(body, scale)
	return shapes, err
}

func (f PolyFactory) buildShapes(body *cp.Body, scale float64) ([]*cp.Shape, float64, float64, error) {
	if len(f.Verts) < 3 {
		return nil, 0, 0, fmt.Errorf("polygon needs at least 3 verts, got %d", len(f.Verts))
	}
	if scale <= 0 {
		return nil, 0, 0, fmt.Errorf("polygon scale %v must be positive", scale)
	}
	verts := make([]cp.Vector, len(f.Verts))
	for i, v := range f.Verts {
		verts[i] = v.Mult(scale).Add(f.Offset.Mult(scale))
	}
	area := signedArea(verts)
	if math.Abs(area) < 1e-9 {
		return nil, 0, 0, fmt.Errorf("degenerate polygon with zero area")
	}
	// the solver expects counterclockwise winding; flip silently
	if area < 0 {
		for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}
	mass := defaultMass(f.Mass)
	shape := cp.NewPolyShapeRaw(body, len(verts), verts, 0)
	shape.SetFriction(f.Friction)
	shape.SetElasticity(f.Elasticity)
	return []*cp.Shape{shape}, mass, cp.MomentForPoly(mass, len(verts), verts, cp.Vector{}, 0), nil
}

// CompoundFactory welds the parts onto a single body. Part offsets position
// each shape relative to the shared center of gravity.
type CompoundFactory struct {
	Parts []BodyFactory
}

func (f CompoundFactory) CreateBody(scale float64, name string) (*cp.Body, []*cp.Shape, error) {
	body := cp.NewBody(1, 1)
	shapes, mass, moment, err := f.buildShapes(body, scale)
	if err != nil {
		return nil, nil, fmt.Errorf("compound %s: %w", name, err)
	}
	body.SetMass(mass)
	body.SetMoment(moment)
	return body, shapes, nil
}

func (f CompoundFactory) StaticShapes(body *cp.Body, scale float64) ([]*cp.Shape, error) {
	shapes, _, _, err := f.buildShapes(body, scale)
	return shapes, err
}

func (f CompoundFactory) buildShapes(body *cp.Body, scale float64) ([]*cp.Shape, float64, float64, error) {
	if len(f.Parts) == 0 {
		return nil, 0, 0, fmt.Errorf("compound has no parts")
	}
	var shapes []*cp.Shape
	var mass, moment float64
	for i, part := range f.Parts {
		builder, ok := part.(shapeBuilder)
		if !ok {
			return nil, 0, 0, fmt.Errorf("part %d (%T) cannot be composed", i, part)
		}
		partShapes, m, mom, err := builder.buildShapes(body, scale)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("part %d: %w", i, err)
		}
		shapes = append(shapes, partShapes...)
		mass += m
		moment += mom
	}
	return shapes, mass, moment, nil
}

func assembleBody(builder shapeBuilder, scale float64, name string) (*cp.Body, []*cp.Shape, error) {
	body := cp.NewBody(1, 1)
	shapes, mass, moment, err := builder.buildShapes(body, scale)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	body.SetMass(mass)
	body.SetMoment(moment)
	return body, shapes, nil
}

func defaultMass(m float64) float64 {
	if m <= 0 {
		return 1
	}
	return m
}

func signedArea(verts []cp.Vector) float64 {
	var sum float64
	for i, a := range verts {
		b := verts[(i+1)%len(verts)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}
