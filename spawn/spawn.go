package spawn

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/toybox/playground"
	"github.com/milk9111/toybox/prefabs"
)

// ErrUnknownVariant marks a shape kind no factory exists for.
var ErrUnknownVariant = errors.New("unknown shape kind")

// FactoryFor converts a toy prefab's shape block into a body factory.
func FactoryFor(spec prefabs.ToySpec) (playground.BodyFactory, error) {
	f, err := factoryForShape(spec.Shape, spec.Mass, spec.Friction, spec.Elasticity, true)
	if err != nil {
		return nil, fmt.Errorf("spawn: %s: %w", spec.Name, err)
	}
	return f, nil
}

func factoryForShape(s prefabs.ShapeSpec, mass, friction, elasticity float64, allowCompound bool) (playground.BodyFactory, error) {
	offset := cp.Vector{X: s.OffsetX, Y: s.OffsetY}
	switch s.Kind {
	case "circle":
		return playground.CircleFactory{
			Radius:     s.Radius,
			Offset:     offset,
			Mass:       mass,
			Friction:   friction,
			Elasticity: elasticity,
		}, nil
	case "box":
		return playground.BoxFactory{
			Width:      s.Width,
			Height:     s.Height,
			Offset:     offset,
			Mass:       mass,
			Friction:   friction,
			Elasticity: elasticity,
		}, nil
	case "poly":
		verts := make([]cp.Vector, len(s.Verts))
		for i, v := range s.Verts {
			verts[i] = cp.Vector{X: v.X, Y: v.Y}
		}
		return playground.PolyFactory{
			Verts:      verts,
			Offset:     offset,
			Mass:       mass,
			Friction:   friction,
			Elasticity: elasticity,
		}, nil
	case "compound":
		if !allowCompound {
			return nil, fmt.Errorf("compound parts cannot nest")
		}
		parts := make([]playground.BodyFactory, 0, len(s.Parts))
		for i, p := range s.Parts {
			part, err := factoryForShape(p, p.Mass, friction, elasticity, false)
			if err != nil {
				return nil, fmt.Errorf("part %d: %w", i, err)
			}
			parts = append(parts, part)
		}
		return playground.CompoundFactory{Parts: parts}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownVariant, s.Kind)
}

// BuildConfig assembles the construction config for one toy at one position.
func BuildConfig(spec prefabs.ToySpec, pos cp.Vector, visual playground.Visual, r *rand.Rand) (playground.ToyConfig, error) {
	factory, err := FactoryFor(spec)
	if err != nil {
		return playground.ToyConfig{}, err
	}
	def, hov := ImageIDs(spec)
	return playground.ToyConfig{
		Name:     spec.Name,
		Factory:  factory,
		Images:   [2]string{def, hov},
		Visual:   visual,
		Position: pos,
		ScaleMin: spec.ScaleMin,
		ScaleMax: spec.ScaleMax,
		Static:   spec.Static,
		Rand:     r,
	}, nil
}

// ImageIDs returns the default and hovered sprite ids for a toy prefab.
// Ids derive from the toy name unless the prefab overrides them.
func ImageIDs(spec prefabs.ToySpec) (string, string) {
	def := spec.Images.Default
	if def == "" {
		def = "toy/" + spec.Name
	}
	hov := spec.Images.Hovered
	if hov == "" {
		hov = def + "#hover"
	}
	return def, hov
}

// WorldConfig maps scene parameters onto world construction values. Zero
// scene fields keep the defaults, except gravity which the scene always
// owns so weightless scenes stay weightless.
func WorldConfig(scene prefabs.SceneSpec) playground.WorldConfig {
	cfg := playground.DefaultWorldConfig()
	if scene.Width > 0 {
		cfg.Width = scene.Width
	}
	if scene.Height > 0 {
		cfg.Height = scene.Height
	}
	cfg.Gravity = cp.Vector{X: scene.Gravity.X, Y: scene.Gravity.Y}
	if scene.Damping > 0 {
		cfg.Damping = scene.Damping
	}
	if scene.Iterations > 0 {
		cfg.Iterations = scene.Iterations
	}
	return cfg
}

// Points expands one spawn block into its jittered positions.
func Points(s prefabs.SpawnSpec, r *rand.Rand) []cp.Vector {
	count := s.Count
	if count <= 0 {
		count = 1
	}
	pts := make([]cp.Vector, count)
	for i := range pts {
		p := cp.Vector{X: s.X, Y: s.Y}
		if s.Spread > 0 {
			p.X += (roll(r)*2 - 1) * s.Spread
			p.Y += (roll(r)*2 - 1) * s.Spread * 0.5
		}
		pts[i] = p
	}
	return pts
}

func roll(r *rand.Rand) float64 {
	if r != nil {
		return r.Float64()
	}
	return rand.Float64()
}
