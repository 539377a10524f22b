package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ToySpec describes one spawnable toy variant.
type ToySpec struct {
	Name       string     `yaml:"name"`
	Shape      ShapeSpec  `yaml:"shape"`
	Static     bool       `yaml:"static"`
	Mass       float64    `yaml:"mass"`
	Friction   float64    `yaml:"friction"`
	Elasticity float64    `yaml:"elasticity"`
	ScaleMin   float64    `yaml:"scale_min"`
	ScaleMax   float64    `yaml:"scale_max"`
	Images     ImagesSpec `yaml:"images"`
	Tint       *YAMLColor `yaml:"tint"`
}

// ShapeSpec is the geometry half of a toy. Kind selects circle, box, poly
// or compound; compound parts carry their own mass and may not nest.
type ShapeSpec struct {
	Kind    string      `yaml:"kind"`
	Radius  float64     `yaml:"radius"`
	Width   float64     `yaml:"width"`
	Height  float64     `yaml:"height"`
	Verts   []VertSpec  `yaml:"verts"`
	OffsetX float64     `yaml:"offset_x"`
	OffsetY float64     `yaml:"offset_y"`
	Mass    float64     `yaml:"mass"`
	Parts   []ShapeSpec `yaml:"parts"`
}

type VertSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ImagesSpec optionally overrides the sprite ids derived from the toy name.
type ImagesSpec struct {
	Default string `yaml:"default"`
	Hovered string `yaml:"hovered"`
}

// SceneSpec describes a whole playground setup: world parameters plus the
// toys and effect scripts to start with.
type SceneSpec struct {
	Name       string      `yaml:"name"`
	Width      float64     `yaml:"width"`
	Height     float64     `yaml:"height"`
	Gravity    GravitySpec `yaml:"gravity"`
	Damping    float64     `yaml:"damping"`
	Iterations int         `yaml:"iterations"`
	Spawns     []SpawnSpec `yaml:"spawns"`
	Scripts    []string    `yaml:"scripts"`
}

type GravitySpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// SpawnSpec places Count copies of a toy, jittered within Spread pixels.
type SpawnSpec struct {
	Toy    string  `yaml:"toy"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Count  int     `yaml:"count"`
	Spread float64 `yaml:"spread"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadToySpec loads a toy prefab by name ("ball") or path ("toys/ball.yaml").
// A missing name field defaults to the requested name.
func LoadToySpec(name string) (ToySpec, error) {
	spec, err := LoadSpec[ToySpec](toyPath(name))
	if err != nil {
		return ToySpec{}, err
	}
	if spec.Name == "" {
		spec.Name = baseName(name)
	}
	return spec, nil
}

func LoadSceneSpec(name string) (SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](scenePath(name))
	if err != nil {
		return SceneSpec{}, err
	}
	if spec.Name == "" {
		spec.Name = baseName(name)
	}
	return spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
