package effects

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/toybox/playground"
	"github.com/milk9111/toybox/prefabs"
)

// SpawnFunc drops a new toy into the scene on behalf of a script.
type SpawnFunc func(toy string, x, y float64) error

// Runtime drives ambient effect scripts. Each script defines
// update(engine, state, dt) and runs once per frame with a persistent
// state map; the engine exposes a small toybox API.
type Runtime struct {
	world  *playground.World
	spawn  SpawnFunc
	rand   *rand.Rand
	engine *tengo.ImmutableMap

	scripts []*effectScript
}

type effectScript struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	broken   bool
}

const effectDispatchScript = `
if __phase == "update" {
	update(__engine, __state, __dt)
}
`

func NewRuntime(world *playground.World, spawn SpawnFunc, r *rand.Rand) *Runtime {
	rt := &Runtime{
		world: world,
		spawn: spawn,
		rand:  r,
	}
	rt.engine = rt.buildEngine()
	return rt
}

// Load compiles a script from the prefabs store and registers it under its
// name, replacing any previous version and resetting its state.
func (rt *Runtime) Load(name string) error {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return fmt.Errorf("effects: load %s: %w", name, err)
	}
	return rt.LoadSource(name, src)
}

// LoadSource compiles script source directly. Hot reload and tests go
// through here.
func (rt *Runtime) LoadSource(name string, src []byte) error {
	if rt == nil {
		return fmt.Errorf("effects: nil runtime")
	}

	full := string(src) + "\n" + effectDispatchScript
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__dt", 0.0)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("effects: compile %s: %w", name, err)
	}

	es := &effectScript{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}

	// run top-level code once so the script's globals exist
	if err := es.run("noop", rt.engine, 0); err != nil {
		return fmt.Errorf("effects: init %s: %w", name, err)
	}

	for i, old := range rt.scripts {
		if old.name == name {
			rt.scripts[i] = es
			return nil
		}
	}
	rt.scripts = append(rt.scripts, es)
	return nil
}

// Unload drops one script.
func (rt *Runtime) Unload(name string) {
	if rt == nil {
		return
	}
	for i, es := range rt.scripts {
		if es.name == name {
			rt.scripts = append(rt.scripts[:i], rt.scripts[i+1:]...)
			return
		}
	}
}

// Clear drops every script, typically on a scene switch.
func (rt *Runtime) Clear() {
	if rt == nil {
		return
	}
	rt.scripts = nil
}

// Names lists the loaded scripts, sorted.
func (rt *Runtime) Names() []string {
	if rt == nil {
		return nil
	}
	names := make([]string, 0, len(rt.scripts))
	for _, es := range rt.scripts {
		names = append(names, es.name)
	}
	sort.Strings(names)
	return names
}

// Broken lists scripts disabled by a runtime failure, sorted.
func (rt *Runtime) Broken() []string {
	if rt == nil {
		return nil
	}
	var names []string
	for _, es := range rt.scripts {
		if es.broken {
			names = append(names, es.name)
		}
	}
	sort.Strings(names)
	return names
}

// Tick runs every loaded script's update phase. A script that fails is
// disabled until its next load so one bad edit cannot spam the log.
func (rt *Runtime) Tick(dt float64) {
	if rt == nil || rt.world == nil {
		return
	}
	for _, es := range rt.scripts {
		if es.broken {
			continue
		}
		if err := es.run("update", rt.engine, dt); err != nil {
			es.broken = true
			log.Printf("Effects: script %s failed, disabled until reload: %v", es.name, err)
		}
	}
}

func (es *effectScript) run(phase string, engine *tengo.ImmutableMap, dt float64) error {
	if es == nil || es.compiled == nil {
		return fmt.Errorf("nil effect script")
	}
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := es.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := es.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := es.compiled.Set("__state", es.state); err != nil {
		return err
	}
	if err := es.compiled.Set("__dt", dt); err != nil {
		return err
	}
	return es.compiled.Run()
}

func (rt *Runtime) buildEngine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["count"] = &tengo.UserFunction{Name: "count", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if rt.world == nil {
			return &tengo.Int{Value: 0}, nil
		}
		return &tengo.Int{Value: int64(len(rt.world.Toys()))}, nil
	}}

	values["toy_ids"] = &tengo.UserFunction{Name: "toy_ids", Value: func(args ...tengo.Object) (tengo.Object, error) {
		out := &tengo.Array{}
		if rt.world == nil {
			return out, nil
		}
		for _, toy := range rt.world.Toys() {
			if toy.Static() {
				continue
			}
			out.Value = append(out.Value, &tengo.Int{Value: int64(toy.ID())})
		}
		return out, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		zero := &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: 0}, &tengo.Float{Value: 0}}}
		if rt.world == nil || len(args) < 1 {
			return zero, nil
		}
		id, ok := objectToInt(args[0])
		if !ok {
			return zero, nil
		}
		toy := rt.world.ToyByID(id)
		if toy == nil {
			return zero, nil
		}
		pos := toy.Position()
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: pos.X}, &tengo.Float{Value: pos.Y}}}, nil
	}}

	values["shove"] = &tengo.UserFunction{Name: "shove", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if rt.world == nil || len(args) < 3 {
			return tengo.FalseValue, nil
		}
		id, ok := objectToInt(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		x, okX := objectToFloat(args[1])
		y, okY := objectToFloat(args[2])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		toy := rt.world.ToyByID(id)
		if toy == nil {
			return tengo.FalseValue, nil
		}
		toy.ApplyClick(cp.Vector{X: x, Y: y})
		return tengo.TrueValue, nil
	}}

	values["spawn"] = &tengo.UserFunction{Name: "spawn", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if rt.spawn == nil || len(args) < 3 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		x, okX := objectToFloat(args[1])
		y, okY := objectToFloat(args[2])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		if err := rt.spawn(name, x, y); err != nil {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["gravity"] = &tengo.UserFunction{Name: "gravity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if rt.world == nil || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := objectToFloat(args[0])
		y, okY := objectToFloat(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		rt.world.SetGravity(cp.Vector{X: x, Y: y})
		return tengo.TrueValue, nil
	}}

	values["width"] = &tengo.UserFunction{Name: "width", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if rt.world == nil {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: rt.world.Width()}, nil
	}}

	values["height"] = &tengo.UserFunction{Name: "height", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if rt.world == nil {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: rt.world.Height()}, nil
	}}

	values["rand_range"] = &tengo.UserFunction{Name: "rand_range", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return &tengo.Float{Value: 0}, nil
		}
		lo, okLo := objectToFloat(args[0])
		hi, okHi := objectToFloat(args[1])
		if !okLo || !okHi {
			return &tengo.Float{Value: 0}, nil
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		return &tengo.Float{Value: lo + rt.roll()*(hi-lo)}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func (rt *Runtime) roll() float64 {
	if rt.rand != nil {
		return rt.rand.Float64()
	}
	return rand.Float64()
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	}
	return 0, false
}

func objectToInt(obj tengo.Object) (int, bool) {
	switch v := obj.(type) {
	case *tengo.Int:
		return int(v.Value), true
	case *tengo.Float:
		return int(v.Value), true
	}
	return 0, false
}
