package main

import (
	"fmt"
	"image/color"
	"log"
	"math/rand/v2"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/toybox/assets"
	"github.com/milk9111/toybox/common"
	"github.com/milk9111/toybox/effects"
	"github.com/milk9111/toybox/playground"
	"github.com/milk9111/toybox/prefabs"
	"github.com/milk9111/toybox/settings"
	"github.com/milk9111/toybox/spawn"
)

const (
	stepDT     = 1.0 / 60
	pokeRadius = 140.0
)

type Game struct {
	input    *Input
	world    *playground.World
	pointer  *playground.Pointer
	effects  *effects.Runtime
	settings *settings.Manager
	watcher  *prefabs.Watcher
	ui       *ebitenui.UI
	rand     *rand.Rand

	sprites      map[*playground.Toy]*ToySprite
	sceneName    string
	sceneGravity cp.Vector
	debug        bool
	showPanel    bool
}

func NewGame(sceneName string, debug bool) *Game {
	store := settings.Open()
	saved := store.Get()
	assets.SetVolume(saved.Volume)
	assets.SetMuted(saved.Muted)

	if sceneName == "" {
		sceneName = saved.Scene
	}

	g := &Game{
		input:     NewInput(),
		settings:  store,
		rand:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sprites:   map[*playground.Toy]*ToySprite{},
		debug:     debug || saved.Debug,
		showPanel: true,
	}

	g.LoadScene(sceneName)
	if g.world == nil && sceneName != "default" {
		g.LoadScene("default")
	}
	if g.world == nil {
		// keep the app usable even with no loadable scenes
		g.applyScene(prefabs.SceneSpec{
			Name:    "empty",
			Width:   common.BaseWidth,
			Height:  common.BaseHeight,
			Gravity: prefabs.GravitySpec{Y: 900},
		})
		g.sceneName = "empty"
	}

	g.ui = NewPaletteUI(g, prefabs.ToyNames(), prefabs.SceneNames())

	watcher, err := prefabs.NewWatcher(prefabs.DiskDirs()...)
	if err != nil {
		log.Printf("Game: prefab watcher disabled: %v", err)
	} else {
		g.watcher = watcher
	}

	return g
}

func (g *Game) Update() error {
	g.input.Update()
	g.handleToggles()

	state := playground.PointerState{
		Pos:          cp.Vector{X: g.input.CursorX, Y: g.input.CursorY},
		Pressed:      g.input.LeftHeld,
		JustPressed:  g.input.LeftPressed,
		JustReleased: g.input.LeftReleased,
	}
	if g.overPanel() && g.pointer.Dragged() == nil {
		// presses over the palette belong to the UI
		state.Pressed = false
		state.JustPressed = false
		state.JustReleased = false
	}

	was := g.pointer.Dragged()
	g.pointer.Dispatch(state)
	if now := g.pointer.Dragged(); now != was {
		if now != nil {
			assets.PlayGrab()
		} else {
			assets.PlayRelease()
		}
	}

	if g.input.RightPressed && !g.overPanel() {
		if t := g.nearestToy(state.Pos, pokeRadius); t != nil {
			t.ApplyClick(state.Pos)
			assets.PlayShove()
		}
	}

	g.effects.Tick(stepDT)
	g.world.Step(stepDT)

	if g.showPanel {
		g.ui.Update()
	}

	g.drainPrefabChanges()
	g.dropDeadSprites()

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x1e, G: 0x20, B: 0x26, A: 0xff})

	for _, t := range g.world.Toys() {
		if sp := g.sprites[t]; sp != nil {
			sp.Draw(screen)
		}
	}

	if g.debug {
		DrawWorldDebug(g.world, screen)
	}

	if g.showPanel {
		g.ui.Draw(screen)
	}

	ebitenutil.DebugPrintAt(screen, g.hudText(), g.hudX(), 8)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// LoadScene replaces the current world with the named scene. The current
// scene stays up if loading fails.
func (g *Game) LoadScene(name string) {
	scene, err := prefabs.LoadSceneSpec(name)
	if err != nil {
		log.Printf("Game: load scene %s: %v", name, err)
		return
	}

	g.applyScene(scene)
	g.sceneName = scene.Name
	g.settings.SetScene(scene.Name)
	if err := g.settings.Save(); err != nil {
		log.Printf("Game: save settings: %v", err)
	}
	log.Printf("Game: loaded scene %s (%d toys)", scene.Name, len(g.world.Toys()))
}

func (g *Game) applyScene(scene prefabs.SceneSpec) {
	g.world = playground.NewWorld(spawn.WorldConfig(scene))
	g.sceneGravity = g.world.Gravity()
	g.world.SetImpactFunc(func(a, b *playground.Toy, speed float64) {
		assets.PlayThud(speed)
	})
	g.pointer = playground.NewPointer(g.world)
	g.effects = effects.NewRuntime(g.world, g.SpawnNamedAt, g.rand)
	g.sprites = map[*playground.Toy]*ToySprite{}

	for _, sp := range scene.Spawns {
		spec, err := prefabs.LoadToySpec(sp.Toy)
		if err != nil {
			log.Printf("Game: scene %s: %v", scene.Name, err)
			continue
		}
		for _, pos := range spawn.Points(sp, g.rand) {
			if err := g.spawnToy(spec, pos); err != nil {
				log.Printf("Game: spawn %s: %v", sp.Toy, err)
			}
		}
	}

	for _, script := range scene.Scripts {
		if err := g.effects.Load(script); err != nil {
			log.Printf("Game: %v", err)
		}
	}
}

// SpawnNamed drops one instance of the named toy prefab into the play area.
func (g *Game) SpawnNamed(name string) {
	x := paletteWidth + (g.world.Width()-paletteWidth)/2 + (g.rand.Float64()*2-1)*120
	y := g.world.Height() * 0.2
	if err := g.SpawnNamedAt(name, x, y); err != nil {
		log.Printf("Game: spawn %s: %v", name, err)
	}
}

// SpawnNamedAt spawns the named toy prefab at an exact point. Effect
// scripts use this as their spawn callback.
func (g *Game) SpawnNamedAt(name string, x, y float64) error {
	spec, err := prefabs.LoadToySpec(name)
	if err != nil {
		return err
	}
	return g.spawnToy(spec, cp.Vector{X: x, Y: y})
}

func (g *Game) spawnToy(spec prefabs.ToySpec, pos cp.Vector) error {
	defID, hovID := spawn.ImageIDs(spec)
	assets.EnsureToyImages(spec, defID, hovID)

	sprite := NewToySprite()
	cfg, err := spawn.BuildConfig(spec, pos, sprite, g.rand)
	if err != nil {
		return err
	}
	toy, err := playground.NewToy(g.world, cfg)
	if err != nil {
		return err
	}
	sprite.bind(toy)
	g.sprites[toy] = sprite
	return nil
}

func (g *Game) ClearToys() {
	for _, t := range g.world.Toys() {
		t.Destroy()
	}
	g.sprites = map[*playground.Toy]*ToySprite{}
}

func (g *Game) ToggleMute() {
	g.SetMuted(!g.settings.Get().Muted)
	if err := g.settings.Save(); err != nil {
		log.Printf("Game: save settings: %v", err)
	}
}

func (g *Game) SetMuted(muted bool) {
	g.settings.SetMuted(muted)
	assets.SetMuted(muted)
}

func (g *Game) ToggleDebug() {
	g.debug = !g.debug
	g.settings.SetDebug(g.debug)
	if err := g.settings.Save(); err != nil {
		log.Printf("Game: save settings: %v", err)
	}
}

// ToggleGravity flips between the scene's gravity and none. Effect scripts
// may have moved gravity elsewhere; any non-zero value counts as on.
func (g *Game) ToggleGravity() {
	if v := g.world.Gravity(); v.X != 0 || v.Y != 0 {
		g.world.SetGravity(cp.Vector{})
		return
	}
	g.world.SetGravity(g.sceneGravity)
}

func (g *Game) handleToggles() {
	if g.input.ToggleDebug {
		g.ToggleDebug()
	}
	if g.input.ToggleMute {
		g.ToggleMute()
	}
	if g.input.TogglePanel {
		g.showPanel = !g.showPanel
	}
	if g.input.ResetScene {
		g.LoadScene(g.sceneName)
	}
}

func (g *Game) overPanel() bool {
	return g.showPanel && g.input.CursorX < paletteWidth
}

func (g *Game) nearestToy(p cp.Vector, within float64) *playground.Toy {
	var best *playground.Toy
	bestDist := within
	for _, t := range g.world.Toys() {
		if t.Static() {
			continue
		}
		dist := t.Position().Sub(p).Length()
		if dist <= bestDist {
			best = t
			bestDist = dist
		}
	}
	return best
}

func (g *Game) drainPrefabChanges() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case c, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyPrefabChange(c)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("Game: prefab watcher: %v", err)
		default:
			return
		}
	}
}

func (g *Game) applyPrefabChange(c prefabs.Change) {
	switch c.Kind {
	case prefabs.ChangeScript:
		if err := g.effects.Load(c.Name); err != nil {
			log.Printf("Game: reload script %s: %v", c.Name, err)
			return
		}
		log.Printf("Game: reloaded script %s", c.Name)
	case prefabs.ChangeToy:
		g.reloadToy(c.Name)
	case prefabs.ChangeScene:
		if c.Name != g.sceneName {
			return
		}
		log.Printf("Game: scene %s changed, reloading", c.Name)
		g.LoadScene(c.Name)
	}
}

// reloadToy rebuilds the named prefab's sprites and respawns its live
// instances in place so an edited yaml shows up without a restart.
func (g *Game) reloadToy(name string) {
	spec, err := prefabs.LoadToySpec(name)
	if err != nil {
		log.Printf("Game: reload toy %s: %v", name, err)
		return
	}
	defID, hovID := spawn.ImageIDs(spec)
	assets.Invalidate(defID, hovID)

	for _, t := range g.world.Toys() {
		if t.Name() != name {
			continue
		}
		pos := t.Position()
		delete(g.sprites, t)
		t.Destroy()
		if err := g.spawnToy(spec, pos); err != nil {
			log.Printf("Game: respawn %s: %v", name, err)
		}
	}
	log.Printf("Game: reloaded toy %s", name)
}

func (g *Game) dropDeadSprites() {
	for t := range g.sprites {
		if !t.Alive() {
			delete(g.sprites, t)
		}
	}
}

func (g *Game) hudText() string {
	hud := fmt.Sprintf("FPS: %.2f    Toys: %d    Scene: %s", ebiten.ActualFPS(), len(g.world.Toys()), g.sceneName)
	if g.settings.Get().Muted {
		hud += "    [muted]"
	}
	if g.debug {
		hud += "    [debug]"
	}
	if broken := g.effects.Broken(); len(broken) > 0 {
		hud += "\nbroken scripts: " + strings.Join(broken, ", ")
	}
	return hud
}

func (g *Game) hudX() int {
	if g.showPanel {
		return paletteWidth + 10
	}
	return 10
}
