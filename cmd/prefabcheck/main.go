package main

import (
	"flag"
	"log"
	"os"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/toybox/effects"
	"github.com/milk9111/toybox/playground"
	"github.com/milk9111/toybox/prefabs"
	"github.com/milk9111/toybox/spawn"
)

// prefabcheck dry-builds every toy and scene prefab so yaml mistakes fail
// here instead of at runtime. Exits non-zero when anything is broken.
func main() {
	verbose := flag.Bool("v", false, "print every checked prefab")
	flag.Parse()

	failures := checkToys(*verbose)
	failures += checkScenes(*verbose)

	if failures > 0 {
		log.Printf("prefabcheck: %d problem(s)", failures)
		os.Exit(1)
	}
	log.Println("prefabcheck: all prefabs ok")
}

func checkToys(verbose bool) int {
	failures := 0
	for _, name := range prefabs.ToyNames() {
		if err := checkToy(name); err != nil {
			log.Printf("toy %s: %v", name, err)
			failures++
			continue
		}
		if verbose {
			log.Printf("toy %s ok", name)
		}
	}
	return failures
}

func checkToy(name string) error {
	spec, err := prefabs.LoadToySpec(name)
	if err != nil {
		return err
	}
	factory, err := spawn.FactoryFor(spec)
	if err != nil {
		return err
	}
	if spec.Static {
		_, err := factory.StaticShapes(cp.NewStaticBody(), 1.0)
		return err
	}
	_, _, err = factory.CreateBody(1.0, spec.Name)
	return err
}

func checkScenes(verbose bool) int {
	failures := 0
	for _, name := range prefabs.SceneNames() {
		n, err := checkScene(name)
		if err != nil {
			log.Printf("scene %s: %v", name, err)
			failures++
			continue
		}
		failures += n
		if verbose && n == 0 {
			log.Printf("scene %s ok", name)
		}
	}
	return failures
}

// checkScene spawns the scene's full contents into a throwaway world and
// compiles its scripts. Returns the number of bad spawns and scripts.
func checkScene(name string) (int, error) {
	scene, err := prefabs.LoadSceneSpec(name)
	if err != nil {
		return 0, err
	}

	world := playground.NewWorld(spawn.WorldConfig(scene))
	failures := 0
	for _, sp := range scene.Spawns {
		spec, err := prefabs.LoadToySpec(sp.Toy)
		if err != nil {
			log.Printf("scene %s: spawn %s: %v", name, sp.Toy, err)
			failures++
			continue
		}
		for _, pos := range spawn.Points(sp, nil) {
			cfg, err := spawn.BuildConfig(spec, pos, nil, nil)
			if err != nil {
				log.Printf("scene %s: spawn %s: %v", name, sp.Toy, err)
				failures++
				continue
			}
			if _, err := playground.NewToy(world, cfg); err != nil {
				log.Printf("scene %s: spawn %s: %v", name, sp.Toy, err)
				failures++
			}
		}
	}

	rt := effects.NewRuntime(world, nil, nil)
	for _, script := range scene.Scripts {
		if err := rt.Load(script); err != nil {
			log.Printf("scene %s: %v", name, err)
			failures++
		}
	}
	return failures, nil
}
