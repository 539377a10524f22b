package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed toys/*.yaml scenes/*.yaml
var PrefabsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Load reads a prefab file, preferring an on-disk copy under prefabs/ over
// the embedded one so edits show up without a rebuild.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

// LoadScript reads an effect script by name ("breeze") or path, with the
// same disk-over-embed preference as Load.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// ToyNames lists every toy prefab, embedded and on disk, sorted.
func ToyNames() []string {
	return specNames("toys")
}

// SceneNames lists every scene prefab, embedded and on disk, sorted.
func SceneNames() []string {
	return specNames("scenes")
}

// DiskDirs returns the on-disk directories a dev-mode watcher should follow.
func DiskDirs() []string {
	return []string{
		filepath.Join("prefabs", "toys"),
		filepath.Join("prefabs", "scenes"),
		filepath.Join("prefabs", "scripts"),
	}
}

func specNames(dir string) []string {
	seen := make(map[string]bool)
	if entries, err := PrefabsFS.ReadDir(dir); err == nil {
		for _, e := range entries {
			if !e.IsDir() && isSpecFile(e.Name()) {
				seen[baseName(e.Name())] = true
			}
		}
	}
	if entries, err := os.ReadDir(filepath.Join("prefabs", dir)); err == nil {
		for _, e := range entries {
			if !e.IsDir() && isSpecFile(e.Name()) {
				seen[baseName(e.Name())] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func toyPath(name string) string {
	return specPath("toys", name)
}

func scenePath(name string) string {
	return specPath("scenes", name)
}

func specPath(dir, name string) string {
	if strings.ContainsRune(filepath.ToSlash(name), '/') {
		return name
	}
	if !isSpecFile(name) {
		name += ".yaml"
	}
	return fmt.Sprintf("%s/%s", dir, name)
}

func baseName(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "prefabs/") {
		return strings.TrimPrefix(s, "prefabs/")
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	if !strings.Contains(s, ".") {
		s += ".tengo"
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
