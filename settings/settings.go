package settings

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/toybox/common"
)

const (
	settingsObject = "toybox"
	settingsProp   = "settings"
)

// Settings holds the preferences worth keeping between sessions.
type Settings struct {
	Volume float64 `yaml:"volume"`
	Muted  bool    `yaml:"muted"`
	Scene  string  `yaml:"scene"`
	Debug  bool    `yaml:"debug"`
}

func Defaults() Settings {
	return Settings{
		Volume: 0.8,
		Scene:  "default",
	}
}

// Manager loads and saves settings through gdata. A nil store keeps
// everything in memory so the game still runs on locked-down systems.
type Manager struct {
	store    *gdata.Manager
	settings Settings
}

// Open builds a manager backed by the platform's per-app data directory.
func Open() *Manager {
	store, err := gdata.Open(gdata.Config{AppName: "toybox"})
	if err != nil {
		log.Printf("Settings: storage unavailable, keeping settings in memory: %v", err)
		return NewManager(nil)
	}
	return NewManager(store)
}

func NewManager(store *gdata.Manager) *Manager {
	m := &Manager{
		store:    store,
		settings: Defaults(),
	}
	if err := m.Load(); err != nil {
		log.Printf("Settings: load failed, using defaults: %v", err)
	}
	return m
}

func (m *Manager) Load() error {
	if m == nil || m.store == nil {
		return nil
	}
	if !m.store.ObjectPropExists(settingsObject, settingsProp) {
		return nil
	}

	data, err := m.store.LoadObjectProp(settingsObject, settingsProp)
	if err != nil {
		return fmt.Errorf("settings: load: %w", err)
	}

	loaded := Defaults()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("settings: unmarshal: %w", err)
	}

	m.settings = loaded
	return nil
}

func (m *Manager) Save() error {
	if m == nil || m.store == nil {
		return nil
	}

	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := m.store.SaveObjectProp(settingsObject, settingsProp, data); err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}

func (m *Manager) Get() Settings {
	if m == nil {
		return Defaults()
	}
	return m.settings
}

func (m *Manager) SetVolume(v float64) {
	if m == nil {
		return
	}
	m.settings.Volume = common.Clamp(v, 0, 1)
}

func (m *Manager) SetMuted(muted bool) {
	if m == nil {
		return
	}
	m.settings.Muted = muted
}

func (m *Manager) SetScene(scene string) {
	if m == nil || scene == "" {
		return
	}
	m.settings.Scene = scene
}

func (m *Manager) SetDebug(debug bool) {
	if m == nil {
		return
	}
	m.settings.Debug = debug
}
