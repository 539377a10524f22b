package settings

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

func tempStore(t *testing.T) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	store, err := gdata.Open(gdata.Config{AppName: "toybox_test"})
	if err != nil {
		t.Fatalf("gdata.Open failed: %v", err)
	}
	return store
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.Volume != 0.8 {
		t.Fatalf("volume = %v, want 0.8", d.Volume)
	}
	if d.Scene != "default" {
		t.Fatalf("scene = %q, want default", d.Scene)
	}
	if d.Muted || d.Debug {
		t.Fatalf("defaults = %+v, want muted and debug off", d)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := tempStore(t)

	m := NewManager(store)
	m.SetVolume(0.35)
	m.SetMuted(true)
	m.SetScene("zerog")
	m.SetDebug(true)
	if err := m.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fresh := NewManager(store)
	got := fresh.Get()
	if got.Volume != 0.35 || !got.Muted || got.Scene != "zerog" || !got.Debug {
		t.Fatalf("loaded settings = %+v", got)
	}
}

func TestNilStore(t *testing.T) {
	m := NewManager(nil)
	if got := m.Get(); got != Defaults() {
		t.Fatalf("settings = %+v, want defaults", got)
	}

	m.SetScene("zerog")
	if err := m.Save(); err != nil {
		t.Fatalf("in-memory save errored: %v", err)
	}
	if m.Get().Scene != "zerog" {
		t.Fatalf("in-memory change lost")
	}
}

func TestSetVolumeClamps(t *testing.T) {
	m := NewManager(nil)

	m.SetVolume(1.7)
	if m.Get().Volume != 1 {
		t.Fatalf("volume = %v, want clamped to 1", m.Get().Volume)
	}
	m.SetVolume(-0.2)
	if m.Get().Volume != 0 {
		t.Fatalf("volume = %v, want clamped to 0", m.Get().Volume)
	}
}

func TestSetSceneIgnoresEmpty(t *testing.T) {
	m := NewManager(nil)
	m.SetScene("")
	if m.Get().Scene != "default" {
		t.Fatalf("scene = %q, want default kept", m.Get().Scene)
	}
}
