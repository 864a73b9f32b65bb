package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/notedown/internal/event"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewWithDefaults(t *testing.T) {
	app, err := New(Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer app.Shutdown()

	if app.Config().Editor.DebounceMs <= 0 {
		t.Error("default debounce should be positive")
	}
	if app.Themes().Current().Name != "Default Dark" {
		t.Errorf("theme = %q, want Default Dark", app.Themes().Current().Name)
	}
}

func TestNewWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "notedown.toml", `
[editor]
debounce_ms = 40
mode = "hidden"

[theme]
name = "Light"
`)

	app, err := New(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer app.Shutdown()

	if app.Config().Editor.DebounceMs != 40 {
		t.Errorf("debounce = %d, want 40", app.Config().Editor.DebounceMs)
	}
	if app.Themes().Current().Name != "Light" {
		t.Errorf("theme = %q, want Light", app.Themes().Current().Name)
	}
}

func TestNewRejectsUnknownTheme(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "notedown.toml", "[theme]\nname = \"Nope\"\n")

	if _, err := New(Options{ConfigPath: cfgPath}); err == nil {
		t.Error("expected an error for an unknown theme")
	}
}

func TestThemeFileAndStyleHook(t *testing.T) {
	dir := t.TempDir()
	themePath := writeFile(t, dir, "mytheme.toml", `
name = "Custom"
foreground = "#e0e0e0"
background = "#101010"
`)
	hookPath := writeFile(t, dir, "hook.lua", `
set_style("heading1", { foreground = "#ff0000", bold = true })
`)
	cfgPath := writeFile(t, dir, "notedown.toml", `
[theme]
path = "`+themePath+`"
style_hook = "`+hookPath+`"
`)

	app, err := New(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer app.Shutdown()

	if app.Themes().Current().Name != "Custom" {
		t.Errorf("theme = %q, want Custom", app.Themes().Current().Name)
	}
}

func TestOpenAndCloseSession(t *testing.T) {
	app, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Shutdown()

	s := app.OpenSession("# Hello")
	if _, ok := app.Session(s.ID()); !ok {
		t.Error("opened session should be retrievable")
	}

	app.CloseSession(s.ID())
	if _, ok := app.Session(s.ID()); ok {
		t.Error("closed session should be gone")
	}
}

func TestSetTheme(t *testing.T) {
	app, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Shutdown()

	if err := app.SetTheme("Dracula"); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if app.Themes().Current().Name != "Dracula" {
		t.Errorf("theme = %q, want Dracula", app.Themes().Current().Name)
	}

	if err := app.SetTheme("Nope"); err == nil {
		t.Error("unknown theme should error")
	}
}

func TestConfigReloadRestyles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "notedown.toml", "[editor]\ndebounce_ms = 10\n")

	app, err := New(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Shutdown()

	reloaded := make(chan event.ConfigReloaded, 4)
	app.Bus().Subscribe(event.TopicConfigReloaded, func(ev any) {
		if c, ok := ev.(event.ConfigReloaded); ok {
			reloaded <- c
		}
	})

	writeFile(t, dir, "notedown.toml", "[editor]\ndebounce_ms = 10\nmode = \"hidden\"\n")

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}

	if app.Config().Editor.Mode != "hidden" {
		t.Errorf("mode = %q, want hidden", app.Config().Editor.Mode)
	}
}
