package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("QCHAT_CONFIG_HOME", "/tmp/qchat-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/qchat-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/qchat-config")
	}

	t.Setenv("QCHAT_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/qchat" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/qchat")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("QCHAT_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Client.WriteTimeoutDuration() != DefaultWriteTimeout {
		t.Fatalf("write timeout = %v, want %v", cfg.Client.WriteTimeoutDuration(), DefaultWriteTimeout)
	}
	if cfg.Keymap.Unfocused["e"] != "focus_input" {
		t.Fatalf("keymap e = %q, want %q", cfg.Keymap.Unfocused["e"], "focus_input")
	}
	if cfg.Theme.BorderActive != "yellow" || cfg.Theme.BorderHovered != "blue" {
		t.Fatalf("border colors = (%q, %q)", cfg.Theme.BorderActive, cfg.Theme.BorderHovered)
	}
}

func TestLoadWithThemeAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QCHAT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "test.toml"), `
foreground = "#111111"
background = "#222222"
border-active = "#333333"
`)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[client]
address = "chat.example.org:7000"
username = "jane"
write-timeout = "2s"

[layout]
room-list-width = "1/4"
room-list-min-width = 12

[theme]
theme = "test"
input-foreground = "#123456"

[keymap.unfocused]
x = "quit"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Client.Address != "chat.example.org:7000" {
		t.Fatalf("Address = %q", cfg.Client.Address)
	}
	if cfg.Client.Username != "jane" {
		t.Fatalf("Username = %q, want %q", cfg.Client.Username, "jane")
	}
	if got := cfg.Client.WriteTimeoutDuration(); got != 2*time.Second {
		t.Fatalf("WriteTimeout = %v, want 2s", got)
	}
	if cfg.Layout.RoomListWidth != "1/4" || cfg.Layout.RoomListMinWidth != 12 {
		t.Fatalf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.RoomListMaxWidth != "40" {
		t.Fatalf("RoomListMaxWidth = %q, want default %q", cfg.Layout.RoomListMaxWidth, "40")
	}
	if cfg.Theme.Foreground != "#111111" {
		t.Fatalf("Foreground = %q, want %q", cfg.Theme.Foreground, "#111111")
	}
	if cfg.Theme.BorderActive != "#333333" {
		t.Fatalf("BorderActive = %q, want %q", cfg.Theme.BorderActive, "#333333")
	}
	if cfg.Theme.InputForeground != "#123456" {
		t.Fatalf("InputForeground = %q, want %q", cfg.Theme.InputForeground, "#123456")
	}
	if cfg.Keymap.Unfocused["x"] != "quit" {
		t.Fatalf("keymap x = %q, want %q", cfg.Keymap.Unfocused["x"], "quit")
	}
	if cfg.Keymap.Unfocused["r"] != "focus_rooms" {
		t.Fatalf("keymap r = %q, want %q", cfg.Keymap.Unfocused["r"], "focus_rooms")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QCHAT_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[client]
write-timeout = "soon"
`)
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid write-timeout")
	}
}

func TestLoadThemeWrapped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QCHAT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "wrapped.toml"), `
[theme]
foreground = "#aaaaaa"
border-hovered = "#bbbbbb"
`)

	theme, err := LoadTheme("wrapped")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Foreground != "#aaaaaa" {
		t.Fatalf("Foreground = %q, want %q", theme.Foreground, "#aaaaaa")
	}
	if theme.BorderHovered != "#bbbbbb" {
		t.Fatalf("BorderHovered = %q, want %q", theme.BorderHovered, "#bbbbbb")
	}
}

func TestParseDurationFallback(t *testing.T) {
	if got := parseDuration("", time.Second); got != time.Second {
		t.Fatalf("empty = %v, want 1s", got)
	}
	if got := parseDuration("-3s", time.Second); got != time.Second {
		t.Fatalf("negative = %v, want 1s", got)
	}
	if got := parseDuration("250ms", time.Second); got != 250*time.Millisecond {
		t.Fatalf("250ms = %v", got)
	}
}
