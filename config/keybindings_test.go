package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetActionKeyDefaults(t *testing.T) {
	kb := DefaultKeybindings()

	tests := map[string]string{
		"toggle_session":   "alt+c",
		"prompt_browser":   "alt+p",
		"half_page_down":   "alt+J",
		"scroll_to_bottom": "alt+G",
		"page_down":        "pgdown",
		"next_category":    "tab",
		"no_such_action":   "",
	}
	for action, want := range tests {
		if got := kb.GetActionKey(action); got != want {
			t.Errorf("GetActionKey(%q) = %q, want %q", action, got, want)
		}
	}
}

func TestSecondaryKey(t *testing.T) {
	tests := []struct {
		secondary string
		key       string
		want      string
	}{
		{"alt+shift", "g", "alt+G"},
		{"ctrl+shift", "k", "ctrl+K"},
		{"shift", "j", "J"},
		{"ctrl+alt", "g", "ctrl+alt+g"},
		{"alt+shift", "pgdown", "alt+shift+pgdown"},
	}
	for _, tt := range tests {
		t.Run(tt.secondary+"/"+tt.key, func(t *testing.T) {
			kb := &KeyBindingsConfig{Modifiers: ModifierConfig{Secondary: tt.secondary}}
			if got := kb.SecondaryKey(tt.key); got != tt.want {
				t.Errorf("SecondaryKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayActionKey(t *testing.T) {
	kb := DefaultKeybindings()
	if got := kb.DisplayActionKey("scroll_to_bottom"); got != "Alt+Shift+G" {
		t.Errorf("DisplayActionKey(scroll_to_bottom) = %q", got)
	}
	if got := kb.DisplayActionKey("help"); got != "Alt+H" {
		t.Errorf("DisplayActionKey(help) = %q", got)
	}
}

func TestLoadKeybindingsFrom(t *testing.T) {
	dir := t.TempDir()

	kb, err := loadKeybindingsFrom(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if kb.GetActionKey("quit") != "alt+q" {
		t.Errorf("missing file should yield defaults, quit = %q", kb.GetActionKey("quit"))
	}

	path := filepath.Join(dir, "keybindings.toml")
	content := `
[modifiers]
primary = "ctrl"

[actions]
toggle_session = "ctrl+o"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	kb, err = loadKeybindingsFrom(path)
	if err != nil {
		t.Fatalf("loadKeybindingsFrom() error = %v", err)
	}
	if got := kb.GetActionKey("toggle_session"); got != "ctrl+o" {
		t.Errorf("override = %q", got)
	}
	if got := kb.GetActionKey("help"); got != "ctrl+h" {
		t.Errorf("primary modifier not applied: %q", got)
	}
	if got := kb.Secondary(); got != "alt+shift" {
		t.Errorf("secondary default = %q", got)
	}

	ok, warning := kb.Validate()
	if !ok || warning == "" {
		t.Errorf("ctrl modifier should be allowed with a warning, got %v %q", ok, warning)
	}
}

func TestValidateRejectsBareShift(t *testing.T) {
	kb := &KeyBindingsConfig{Modifiers: ModifierConfig{Primary: "shift"}}
	if ok, _ := kb.Validate(); ok {
		t.Error("bare shift should be rejected")
	}
}

func TestKeybindingsTemplateYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybindings.toml")
	if err := os.WriteFile(path, []byte(keybindingsTemplate), 0600); err != nil {
		t.Fatal(err)
	}

	kb, err := loadKeybindingsFrom(path)
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	defaults := DefaultKeybindings()
	for action := range actionRegistry {
		if got, want := kb.GetActionKey(action), defaults.GetActionKey(action); got != want {
			t.Errorf("%s = %q, want %q", action, got, want)
		}
	}
}
