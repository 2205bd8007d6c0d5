package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// KeyBindingsConfig holds modifier customization and optional per-action overrides
type KeyBindingsConfig struct {
	Modifiers ModifierConfig    `toml:"modifiers"`
	Actions   map[string]string `toml:"actions"`
}

type ModifierConfig struct {
	Primary   string `toml:"primary"`
	Secondary string `toml:"secondary"`
}

type actionDef struct {
	modifier string // "primary", "secondary", or "none"
	key      string
}

var actionRegistry = map[string]actionDef{
	// Main view
	"help":           {"primary", "h"},
	"quit":           {"primary", "q"},
	"toggle_session": {"primary", "c"},
	"toggle_raw":     {"primary", "r"},
	"yank_output":    {"primary", "y"},
	"prompt_browser": {"primary", "p"},
	"case_browser":   {"primary", "f"},
	"session_info":   {"primary", "i"},
	"clear_input":    {"primary", "u"},

	// Main view - scrolling
	"scroll_down":      {"primary", "j"},
	"scroll_up":        {"primary", "k"},
	"half_page_down":   {"secondary", "j"},
	"half_page_up":     {"secondary", "k"},
	"page_down":        {"none", "pgdown"},
	"page_up":          {"none", "pgup"},
	"scroll_to_top":    {"primary", "g"},
	"scroll_to_bottom": {"secondary", "g"},

	// Lists inside modals
	"list_down":       {"primary", "j"},
	"list_up":         {"primary", "k"},
	"list_down_arrow": {"none", "down"},
	"list_up_arrow":   {"none", "up"},
	"next_category":   {"none", "tab"},
	"prev_category":   {"none", "shift+tab"},
}

func DefaultKeybindings() *KeyBindingsConfig {
	return &KeyBindingsConfig{
		Modifiers: ModifierConfig{
			Primary:   "alt",
			Secondary: "alt+shift",
		},
	}
}

// LoadKeybindings reads keybindings.toml from the config directory. The file
// is optional; a missing file yields the defaults.
func LoadKeybindings() (*KeyBindingsConfig, error) {
	return loadKeybindingsFrom(GetKeybindingsFilePath())
}

func loadKeybindingsFrom(path string) (*KeyBindingsConfig, error) {
	cfg := DefaultKeybindings()
	if !FileExists(path) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse keybindings: %w", err)
	}

	if cfg.Modifiers.Primary == "" {
		cfg.Modifiers.Primary = "alt"
	}
	if cfg.Modifiers.Secondary == "" {
		cfg.Modifiers.Secondary = "alt+shift"
	}
	return cfg, nil
}

// WriteKeybindingsTemplate writes the commented template if no file exists yet.
func WriteKeybindingsTemplate() error {
	if err := EnsureDir(GetConfigDir()); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path := GetKeybindingsFilePath()
	if FileExists(path) {
		return nil
	}
	if err := os.WriteFile(path, []byte(keybindingsTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write keybindings: %w", err)
	}
	return nil
}

const keybindingsTemplate = `# rtconsole Keybindings
# Location: ~/.config/rtconsole/keybindings.toml

[modifiers]
primary = "alt"          # alt, ctrl, meta, super
secondary = "alt+shift"

[actions]
# toggle_session = "ctrl+o"
# prompt_browser = "ctrl+p"
# quit = "ctrl+shift+q"
`

func (kb *KeyBindingsConfig) Primary() string {
	if kb.Modifiers.Primary == "" {
		return "alt"
	}
	return kb.Modifiers.Primary
}

func (kb *KeyBindingsConfig) Secondary() string {
	if kb.Modifiers.Secondary == "" {
		return "alt+shift"
	}
	return kb.Modifiers.Secondary
}

func (kb *KeyBindingsConfig) PrimaryKey(key string) string {
	return kb.Primary() + "+" + key
}

// SecondaryKey folds shift into an uppercase letter for single-letter keys,
// which is what terminals report: "alt+shift" + "g" is "alt+G".
func (kb *KeyBindingsConfig) SecondaryKey(key string) string {
	secondary := kb.Secondary()

	if strings.Contains(strings.ToLower(secondary), "shift") && len(key) == 1 && key[0] >= 'a' && key[0] <= 'z' {
		var mods []string
		for _, part := range strings.Split(secondary, "+") {
			if strings.ToLower(part) != "shift" {
				mods = append(mods, part)
			}
		}
		if len(mods) > 0 {
			return strings.Join(mods, "+") + "+" + strings.ToUpper(key)
		}
		return strings.ToUpper(key)
	}

	return secondary + "+" + key
}

// GetActionKey returns the user override for action, else its registry default.
// Unknown actions return "".
func (kb *KeyBindingsConfig) GetActionKey(action string) string {
	if override, ok := kb.Actions[action]; ok && override != "" {
		return override
	}

	def, ok := actionRegistry[action]
	if !ok {
		return ""
	}
	switch def.modifier {
	case "primary":
		return kb.PrimaryKey(def.key)
	case "secondary":
		return kb.SecondaryKey(def.key)
	default:
		return def.key
	}
}

// DisplayActionKey formats an action's binding for help text: "alt+G" -> "Alt+Shift+G".
func (kb *KeyBindingsConfig) DisplayActionKey(action string) string {
	key := kb.GetActionKey(action)
	if key == "" {
		return ""
	}

	parts := strings.Split(key, "+")
	hasShift := false
	for _, p := range parts {
		if strings.ToLower(p) == "shift" {
			hasShift = true
		}
	}

	var out []string
	for i, part := range parts {
		if part == "" {
			continue
		}
		if len(part) == 1 && part[0] >= 'A' && part[0] <= 'Z' && !hasShift && i > 0 {
			out = append(out, "Shift")
		}
		out = append(out, strings.ToUpper(part[:1])+part[1:])
	}
	return strings.Join(out, "+")
}

// Validate returns whether the modifiers are usable and an optional warning.
func (kb *KeyBindingsConfig) Validate() (bool, string) {
	primary := kb.Primary()
	secondary := kb.Secondary()

	if primary == "shift" || secondary == "shift" {
		return false, "Shift alone conflicts with typing"
	}
	if strings.Contains(primary, "ctrl") || strings.Contains(secondary, "ctrl") {
		return true, "Warning: Ctrl may conflict with terminal shortcuts (Ctrl+C, Ctrl+Z, Ctrl+D)"
	}
	return true, ""
}
