package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Transport kinds accepted in [transport].kind
const (
	TransportRealtime  = "realtime"
	TransportOpenAI    = "openai"
	TransportAnthropic = "anthropic"
	TransportOllama    = "ollama"
	TransportSimulator = "simulator"
)

// Case suggestion triggers accepted in [cases].suggest_mode
const (
	SuggestOnSubmit     = "submit"
	SuggestOnTranscript = "transcript"
	SuggestOff          = "off"
)

// Match directions accepted in [cases].match_direction
const (
	MatchLabelContainsRequest = "label_contains_request"
	MatchRequestContainsLabel = "request_contains_label"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type TransportConfig struct {
	Kind          string `toml:"kind"`
	RealtimeURL   string `toml:"realtime_url"`
	RealtimeModel string `toml:"realtime_model"`
	BaseURL       string `toml:"base_url"`
	Model         string `toml:"model"`
	Preflight     bool   `toml:"preflight"`
}

type CasesConfig struct {
	CatalogPath    string `toml:"catalog_path,omitempty"`
	MatchDirection string `toml:"match_direction"`
	SuggestMode    string `toml:"suggest_mode"`
}

type UIConfig struct {
	ShowRaw         bool   `toml:"show_raw"`
	DefaultCategory string `toml:"default_category"`
}

type SecurityConfig struct {
	Method     SecurityMethod `toml:"method"`
	SSHKeyPath string         `toml:"ssh_key_path,omitempty"`
}

type UserConfig struct {
	Transport      TransportConfig `toml:"transport"`
	Session        SessionConfig   `toml:"session"`
	Cases          CasesConfig     `toml:"cases"`
	UI             UIConfig        `toml:"ui"`
	Security       SecurityConfig  `toml:"security"`
	JournalEnabled bool            `toml:"journal_enabled"`
}

type Config struct {
	DataDirectory   string
	Transport       TransportConfig
	Session         SessionConfig
	Cases           CasesConfig
	UI              UIConfig
	Security        SecurityConfig
	JournalEnabled  bool
	CredentialStore *CredentialStore

	apiKeyOverride string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// CredentialID maps the configured transport to the credential it needs.
// Ollama and the simulator need none.
func (c *Config) CredentialID() string {
	switch c.Transport.Kind {
	case TransportRealtime, TransportOpenAI:
		return "openai"
	case TransportAnthropic:
		return "anthropic"
	default:
		return ""
	}
}

// APIKey returns the key for the configured transport.
// RTCONSOLE_API_KEY wins over the credential store.
func (c *Config) APIKey() string {
	if c.apiKeyOverride != "" {
		return c.apiKeyOverride
	}
	id := c.CredentialID()
	if id == "" || c.CredentialStore == nil {
		return ""
	}
	return c.CredentialStore.Get(id)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("RTCONSOLE_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if kind := os.Getenv("RTCONSOLE_TRANSPORT"); kind != "" {
		c.Transport.Kind = strings.ToLower(kind)
	}
	if key := os.Getenv("RTCONSOLE_API_KEY"); key != "" {
		c.apiKeyOverride = key
	}
}

// Validate rejects enum values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Transport.Kind {
	case TransportRealtime, TransportOpenAI, TransportAnthropic, TransportOllama, TransportSimulator:
	default:
		return fmt.Errorf("unknown transport kind %q", c.Transport.Kind)
	}

	switch c.Cases.MatchDirection {
	case MatchLabelContainsRequest, MatchRequestContainsLabel:
	default:
		return fmt.Errorf("unknown match direction %q", c.Cases.MatchDirection)
	}

	switch c.Cases.SuggestMode {
	case SuggestOnSubmit, SuggestOnTranscript, SuggestOff:
	default:
		return fmt.Errorf("unknown suggest mode %q", c.Cases.SuggestMode)
	}

	switch c.Security.Method {
	case SecurityPlainText, SecuritySSHKey:
	default:
		return fmt.Errorf("unknown security method %q", c.Security.Method)
	}

	return nil
}

func CheckDebug() bool {
	debug := os.Getenv("RTCONSOLE_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - the log may contain prompts and function call payloads
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (RTCONSOLE_DEBUG=%s) ===", os.Getenv("RTCONSOLE_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func Load() (*Config, error) {
	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	cfg := &Config{DataDirectory: systemCfg.DataDirectory}
	if dataDir := os.Getenv("RTCONSOLE_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.Transport = userCfg.Transport
	cfg.Session = userCfg.Session
	cfg.Cases = userCfg.Cases
	cfg.UI = userCfg.UI
	cfg.Security = userCfg.Security
	cfg.JournalEnabled = userCfg.JournalEnabled

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := NewCredentialStore(cfg.Security.Method, ExpandPath(cfg.Security.SSHKeyPath))
	if passphrase := os.Getenv("RTCONSOLE_SSH_PASSPHRASE"); passphrase != "" {
		store.SetPassphrase(passphrase)
	}
	if err := store.Load(dataDir); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	cfg.CredentialStore = store

	return cfg, nil
}
