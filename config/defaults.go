package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: GetDefaultDataDir(),
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Transport: TransportConfig{
			Kind:          TransportRealtime,
			RealtimeURL:   "wss://api.openai.com/v1/realtime",
			RealtimeModel: "gpt-4o-realtime-preview-2024-12-17",
		},
		Session: DefaultSessionConfig(),
		Cases: CasesConfig{
			MatchDirection: MatchLabelContainsRequest,
			SuggestMode:    SuggestOnSubmit,
		},
		UI: UIConfig{
			DefaultCategory: "colorPalette",
		},
		Security: SecurityConfig{
			Method: SecurityPlainText,
		},
		JournalEnabled: true,
	}
}

func GenerateSystemConfigTemplate() string {
	return `# rtconsole System Configuration
# Location: ~/.config/rtconsole/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the journal, credentials and user config are stored
data_directory = "~/.local/share/rtconsole"
`
}

func GenerateUserConfigTemplate() string {
	return `# rtconsole User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Record function call outputs to <data_directory>/journal.db
journal_enabled = true

[transport]
# realtime | openai | anthropic | ollama | simulator
kind = "realtime"
realtime_url = "wss://api.openai.com/v1/realtime"
realtime_model = "gpt-4o-realtime-preview-2024-12-17"

# Chat bridge settings (openai, anthropic, ollama). Each provider has its
# own default model when this is left out.
# base_url = "http://localhost:11434"
# model = "gpt-4o-mini"

# Verify the API key before opening the realtime socket
preflight = false

[session]
voice = "alloy"
tool_choice = "auto"
temperature = 0.8
max_response_output_tokens = 1000
# instructions = "You are a helpful assistant."

[session.turn_detection]
type = "server_vad"
threshold = 0.5
prefix_padding_ms = 300
silence_duration_ms = 200

[cases]
# JSON or YAML case type catalog; the embedded catalog is used when empty
# catalog_path = "~/cases.json"

# label_contains_request | request_contains_label
match_direction = "label_contains_request"

# submit | transcript | off
suggest_mode = "submit"

[ui]
show_raw = false
default_category = "colorPalette"

[security]
# plaintext | ssh_key
method = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"
`
}
