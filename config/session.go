package config

// TurnDetection mirrors the realtime server VAD settings.
type TurnDetection struct {
	Type              string  `toml:"type" json:"type"`
	Threshold         float64 `toml:"threshold" json:"threshold"`
	PrefixPaddingMS   int     `toml:"prefix_padding_ms" json:"prefix_padding_ms"`
	SilenceDurationMS int     `toml:"silence_duration_ms" json:"silence_duration_ms"`
}

// SessionConfig is the fixed configuration sent once per session in the
// session.update command. It is copied by value into the controller and
// never mutated after startup.
type SessionConfig struct {
	Voice              string        `toml:"voice"`
	Instructions       string        `toml:"instructions"`
	ToolChoice         string        `toml:"tool_choice"`
	InputAudioFormat   string        `toml:"input_audio_format"`
	OutputAudioFormat  string        `toml:"output_audio_format"`
	TranscriptionModel string        `toml:"transcription_model"`
	TurnDetection      TurnDetection `toml:"turn_detection"`
	Temperature        float64       `toml:"temperature"`
	MaxOutputTokens    int           `toml:"max_response_output_tokens"`
}

// DefaultPersona is the customer role-play the console ships with. A live
// agent practices against it while the case matcher suggests what to open.
const DefaultPersona = `Act as John Smith, a customer who has contacted Elevance Health through the chatbot on their website. The purpose of this conversation is to simulate a real-world Elevance Health customer (John Smith) so that a live customer service representative (AGENT) can gain practical experience interacting with customers. The responses that are generated for John Smith should reflect their mood, personality and the task at hand. Responses should be 1-4 sentences and as realistic as possible.

You must act as:
Name: John Smith
DOB: 01/01/1995
Age: 30
Address: 123 Main street, Melrose, MA 02176
Email: John.smith@Dell.com
Phone: 1-203-245-1234
Occupation/Employment: Software engineer
Reason for contact: Date of Birth Change
Mood: "happy"

VERY IMPORTANT - You must adhere to the following rules:

1) Every response that you generate must be written in the tone and voice of John Smith.
2) Whenever providing new information with Elevance Health (anything that does not exist in your customer persona) you must use realistic and believable mock data. e.g. for address make up something like 55 Elm Street West, East Boston, MA 12345`

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Voice:              "alloy",
		Instructions:       DefaultPersona,
		ToolChoice:         "auto",
		InputAudioFormat:   "pcm16",
		OutputAudioFormat:  "pcm16",
		TranscriptionModel: "whisper-1",
		TurnDetection: TurnDetection{
			Type:              "server_vad",
			Threshold:         0.5,
			PrefixPaddingMS:   300,
			SilenceDurationMS: 200,
		},
		Temperature:     0.8,
		MaxOutputTokens: 1000,
	}
}
