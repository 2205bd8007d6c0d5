package ollama

import "testing"

func TestModelSupportsToolCalling(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"llama3.1:latest", true},
		{"llama3.2:3b", true},
		{"Llama3.3", true},
		{"llama3:8b", false},
		{"llama3-gradient:latest", false},
		{"qwen2.5-coder:7b", true},
		{"mistral-nemo", true},
		{"codellama:13b", false},
		{"gemma2", false},
		{"some-new-model", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := ModelSupportsToolCalling(tt.model); got != tt.want {
				t.Errorf("ModelSupportsToolCalling(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("", "")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.GetModel() != "llama3.1:latest" {
		t.Errorf("GetModel() = %q, want llama3.1:latest", c.GetModel())
	}
	if !c.SupportsToolCalling() {
		t.Error("default model should support tool calling")
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	if _, err := NewClient("://bad", "llama3.1"); err == nil {
		t.Error("NewClient() with invalid URL should fail")
	}
}
