package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rtconsole/catalog"
	"rtconsole/model"
	"rtconsole/storage"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "rtconsole dev") || !strings.Contains(out, "commit: none") {
		t.Errorf("unexpected version output: %s", out)
	}
}

func TestRootCmdHelp(t *testing.T) {
	out, err := runCmd(t, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	for _, sub := range []string{"match", "render", "calc", "prompts", "history", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help output to list %q, got: %s", sub, out)
		}
	}
}

func TestMatchCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"label contains request", []string{"match", "date", "of", "birth"}, "Date of Birth Change", false},
		{"no match", []string{"match", "zzzz"}, "no match", false},
		{"request contains label", []string{"match", "--direction", "request_contains_label", "my new street address is 1 Main St"}, "Address Change", false},
		{"bad direction", []string{"match", "--direction", "sideways", "birth"}, "", true},
		{"missing text", []string{"match"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCmd(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v (output %s)", err, tt.wantErr, out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestMatchCmdJSON(t *testing.T) {
	out, err := runCmd(t, "match", "--json", "birth")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["case_name"] != "Date of Birth Change" || got["case_description"] == "" {
		t.Errorf("suggestion = %v", got)
	}
}

func TestMatchCmdYAMLCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	yaml := `caseTypeRoot:
  candidateCaseTypes:
    - label: Lost Card
      description: Replace a lost member ID card.
      fieldRoot:
        candidateFields:
          - label: Card Number
`
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, "match", "--catalog", path, "card")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if !strings.Contains(out, "Lost Card") {
		t.Errorf("output = %q", out)
	}
}

func TestRenderCmd(t *testing.T) {
	out, err := runCmd(t, "render", catalog.NameCalculate, `{"expression":"6 * 7","result":42}`)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "Calculator") || !strings.Contains(out, "42") {
		t.Errorf("unexpected render output: %s", out)
	}

	out, err = runCmd(t, "render", catalog.NameWeather, `not json`)
	if err == nil {
		t.Error("expected error for malformed arguments")
	}
	if !strings.Contains(out, "Could not render") {
		t.Errorf("expected inline error widget, got: %s", out)
	}
}

func TestCalcCmd(t *testing.T) {
	tests := []struct {
		expr    string
		want    string
		wantErr bool
	}{
		{"2 + 3 * 4", "14", false},
		{"(1 + 2) / 4", "0.75", false},
		{"1 / 0", "", true},
		{"os.Exit(1)", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			out, err := runCmd(t, "calc", tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && strings.TrimSpace(out) != tt.want {
				t.Errorf("calc %q = %q, want %q", tt.expr, out, tt.want)
			}
		})
	}
}

func TestPromptsCmd(t *testing.T) {
	categories := model.PromptCategories()

	out, err := runCmd(t, "prompts")
	if err != nil {
		t.Fatalf("prompts failed: %v", err)
	}
	for _, c := range categories {
		if !strings.Contains(out, c.Key) {
			t.Errorf("category %s missing from %s", c.Key, out)
		}
	}

	out, err = runCmd(t, "prompts", categories[0].Key)
	if err != nil {
		t.Fatalf("prompts %s failed: %v", categories[0].Key, err)
	}
	if got := strings.Count(out, "\n"); got != len(categories[0].Phrases) {
		t.Errorf("printed %d phrases, want %d", got, len(categories[0].Phrases))
	}

	if _, err := runCmd(t, "prompts", "nope"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestHistoryCmd(t *testing.T) {
	dir := t.TempDir()

	journal, err := storage.NewJournal(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := journal.StartSession("sess_1", "simulator"); err != nil {
		t.Fatal(err)
	}
	out := model.FunctionCallOutput{
		Type:      model.ItemFunctionCall,
		Name:      catalog.NameCalculate,
		CallID:    "call_1",
		Arguments: `{"expression":"1 + 1","result":2}`,
	}
	if err := journal.RecordOutput("sess_1", out); err != nil {
		t.Fatal(err)
	}
	if err := journal.Close(); err != nil {
		t.Fatal(err)
	}

	t.Run("list", func(t *testing.T) {
		got, err := runCmd(t, "history", "--data-dir", dir)
		if err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(got, "sess_1") || !strings.Contains(got, "simulator") {
			t.Errorf("unexpected listing: %s", got)
		}
	})

	t.Run("outputs", func(t *testing.T) {
		got, err := runCmd(t, "history", "--data-dir", dir, "sess_1")
		if err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(got, "call_1") || !strings.Contains(got, catalog.NameCalculate) {
			t.Errorf("unexpected outputs: %s", got)
		}
	})

	t.Run("render", func(t *testing.T) {
		got, err := runCmd(t, "history", "--data-dir", dir, "--render", "sess_1")
		if err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(got, "Calculator") {
			t.Errorf("expected rendered widget: %s", got)
		}
	})

	t.Run("export", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sess_1.json")
		if _, err := runCmd(t, "history", "--data-dir", dir, "--export", path, "sess_1"); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"call_1"`) {
			t.Errorf("export missing output: %s", data)
		}
	})

	t.Run("export needs session", func(t *testing.T) {
		if _, err := runCmd(t, "history", "--data-dir", dir, "--export", "x.json"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestCredentialsCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dataDir := t.TempDir()
	t.Setenv("RTCONSOLE_DATA_DIR", dataDir)
	t.Setenv("RTCONSOLE_API_KEY", "")

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader("sk-from-stdin\n"))
	cmd.SetArgs([]string{"credentials", "set", "openai"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("credentials set failed: %v\n%s", err, buf.String())
	}

	data, err := os.ReadFile(filepath.Join(dataDir, "credentials.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "sk-from-stdin") {
		t.Errorf("credentials file = %s", data)
	}

	if _, err := runCmd(t, "credentials", "delete", "openai"); err != nil {
		t.Fatalf("credentials delete failed: %v", err)
	}
	data, err = os.ReadFile(filepath.Join(dataDir, "credentials.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "sk-from-stdin") {
		t.Error("key still present after delete")
	}

	if _, err := runCmd(t, "credentials", "set", "gemini"); err == nil {
		t.Error("expected error for unknown credential id")
	}
}
