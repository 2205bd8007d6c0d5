package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rtconsole/model"
)

func newTestJournal(t *testing.T) (*Journal, *time.Time) {
	t.Helper()
	j, err := NewJournal(t.TempDir())
	if err != nil {
		t.Fatalf("NewJournal() error = %v", err)
	}
	t.Cleanup(func() { j.Close() })

	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return clock }
	return j, &clock
}

func output(callID, name, args string) model.FunctionCallOutput {
	return model.FunctionCallOutput{
		Type:      model.ItemFunctionCall,
		ID:        "item_" + callID,
		Status:    "completed",
		Name:      name,
		CallID:    callID,
		Arguments: args,
	}
}

func TestJournalFilePermissions(t *testing.T) {
	dir := t.TempDir()
	j, err := NewJournal(dir)
	if err != nil {
		t.Fatalf("NewJournal() error = %v", err)
	}
	defer j.Close()

	info, err := os.Stat(filepath.Join(dir, journalFile))
	if err != nil {
		t.Fatalf("stat journal: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("journal permissions = %o, want 600", perm)
	}
}

func TestRecordOutputUpsertKeepsPosition(t *testing.T) {
	j, _ := newTestJournal(t)

	if err := j.StartSession("s1", "simulator"); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	steps := []model.FunctionCallOutput{
		output("call_a", "calculate", `{"expression":"1 + 1"}`),
		output("call_b", "get_weather", `{"location":"Paris"}`),
		output("call_a", "calculate", `{"expression":"2 + 2"}`),
	}
	for _, out := range steps {
		if err := j.RecordOutput("s1", out); err != nil {
			t.Fatalf("RecordOutput() error = %v", err)
		}
	}

	got, err := j.LoadOutputs("s1")
	if err != nil {
		t.Fatalf("LoadOutputs() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LoadOutputs() returned %d outputs, want 2", len(got))
	}
	if got[0].CallID != "call_b" || got[1].CallID != "call_a" {
		t.Errorf("order = [%s %s], want [call_b call_a]", got[0].CallID, got[1].CallID)
	}
	if got[1].Arguments != `{"expression":"2 + 2"}` {
		t.Errorf("call_a arguments = %s, want replaced value", got[1].Arguments)
	}
	if got[1].Type != model.ItemFunctionCall || got[1].ID != "item_call_a" || got[1].Status != "completed" {
		t.Errorf("call_a = %+v", got[1])
	}
}

func TestOutputsAreScopedToSession(t *testing.T) {
	j, _ := newTestJournal(t)
	_ = j.StartSession("s1", "simulator")
	_ = j.StartSession("s2", "simulator")

	if err := j.RecordOutput("s1", output("call_x", "calculate", "{}")); err != nil {
		t.Fatal(err)
	}
	if err := j.RecordOutput("s2", output("call_x", "get_weather", "{}")); err != nil {
		t.Fatal(err)
	}

	for id, want := range map[string]string{"s1": "calculate", "s2": "get_weather"} {
		got, err := j.LoadOutputs(id)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Name != want {
			t.Errorf("LoadOutputs(%s) = %+v, want one %s", id, got, want)
		}
	}
}

func TestListSessions(t *testing.T) {
	j, clock := newTestJournal(t)

	_ = j.StartSession("old", "openai")
	_ = j.RecordOutput("old", output("call_1", "calculate", "{}"))
	_ = j.RecordOutput("old", output("call_2", "calculate", "{}"))
	if err := j.EndSession("old"); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}

	*clock = clock.Add(time.Hour)
	_ = j.StartSession("new", "realtime")
	// Starting an existing session again is a no-op.
	_ = j.StartSession("new", "simulator")

	sessions, err := j.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("ListSessions() returned %d sessions, want 2", len(sessions))
	}

	newest, oldest := sessions[0], sessions[1]
	if newest.ID != "new" || newest.Transport != "realtime" || newest.EndedAt != nil || newest.OutputCount != 0 {
		t.Errorf("newest = %+v", newest)
	}
	if oldest.ID != "old" || oldest.OutputCount != 2 || oldest.EndedAt == nil {
		t.Errorf("oldest = %+v", oldest)
	}
	if !newest.StartedAt.After(oldest.StartedAt) {
		t.Errorf("StartedAt not ordered: %v <= %v", newest.StartedAt, oldest.StartedAt)
	}
}

func TestExportToJSON(t *testing.T) {
	j, _ := newTestJournal(t)
	_ = j.StartSession("s1", "simulator")
	_ = j.RecordOutput("s1", output("call_1", "generate_color_palette", `{"theme":"ocean"}`))

	path := filepath.Join(t.TempDir(), "exports", "s1.json")
	if err := j.ExportToJSON("s1", path); err != nil {
		t.Fatalf("ExportToJSON() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("export permissions = %o, want 600", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got sessionExport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if got.Session.ID != "s1" || len(got.Outputs) != 1 || got.Outputs[0].Name != "generate_color_palette" {
		t.Errorf("export = %+v", got)
	}

	if err := j.ExportToJSON("missing", path); err == nil {
		t.Error("expected error for unknown session")
	}
}
