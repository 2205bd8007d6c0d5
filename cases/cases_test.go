package cases

import (
	"os"
	"path/filepath"
	"testing"
)

func testCatalog() Catalog {
	return Catalog{
		{
			Label:       "Address Change",
			Description: "Update address",
			Fields:      []Field{{Label: "Street Address"}, {Label: "City"}},
		},
		{
			Label:       "Date of Birth Change",
			Description: "Correct date of birth",
			Fields:      []Field{{Label: "Member ID"}, {Label: "Date of Birth"}},
		},
		{
			Label:       "Dependent Enrollment",
			Description: "Add a dependent",
			Fields:      []Field{{Label: "Dependent Date of Birth"}},
		},
	}
}

func TestMatchLabelContainsRequest(t *testing.T) {
	tests := []struct {
		name    string
		request string
		wantOK  bool
		want    string
	}{
		{"field substring", "birth", true, "Date of Birth Change"},
		{"case insensitive", "BIRTH", true, "Date of Birth Change"},
		{"no match", "ocean", false, ""},
		{"first field wins in catalog order", "city", true, "Address Change"},
		{"later case only", "dependent", true, "Dependent Enrollment"},
		{"empty request matches first field", "", true, "Address Change"},
		{"whitespace request", "   ", false, ""},
		{"request longer than label", "my date of birth is wrong", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(tt.request, testCatalog(), LabelContainsRequest)
			if ok != tt.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.request, ok, tt.wantOK)
			}
			if got.CaseName != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.request, got.CaseName, tt.want)
			}
		})
	}
}

func TestMatchRequestContainsLabel(t *testing.T) {
	got, ok := Match("I need to fix my Date of Birth please", testCatalog(), RequestContainsLabel)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.CaseName != "Date of Birth Change" || got.CaseDescription != "Correct date of birth" {
		t.Errorf("unexpected suggestion %+v", got)
	}

	if _, ok := Match("birth", testCatalog(), RequestContainsLabel); ok {
		t.Error("short request should not contain any full label")
	}
}

func TestMatchEmptyCatalog(t *testing.T) {
	if _, ok := Match("birth", nil, LabelContainsRequest); ok {
		t.Error("expected no match against empty catalog")
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if len(c) == 0 {
		t.Fatal("embedded catalog is empty")
	}

	got, ok := Match("Member Date of Birth", c, LabelContainsRequest)
	if !ok || got.CaseName != "Date of Birth Change" {
		t.Errorf("expected Date of Birth Change, got %+v (ok=%v)", got, ok)
	}
	if _, ok := Match("ocean", c, LabelContainsRequest); ok {
		t.Error("ocean should not match the default catalog")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "cases.json")
	jsonDoc := `{"caseTypeRoot":{"candidateCaseTypes":[{"label":"Refund","description":"Issue a refund","fieldRoot":{"candidateFields":[{"label":"Order Number"}]}}]}}`
	if err := os.WriteFile(jsonPath, []byte(jsonDoc), 0600); err != nil {
		t.Fatal(err)
	}

	yamlPath := filepath.Join(dir, "cases.yaml")
	yamlDoc := `caseTypeRoot:
  candidateCaseTypes:
    - label: Refund
      description: Issue a refund
      fieldRoot:
        candidateFields:
          - label: Order Number
`
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0600); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, yamlPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			c, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if len(c) != 1 || c[0].Label != "Refund" || len(c[0].Fields) != 1 || c[0].Fields[0].Label != "Order Number" {
				t.Errorf("unexpected catalog %+v", c)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(bad); err == nil {
		t.Error("expected parse error")
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected read error")
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if len(c) != len(Default()) {
		t.Errorf("expected default catalog, got %d entries", len(c))
	}
}

func TestSearch(t *testing.T) {
	c := testCatalog()

	if got := Search("", c); len(got) != len(c) {
		t.Errorf("empty query should return everything, got %d", len(got))
	}

	got := Search("dob", c)
	if len(got) == 0 || got[0].Label != "Date of Birth Change" {
		t.Errorf("expected Date of Birth Change first, got %v", got.Labels())
	}

	if got := Search("zzz", c); len(got) != 0 {
		t.Errorf("expected no results, got %v", got.Labels())
	}
}
