package cases

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.json
var defaultCatalogJSON []byte

// catalogFile is the externally owned document shape:
//
//	{"caseTypeRoot": {"candidateCaseTypes": [
//	    {"label": "...", "description": "...",
//	     "fieldRoot": {"candidateFields": [{"label": "..."}]}}]}}
type catalogFile struct {
	CaseTypeRoot struct {
		CandidateCaseTypes []struct {
			Label       string `json:"label" yaml:"label"`
			Description string `json:"description" yaml:"description"`
			FieldRoot   struct {
				CandidateFields []Field `json:"candidateFields" yaml:"candidateFields"`
			} `json:"fieldRoot" yaml:"fieldRoot"`
		} `json:"candidateCaseTypes" yaml:"candidateCaseTypes"`
	} `json:"caseTypeRoot" yaml:"caseTypeRoot"`
}

func (f catalogFile) catalog() Catalog {
	out := make(Catalog, 0, len(f.CaseTypeRoot.CandidateCaseTypes))
	for _, ct := range f.CaseTypeRoot.CandidateCaseTypes {
		out = append(out, CaseType{
			Label:       ct.Label,
			Description: ct.Description,
			Fields:      ct.FieldRoot.CandidateFields,
		})
	}
	return out
}

// ParseJSON decodes a catalog document.
func ParseJSON(data []byte) (Catalog, error) {
	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse case catalog: %w", err)
	}
	return f.catalog(), nil
}

// ParseYAML decodes a catalog document written in YAML with the same shape.
func ParseYAML(data []byte) (Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse case catalog: %w", err)
	}
	return f.catalog(), nil
}

// LoadFile reads a catalog from disk. .yaml and .yml files are parsed as
// YAML, everything else as JSON.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case catalog: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// Default returns the catalog compiled into the binary.
func Default() Catalog {
	c, err := ParseJSON(defaultCatalogJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded case catalog is invalid: %v", err))
	}
	return c
}

// Load returns the catalog at path, or the embedded default when path is empty.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
