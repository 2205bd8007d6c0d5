// Package cases suggests a case type for a free-text customer request.
//
// The matcher is a literal, case-insensitive substring test over the field
// labels of a static catalog. It does no scoring or tokenization.
package cases

import "strings"

type Field struct {
	Label string `json:"label" yaml:"label"`
}

type CaseType struct {
	Label       string
	Description string
	Fields      []Field
}

// Catalog is read-only once loaded; order is significant.
type Catalog []CaseType

// Suggestion is the payload of a suggest_case command.
type Suggestion struct {
	CaseName        string `json:"case_name"`
	CaseDescription string `json:"case_description"`
}

// Direction chooses which side of the containment test is the needle.
type Direction string

const (
	// LabelContainsRequest matches when a field label contains the request.
	LabelContainsRequest Direction = "label_contains_request"
	// RequestContainsLabel matches when the request contains a field label.
	RequestContainsLabel Direction = "request_contains_label"
)

// Match walks the catalog in order, and each case type's fields in order,
// returning the first case type with a field that satisfies dir. Any
// direction other than RequestContainsLabel is treated as
// LabelContainsRequest. No match is reported as false, never as an error.
func Match(request string, catalog Catalog, dir Direction) (Suggestion, bool) {
	req := strings.ToLower(request)

	for _, ct := range catalog {
		for _, f := range ct.Fields {
			label := strings.ToLower(f.Label)

			var hit bool
			if dir == RequestContainsLabel {
				hit = strings.Contains(req, label)
			} else {
				hit = strings.Contains(label, req)
			}

			if hit {
				return Suggestion{CaseName: ct.Label, CaseDescription: ct.Description}, true
			}
		}
	}
	return Suggestion{}, false
}

// Labels returns the case type labels in catalog order.
func (c Catalog) Labels() []string {
	labels := make([]string, len(c))
	for i, ct := range c {
		labels[i] = ct.Label
	}
	return labels
}
