package cases

import "github.com/sahilm/fuzzy"

type labelSource Catalog

func (s labelSource) String(i int) string { return s[i].Label }
func (s labelSource) Len() int            { return len(s) }

// Search fuzzy-filters case types by label for the case browser, best match
// first. An empty query returns the catalog unchanged. Match never uses this.
func Search(query string, catalog Catalog) Catalog {
	if query == "" {
		return catalog
	}

	matches := fuzzy.FindFrom(query, labelSource(catalog))
	out := make(Catalog, 0, len(matches))
	for _, m := range matches {
		out = append(out, catalog[m.Index])
	}
	return out
}
