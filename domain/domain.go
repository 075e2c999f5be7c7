package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Domain selects one of the document collections managed by the index engine.
type Domain string

const (
	Movies Domain = "movies"
	Books  Domain = "books"
	Web    Domain = "web"
)

// FacetDimensions are the attributes requested for facet distributions.
var FacetDimensions = []string{"genres", "year", "language"}

// Schema is the per-domain attribute table consulted by every component that
// talks to the index engine.
type Schema struct {
	IndexUID   string
	PrimaryKey string
	Searchable []string
	Filterable []string
	Sortable   []string
	// DerivedIDs is true when document ids are computed from content rather
	// than assigned by the caller.
	DerivedIDs bool
}

var (
	filterableAttributes = []string{"genres", "year", "rating", "language"}
	sortableAttributes   = []string{"year", "rating", "title"}
)

var schemas = map[Domain]Schema{
	Movies: {
		IndexUID:   "movies",
		PrimaryKey: "id",
		Searchable: []string{"title", "title_en", "description", "director", "genres"},
		Filterable: filterableAttributes,
		Sortable:   sortableAttributes,
	},
	Books: {
		IndexUID:   "books",
		PrimaryKey: "id",
		Searchable: []string{"title", "title_en", "description", "author", "genres"},
		Filterable: filterableAttributes,
		Sortable:   sortableAttributes,
	},
	Web: {
		IndexUID:   "web",
		PrimaryKey: "id",
		Searchable: []string{"title", "description", "url", "source_engine"},
		Filterable: filterableAttributes,
		Sortable:   sortableAttributes,
		DerivedIDs: true,
	},
}

// AllDomains lists every domain in a fixed order.
func AllDomains() []Domain {
	return []Domain{Movies, Books, Web}
}

// ParseDomain resolves the wire name of a domain.
func ParseDomain(s string) (Domain, error) {
	d := Domain(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schemas[d]; !ok {
		return "", &QueryError{Op: "ParseDomain", Err: fmt.Errorf("%w: %q", ErrUnknownDomain, s)}
	}
	return d, nil
}

func (d Domain) String() string {
	return string(d)
}

// Valid reports whether d is one of the known domains.
func (d Domain) Valid() bool {
	_, ok := schemas[d]
	return ok
}

// Schema returns the attribute table for d. Unknown domains yield a zero Schema.
func (d Domain) Schema() Schema {
	return schemas[d]
}

// DecodeDocument decodes a raw engine document into the domain's typed shape.
func (d Domain) DecodeDocument(raw []byte) (Document, error) {
	switch d {
	case Movies:
		var m Movie
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode movie: %w", err)
		}
		return &m, nil
	case Books:
		var b Book
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		return &b, nil
	case Web:
		var w WebResult
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("decode web result: %w", err)
		}
		return &w, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, string(d))
	}
}
