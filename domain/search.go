package domain

import "strings"

// PageSize is the fixed number of hits per result page.
const PageSize = 12

// MaxPage bounds requested pages so the engine offset cannot overflow.
const MaxPage = 100_000

// Sort is an explicit field:direction ordering. Values are not validated here;
// the index engine reports unknown fields or directions.
type Sort struct {
	Field     string
	Direction string
}

// ParseSort splits "field:direction" at the last colon. An empty input means
// relevance ranking and yields nil.
func ParseSort(s string) *Sort {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return &Sort{Field: s}
	}
	return &Sort{Field: s[:i], Direction: s[i+1:]}
}

func (s Sort) String() string {
	if s.Direction == "" {
		return s.Field
	}
	return s.Field + ":" + s.Direction
}

// FilterState is a snapshot of the user's query and facet selections.
// yearMin <= yearMax is the caller's responsibility and is not checked.
type FilterState struct {
	Query     string
	Domain    Domain
	Genres    []string
	YearMin   *int
	YearMax   *int
	RatingMin *float64
	Page      int
	Sort      *Sort
}

// CurrentPage returns the 1-based page, treating an unset page as the first.
func (f FilterState) CurrentPage() int {
	if f.Page < 1 {
		return 1
	}
	return f.Page
}

// Offset is the engine offset of the first hit on the current page. Pages
// past MaxPage saturate at the offset of MaxPage.
func (f FilterState) Offset() int64 {
	page := min(f.CurrentPage(), MaxPage)
	return int64(page-1) * PageSize
}

// Hit is the unified, engine-agnostic projection of a domain document.
// Creator is the director, author or URL depending on the domain.
type Hit struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	TitleEn     *string  `json:"title_en,omitempty"`
	Description string   `json:"description"`
	Creator     string   `json:"creator"`
	Year        int      `json:"year"`
	Genres      []string `json:"genres"`
	Rating      float64  `json:"rating"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Language    string   `json:"language"`
	Domain      Domain   `json:"domain"`
}

type SearchResult struct {
	Hits             []Hit `json:"hits"`
	TotalHits        int64 `json:"total_hits"`
	Page             int   `json:"page"`
	TotalPages       int   `json:"total_pages"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// TotalPages returns ceil(totalHits / PageSize).
func TotalPages(totalHits int64) int {
	if totalHits <= 0 {
		return 0
	}
	return int((totalHits + PageSize - 1) / PageSize)
}

type FacetValue struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type FacetInfo struct {
	Genres    []FacetValue `json:"genres"`
	Years     []FacetValue `json:"years"`
	Languages []FacetValue `json:"languages"`
}

// EngineQuery is a single paged query against one domain index. An empty
// Filter means an unfiltered query and an empty Sort means relevance ranking.
type EngineQuery struct {
	Query            string
	Filter           string
	Sort             []string
	Offset           int64
	Limit            int64
	ShowRankingScore bool
}

type EngineResult struct {
	Documents          []Document
	EstimatedTotalHits int64
	ProcessingTimeMs   int64
}

// IndexTask identifies an asynchronous write accepted by the index engine.
type IndexTask struct {
	UID int64
}
