package domain

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Placeholders carried by every imported web page. Web content is not rated
// and has no release year.
const (
	WebGenre    = "web"
	WebLanguage = "web"
)

// Document is a domain-specific record stored in the index engine.
type Document interface {
	DocumentID() int64
	Domain() Domain
	// Hit projects the document into the unified result shape.
	Hit() Hit
}

type Movie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	TitleEn     *string  `json:"title_en,omitempty"`
	Description string   `json:"description"`
	Director    string   `json:"director"`
	Year        int      `json:"year"`
	Genres      []string `json:"genres"`
	Rating      float64  `json:"rating"`
	PosterURL   *string  `json:"poster_url,omitempty"`
	Language    string   `json:"language"`
}

func (m *Movie) DocumentID() int64 { return m.ID }
func (m *Movie) Domain() Domain    { return Movies }

func (m *Movie) Hit() Hit {
	return Hit{
		ID:          m.ID,
		Title:       m.Title,
		TitleEn:     m.TitleEn,
		Description: m.Description,
		Creator:     m.Director,
		Year:        m.Year,
		Genres:      copyGenres(m.Genres),
		Rating:      m.Rating,
		ImageURL:    m.PosterURL,
		Language:    m.Language,
		Domain:      Movies,
	}
}

type Book struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	TitleEn     *string  `json:"title_en,omitempty"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Year        int      `json:"year"`
	Genres      []string `json:"genres"`
	Rating      float64  `json:"rating"`
	CoverURL    *string  `json:"cover_url,omitempty"`
	Language    string   `json:"language"`
	Pages       *int     `json:"pages,omitempty"`
}

func (b *Book) DocumentID() int64 { return b.ID }
func (b *Book) Domain() Domain    { return Books }

func (b *Book) Hit() Hit {
	return Hit{
		ID:          b.ID,
		Title:       b.Title,
		TitleEn:     b.TitleEn,
		Description: b.Description,
		Creator:     b.Author,
		Year:        b.Year,
		Genres:      copyGenres(b.Genres),
		Rating:      b.Rating,
		ImageURL:    b.CoverURL,
		Language:    b.Language,
		Domain:      Books,
	}
}

// WebResult is a page imported from the metasearch engine.
type WebResult struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	TitleEn       *string  `json:"title_en,omitempty"`
	Description   string   `json:"description"`
	URL           string   `json:"url"`
	SourceEngine  *string  `json:"source_engine,omitempty"`
	Year          int      `json:"year"`
	Genres        []string `json:"genres"`
	Rating        float64  `json:"rating"`
	ImageURL      *string  `json:"image_url,omitempty"`
	Language      string   `json:"language"`
	PublishedDate *string  `json:"published_date,omitempty"`
}

func (w *WebResult) DocumentID() int64 { return w.ID }
func (w *WebResult) Domain() Domain    { return Web }

func (w *WebResult) Hit() Hit {
	return Hit{
		ID:          w.ID,
		Title:       w.Title,
		TitleEn:     w.TitleEn,
		Description: w.Description,
		Creator:     w.URL,
		Year:        w.Year,
		Genres:      copyGenres(w.Genres),
		Rating:      w.Rating,
		ImageURL:    w.ImageURL,
		Language:    w.Language,
		Domain:      Web,
	}
}

// MetasearchResult is one entry of a metasearch response.
type MetasearchResult struct {
	Title         string
	URL           string
	Content       *string
	Engine        *string
	PublishedDate *string
	ImageURL      *string
}

// NewWebResult projects a metasearch entry into an indexable web document with
// the fixed web placeholders and an id derived from its URL.
func NewWebResult(r MetasearchResult) *WebResult {
	description := ""
	if r.Content != nil {
		description = *r.Content
	}
	return &WebResult{
		ID:            WebResultID(r.URL),
		Title:         r.Title,
		Description:   description,
		URL:           r.URL,
		SourceEngine:  r.Engine,
		Year:          0,
		Genres:        []string{WebGenre},
		Rating:        0,
		ImageURL:      r.ImageURL,
		Language:      WebLanguage,
		PublishedDate: r.PublishedDate,
	}
}

// WebResultID derives a stable, non-negative id from a URL so that importing
// the same page twice overwrites the existing document.
func WebResultID(url string) int64 {
	sum := xxhash.Sum64String(strings.TrimSpace(url))
	return int64(sum & (1<<63 - 1))
}

func copyGenres(genres []string) []string {
	out := make([]string, len(genres))
	copy(out, genres)
	return out
}
