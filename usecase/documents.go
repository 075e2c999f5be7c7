package usecase

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"search-orchestrator/domain"
	"search-orchestrator/logger"
	"search-orchestrator/port"
	"search-orchestrator/tokenize"

	"github.com/ikawaha/kagome/v2/tokenizer"
)

// DocumentsUsecase forwards single-document reads and writes to the index
// engine. Writes block until the engine has applied them.
type DocumentsUsecase struct {
	searchEngine port.SearchEngine
	tokenizer    *tokenizer.Tokenizer
}

// NewDocumentsUsecase wires the engine. tok may be nil, which disables genre
// synonym registration.
func NewDocumentsUsecase(searchEngine port.SearchEngine, tok *tokenizer.Tokenizer) *DocumentsUsecase {
	return &DocumentsUsecase{
		searchEngine: searchEngine,
		tokenizer:    tok,
	}
}

func (u *DocumentsUsecase) Get(ctx context.Context, d domain.Domain, id int64) (domain.Document, error) {
	if !d.Valid() {
		return nil, &domain.QueryError{Op: "GetDocument", Err: domain.ErrUnknownDomain}
	}

	doc, err := u.searchEngine.GetDocument(ctx, d, id)
	if err != nil {
		if isEngineNotFound(err) {
			return nil, &domain.DocumentNotFoundError{Domain: d, ID: id, Err: err}
		}
		return nil, &domain.QueryError{Op: "GetDocument", Err: err}
	}
	return doc, nil
}

// Create adds doc, replacing any document with the same id.
func (u *DocumentsUsecase) Create(ctx context.Context, doc domain.Document) (domain.Document, error) {
	doc, err := prepareDocument(doc)
	if err != nil {
		return nil, err
	}
	if err := u.write(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update replaces an existing document and fails when it does not exist.
func (u *DocumentsUsecase) Update(ctx context.Context, doc domain.Document) (domain.Document, error) {
	doc, err := prepareDocument(doc)
	if err != nil {
		return nil, err
	}
	if _, err := u.Get(ctx, doc.Domain(), doc.DocumentID()); err != nil {
		return nil, err
	}
	if err := u.write(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (u *DocumentsUsecase) Delete(ctx context.Context, d domain.Domain, id int64) error {
	if !d.Valid() {
		return &domain.QueryError{Op: "DeleteDocument", Err: domain.ErrUnknownDomain}
	}

	task, err := u.searchEngine.DeleteDocument(ctx, d, id)
	if err != nil {
		if isEngineNotFound(err) {
			return &domain.DocumentNotFoundError{Domain: d, ID: id, Err: err}
		}
		return &domain.QueryError{Op: "DeleteDocument", Err: err}
	}
	if err := u.searchEngine.WaitForTask(ctx, task); err != nil {
		return &domain.QueryError{Op: "DeleteDocument", Err: err}
	}
	return nil
}

func (u *DocumentsUsecase) write(ctx context.Context, doc domain.Document) error {
	task, err := u.searchEngine.UpsertDocuments(ctx, doc.Domain(), []domain.Document{doc})
	if err != nil {
		return &domain.QueryError{Op: "UpsertDocument", Err: err}
	}
	if err := u.searchEngine.WaitForTask(ctx, task); err != nil {
		return &domain.QueryError{Op: "UpsertDocument", Err: err}
	}

	ctx = logger.WithDocumentID(logger.WithDomain(ctx, doc.Domain().String()), strconv.FormatInt(doc.DocumentID(), 10))
	if err := registerGenreSynonyms(ctx, u.searchEngine, u.tokenizer, doc.Domain(), []domain.Document{doc}); err != nil {
		logger.GlobalContext.WithContext(ctx).Warn("failed to register genre synonyms", "error", err)
	}
	return nil
}

// prepareDocument checks the fields every domain requires and derives web
// ids from the URL.
func prepareDocument(doc domain.Document) (domain.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: missing document", domain.ErrInvalidDocument)
	}

	switch v := doc.(type) {
	case *domain.WebResult:
		if strings.TrimSpace(v.URL) == "" {
			return nil, fmt.Errorf("%w: web result without url", domain.ErrInvalidDocument)
		}
		v.ID = domain.WebResultID(v.URL)
		if len(v.Genres) == 0 {
			v.Genres = []string{domain.WebGenre}
		}
		if v.Language == "" {
			v.Language = domain.WebLanguage
		}
	default:
		if doc.DocumentID() <= 0 {
			return nil, fmt.Errorf("%w: %s id must be positive", domain.ErrInvalidDocument, doc.Domain())
		}
	}

	if strings.TrimSpace(doc.Hit().Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidDocument)
	}
	return doc, nil
}

// synonymsMu serializes the read-modify-write of synonym sets within this
// process. Writers in other processes can still interleave and drop each
// other's additions; the next write touching the same genre restores them.
var synonymsMu sync.Mutex

// registerGenreSynonyms merges segment -> compound synonyms for Japanese genres
// into the domain's synonym set. Web results carry no real genres and are
// skipped.
func registerGenreSynonyms(ctx context.Context, engine port.SearchEngine, tok *tokenizer.Tokenizer, d domain.Domain, docs []domain.Document) error {
	if tok == nil || d == domain.Web {
		return nil
	}

	genres := make([]string, 0, len(docs))
	for _, doc := range docs {
		genres = append(genres, doc.Hit().Genres...)
	}
	additions := tokenize.GenreSynonyms(tok, genres)
	if len(additions) == 0 {
		return nil
	}

	synonymsMu.Lock()
	defer synonymsMu.Unlock()

	current, err := engine.Synonyms(ctx, d)
	if err != nil {
		return err
	}

	merged := make(map[string][]string, len(current)+len(additions))
	for k, v := range current {
		merged[k] = v
	}
	changed := false
	for k, v := range additions {
		union := slices.Clone(merged[k])
		for _, compound := range v {
			if !slices.Contains(union, compound) {
				union = append(union, compound)
				changed = true
			}
		}
		merged[k] = union
	}
	if !changed {
		return nil
	}

	task, err := engine.RegisterSynonyms(ctx, d, merged)
	if err != nil {
		return err
	}
	return engine.WaitForTask(ctx, task)
}
