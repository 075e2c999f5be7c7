package gateway

import (
	"context"
	"encoding/json"
	"errors"

	"search-orchestrator/domain"
	"search-orchestrator/driver"
)

type SearchDriver interface {
	Search(ctx context.Context, indexUID string, req driver.SearchRequest) (*driver.SearchResponse, error)
	FacetDistribution(ctx context.Context, indexUID string, facets []string) (map[string]map[string]int64, error)
	GetDocument(ctx context.Context, indexUID string, id int64) (json.RawMessage, error)
	AddDocuments(ctx context.Context, indexUID string, docs []json.RawMessage, primaryKey string) (int64, error)
	DeleteDocument(ctx context.Context, indexUID string, id int64) (int64, error)
	ApplySettings(ctx context.Context, indexUID string, settings driver.IndexSettings) error
	GetSynonyms(ctx context.Context, indexUID string) (map[string][]string, error)
	UpdateSynonyms(ctx context.Context, indexUID string, synonyms map[string][]string) (int64, error)
	WaitForTask(ctx context.Context, taskUID int64) error
	Health(ctx context.Context) error
}

type SearchEngineGateway struct {
	driver SearchDriver
}

func NewSearchEngineGateway(driver SearchDriver) *SearchEngineGateway {
	return &SearchEngineGateway{
		driver: driver,
	}
}

func (g *SearchEngineGateway) ConfigureAttributes(ctx context.Context, d domain.Domain) error {
	schema, err := schemaFor("ConfigureAttributes", d)
	if err != nil {
		return err
	}

	err = g.driver.ApplySettings(ctx, schema.IndexUID, driver.IndexSettings{
		PrimaryKey: schema.PrimaryKey,
		Searchable: schema.Searchable,
		Filterable: schema.Filterable,
		Sortable:   schema.Sortable,
	})
	if err != nil {
		return &domain.SearchEngineError{
			Op:  "ConfigureAttributes",
			Err: err.Error(),
		}
	}
	return nil
}

func (g *SearchEngineGateway) Search(ctx context.Context, d domain.Domain, query domain.EngineQuery) (*domain.EngineResult, error) {
	schema, err := schemaFor("Search", d)
	if err != nil {
		return nil, err
	}

	resp, err := g.driver.Search(ctx, schema.IndexUID, driver.SearchRequest{
		Query:            query.Query,
		Filter:           query.Filter,
		Sort:             query.Sort,
		Offset:           query.Offset,
		Limit:            query.Limit,
		ShowRankingScore: query.ShowRankingScore,
	})
	if err != nil {
		return nil, &domain.SearchEngineError{
			Op:  "Search",
			Err: err.Error(),
		}
	}

	docs, err := decodeHits(d, resp.Hits)
	if err != nil {
		return nil, &domain.SearchEngineError{
			Op:  "Search",
			Err: err.Error(),
		}
	}

	return &domain.EngineResult{
		Documents:          docs,
		EstimatedTotalHits: resp.EstimatedTotalHits,
		ProcessingTimeMs:   resp.ProcessingTimeMs,
	}, nil
}

func (g *SearchEngineGateway) FacetDistribution(ctx context.Context, d domain.Domain, dimensions []string) (map[string]map[string]int64, error) {
	schema, err := schemaFor("FacetDistribution", d)
	if err != nil {
		return nil, err
	}

	dist, err := g.driver.FacetDistribution(ctx, schema.IndexUID, dimensions)
	if err != nil {
		return nil, &domain.SearchEngineError{
			Op:  "FacetDistribution",
			Err: err.Error(),
		}
	}

	if dist == nil {
		return map[string]map[string]int64{}, nil
	}
	return dist, nil
}

func (g *SearchEngineGateway) GetDocument(ctx context.Context, d domain.Domain, id int64) (domain.Document, error) {
	schema, err := schemaFor("GetDocument", d)
	if err != nil {
		return nil, err
	}

	raw, err := g.driver.GetDocument(ctx, schema.IndexUID, id)
	if err != nil {
		return nil, &domain.SearchEngineError{
			Op:       "GetDocument",
			Err:      err.Error(),
			NotFound: isNotFound(err),
		}
	}

	doc, err := d.DecodeDocument(raw)
	if err != nil {
		return nil, &domain.SearchEngineError{
			Op:  "GetDocument",
			Err: err.Error(),
		}
	}
	return doc, nil
}

func (g *SearchEngineGateway) UpsertDocuments(ctx context.Context, d domain.Domain, docs []domain.Document) (domain.IndexTask, error) {
	schema, err := schemaFor("UpsertDocuments", d)
	if err != nil {
		return domain.IndexTask{}, err
	}
	if len(docs) == 0 {
		return domain.IndexTask{}, &domain.SearchEngineError{
			Op:  "UpsertDocuments",
			Err: "no documents to index",
		}
	}

	payload := make([]json.RawMessage, 0, len(docs))
	for _, doc := range docs {
		if doc.Domain() != d {
			return domain.IndexTask{}, &domain.SearchEngineError{
				Op:  "UpsertDocuments",
				Err: "document of domain " + doc.Domain().String() + " sent to " + d.String(),
			}
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return domain.IndexTask{}, &domain.SearchEngineError{
				Op:  "UpsertDocuments",
				Err: err.Error(),
			}
		}
		payload = append(payload, data)
	}

	uid, err := g.driver.AddDocuments(ctx, schema.IndexUID, payload, schema.PrimaryKey)
	if err != nil {
		return domain.IndexTask{}, &domain.SearchEngineError{
			Op:  "UpsertDocuments",
			Err: err.Error(),
		}
	}
	return domain.IndexTask{UID: uid}, nil
}

func (g *SearchEngineGateway) DeleteDocument(ctx context.Context, d domain.Domain, id int64) (domain.IndexTask, error) {
	schema, err := schemaFor("DeleteDocument", d)
	if err != nil {
		return domain.IndexTask{}, err
	}

	uid, err := g.driver.DeleteDocument(ctx, schema.IndexUID, id)
	if err != nil {
		return domain.IndexTask{}, &domain.SearchEngineError{
			Op:       "DeleteDocument",
			Err:      err.Error(),
			NotFound: isNotFound(err),
		}
	}
	return domain.IndexTask{UID: uid}, nil
}

func (g *SearchEngineGateway) Synonyms(ctx context.Context, d domain.Domain) (map[string][]string, error) {
	schema, err := schemaFor("Synonyms", d)
	if err != nil {
		return nil, err
	}

	synonyms, err := g.driver.GetSynonyms(ctx, schema.IndexUID)
	if err != nil {
		return nil, &domain.SearchEngineError{
			Op:  "Synonyms",
			Err: err.Error(),
		}
	}
	return synonyms, nil
}

func (g *SearchEngineGateway) RegisterSynonyms(ctx context.Context, d domain.Domain, synonyms map[string][]string) (domain.IndexTask, error) {
	schema, err := schemaFor("RegisterSynonyms", d)
	if err != nil {
		return domain.IndexTask{}, err
	}

	uid, err := g.driver.UpdateSynonyms(ctx, schema.IndexUID, synonyms)
	if err != nil {
		return domain.IndexTask{}, &domain.SearchEngineError{
			Op:  "RegisterSynonyms",
			Err: err.Error(),
		}
	}
	return domain.IndexTask{UID: uid}, nil
}

func (g *SearchEngineGateway) WaitForTask(ctx context.Context, task domain.IndexTask) error {
	if err := g.driver.WaitForTask(ctx, task.UID); err != nil {
		return &domain.SearchEngineError{
			Op:  "WaitForTask",
			Err: err.Error(),
		}
	}
	return nil
}

func (g *SearchEngineGateway) Healthy(ctx context.Context) error {
	if err := g.driver.Health(ctx); err != nil {
		return &domain.SearchEngineError{
			Op:  "Healthy",
			Err: err.Error(),
		}
	}
	return nil
}

func schemaFor(op string, d domain.Domain) (domain.Schema, error) {
	if !d.Valid() {
		return domain.Schema{}, &domain.SearchEngineError{
			Op:  op,
			Err: domain.ErrUnknownDomain.Error() + ": " + d.String(),
		}
	}
	return d.Schema(), nil
}

func decodeHits(d domain.Domain, hits []json.RawMessage) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(hits))
	for _, hit := range hits {
		doc, err := d.DecodeDocument(hit)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func isNotFound(err error) bool {
	var driverErr *driver.DriverError
	return errors.As(err, &driverErr) && driverErr.IsNotFound()
}
