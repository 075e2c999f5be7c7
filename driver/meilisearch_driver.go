package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/meilisearch/meilisearch-go"
)

const defaultTaskPollInterval = 50 * time.Millisecond

type MeilisearchDriver struct {
	client       meilisearch.ServiceManager
	endpoint     Endpoint
	pollInterval time.Duration
}

// NewMeilisearchDriver wraps client. endpoint must address the same engine;
// it serves the calls the client library cannot express.
func NewMeilisearchDriver(client meilisearch.ServiceManager, endpoint Endpoint, pollInterval time.Duration) *MeilisearchDriver {
	if pollInterval <= 0 {
		pollInterval = defaultTaskPollInterval
	}
	return &MeilisearchDriver{
		client:       client,
		endpoint:     endpoint,
		pollInterval: pollInterval,
	}
}

func (d *MeilisearchDriver) Search(ctx context.Context, indexUID string, req SearchRequest) (*SearchResponse, error) {
	searchRequest := &meilisearch.SearchRequest{
		Offset:           req.Offset,
		Limit:            req.Limit,
		ShowRankingScore: req.ShowRankingScore,
	}

	// Only add filter and sort if they're not empty
	if req.Filter != "" {
		searchRequest.Filter = req.Filter
	}
	if len(req.Sort) > 0 {
		searchRequest.Sort = req.Sort
	}
	if len(req.Facets) > 0 {
		searchRequest.Facets = req.Facets
	}

	raw, err := d.client.Index(indexUID).SearchRawWithContext(ctx, req.Query, searchRequest)
	if err != nil {
		return nil, newDriverError("Search", err)
	}

	var resp SearchResponse
	if raw != nil {
		if err := json.Unmarshal(*raw, &resp); err != nil {
			return nil, &DriverError{Op: "Search", Err: "failed to decode search response: " + err.Error()}
		}
	}
	if resp.Hits == nil {
		resp.Hits = []json.RawMessage{}
	}

	return &resp, nil
}

func (d *MeilisearchDriver) GetDocument(ctx context.Context, indexUID string, id int64) (json.RawMessage, error) {
	var raw json.RawMessage
	err := d.client.Index(indexUID).GetDocumentWithContext(ctx, strconv.FormatInt(id, 10), nil, &raw)
	if err != nil {
		return nil, newDriverError("GetDocument", err)
	}
	return raw, nil
}

// AddDocuments adds or replaces documents by primary key and returns the
// engine task uid without waiting for it.
func (d *MeilisearchDriver) AddDocuments(ctx context.Context, indexUID string, docs []json.RawMessage, primaryKey string) (int64, error) {
	if len(docs) == 0 {
		return 0, &DriverError{Op: "AddDocuments", Err: "no documents"}
	}

	task, err := d.client.Index(indexUID).AddDocumentsWithContext(ctx, docs, primaryKey)
	if err != nil {
		return 0, newDriverError("AddDocuments", err)
	}
	return task.TaskUID, nil
}

func (d *MeilisearchDriver) DeleteDocument(ctx context.Context, indexUID string, id int64) (int64, error) {
	task, err := d.client.Index(indexUID).DeleteDocumentWithContext(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		return 0, newDriverError("DeleteDocument", err)
	}
	return task.TaskUID, nil
}

// ApplySettings updates the attribute lists of an index, creating it on first
// use, and waits for every settings task.
func (d *MeilisearchDriver) ApplySettings(ctx context.Context, indexUID string, settings IndexSettings) error {
	index := d.client.Index(indexUID)

	updates := []struct {
		name  string
		apply func() (*meilisearch.TaskInfo, error)
	}{
		{"searchable attributes", func() (*meilisearch.TaskInfo, error) {
			return index.UpdateSearchableAttributesWithContext(ctx, &settings.Searchable)
		}},
		{"filterable attributes", func() (*meilisearch.TaskInfo, error) {
			return index.UpdateFilterableAttributesWithContext(ctx, &settings.Filterable)
		}},
		{"sortable attributes", func() (*meilisearch.TaskInfo, error) {
			return index.UpdateSortableAttributesWithContext(ctx, &settings.Sortable)
		}},
	}

	for _, u := range updates {
		task, err := u.apply()
		if err != nil {
			return &DriverError{Op: "ApplySettings", Err: "failed to set " + u.name + ": " + err.Error(), StatusCode: statusCodeOf(err)}
		}
		if err := d.WaitForTask(ctx, task.TaskUID); err != nil {
			return &DriverError{Op: "ApplySettings", Err: "failed to wait for " + u.name + ": " + err.Error()}
		}
	}

	return nil
}

func (d *MeilisearchDriver) UpdateSynonyms(ctx context.Context, indexUID string, synonyms map[string][]string) (int64, error) {
	task, err := d.client.Index(indexUID).UpdateSynonymsWithContext(ctx, &synonyms)
	if err != nil {
		return 0, &DriverError{Op: "UpdateSynonyms", Err: "failed to register synonyms: " + err.Error(), StatusCode: statusCodeOf(err)}
	}
	return task.TaskUID, nil
}

// WaitForTask polls the task until it leaves the queue. A failed task is an
// error carrying the engine's message.
func (d *MeilisearchDriver) WaitForTask(ctx context.Context, taskUID int64) error {
	task, err := d.client.WaitForTaskWithContext(ctx, taskUID, d.pollInterval)
	if err != nil {
		return newDriverError("WaitForTask", err)
	}

	switch task.Status {
	case meilisearch.TaskStatusSucceeded:
		return nil
	case meilisearch.TaskStatusFailed:
		msg := task.Error.Message
		if msg == "" {
			msg = "task failed"
		}
		return &DriverError{Op: "WaitForTask", Err: fmt.Sprintf("task %d: %s", taskUID, msg)}
	default:
		return &DriverError{Op: "WaitForTask", Err: fmt.Sprintf("task %d ended with status %s", taskUID, task.Status)}
	}
}

func (d *MeilisearchDriver) Health(ctx context.Context) error {
	health, err := d.client.HealthWithContext(ctx)
	if err != nil {
		return newDriverError("Health", err)
	}
	if health.Status != "available" {
		return &DriverError{Op: "Health", Err: "meilisearch status " + health.Status}
	}
	return nil
}

func newDriverError(op string, err error) *DriverError {
	return &DriverError{Op: op, Err: err.Error(), StatusCode: statusCodeOf(err)}
}

func statusCodeOf(err error) int {
	var meiliErr *meilisearch.Error
	if errors.As(err, &meiliErr) {
		return meiliErr.StatusCode
	}
	return 0
}

func (d *MeilisearchDriver) GetSynonyms(ctx context.Context, indexUID string) (map[string][]string, error) {
	synonyms, err := d.client.Index(indexUID).GetSynonymsWithContext(ctx)
	if err != nil {
		if statusCodeOf(err) == http.StatusNotFound {
			return map[string][]string{}, nil
		}
		return nil, newDriverError("GetSynonyms", err)
	}
	if synonyms == nil {
		return map[string][]string{}, nil
	}
	return *synonyms, nil
}
