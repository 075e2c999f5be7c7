package bootstrap

import (
	"encoding/json"
	"fmt"
	"os"

	"search-orchestrator/domain"
)

// loadSeedFile reads a JSON array of documents of domain d.
func loadSeedFile(path string, d domain.Domain) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	docs := make([]domain.Document, 0, len(raw))
	for i, r := range raw {
		doc, err := d.DecodeDocument(r)
		if err != nil {
			return nil, fmt.Errorf("seed file %s entry %d: %w", path, i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
