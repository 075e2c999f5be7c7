package domain

// Normalize projects engine documents into unified hits. Order is preserved
// and nothing is filtered.
func Normalize(docs []Document) []Hit {
	hits := make([]Hit, 0, len(docs))
	for _, doc := range docs {
		hits = append(hits, doc.Hit())
	}
	return hits
}
