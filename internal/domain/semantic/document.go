// Package semantic holds the ranked-retrieval types returned by external
// semantic indexes.
package semantic

import "sort"

// Caption is a short extracted snippet for a matching document.
type Caption struct {
	Text       string
	Highlights string
}

// Answer is an extractive answer returned alongside the ranked documents.
type Answer struct {
	Text  string
	Score float64
}

// Document is one ranked candidate. A score absent on the wire decodes as
// 0.0, never as an error. Fields carries the selected domain fields as
// returned by the index.
type Document struct {
	Score       float64
	RerankScore float64
	Captions    []Caption
	Fields      map[string]string
}

// Field returns the named domain field, or "" when absent.
func (d Document) Field(name string) string {
	return d.Fields[name]
}

// Result is one retrieval response: extractive answers plus ranked
// candidate documents.
type Result struct {
	Answers   []Answer
	Documents []Document
}

// TopN sorts documents by score descending and returns the first
// min(n, len(docs)). The sort is stable, so equal scores keep their
// response order. The input slice is not modified.
func TopN(docs []Document, n int) []Document {
	sorted := make([]Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
