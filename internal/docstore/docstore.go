// Package docstore provides the schema-less document store used to persist
// lists and list items.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no document exists for an acronym and id.
var ErrNotFound = errors.New("document not found")

// Document is the store's flat representation: field name to stringified value.
type Document map[string]string

// Page selects a 1-based page of search results.
type Page struct {
	Page     int
	PageSize int
}

// offset returns the index of the first result on the page.
func (p Page) offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Store is the document store contract. Documents are addressed by a type
// name (acronym) and an opaque id assigned on creation.
type Store interface {
	// Create stores a new document and returns its assigned id.
	Create(ctx context.Context, acronym string, doc Document) (string, error)
	// Get returns the projected fields of a document or ErrNotFound.
	Get(ctx context.Context, acronym, id string, fields []string) (Document, error)
	// Update merges doc into an existing document.
	Update(ctx context.Context, acronym, id string, doc Document) error
	// Delete removes a document.
	Delete(ctx context.Context, acronym, id string) error
	// Search returns projected documents matching every condition of filter,
	// in creation order.
	Search(ctx context.Context, acronym string, fields []string, filter []Condition, page Page) ([]Document, error)
}

// project copies the requested fields of doc. The id is always included.
func project(id string, doc Document, fields []string) Document {
	out := make(Document, len(fields)+1)
	if len(fields) == 0 {
		for k, v := range doc {
			out[k] = v
		}
	} else {
		for _, f := range fields {
			if v, ok := doc[f]; ok {
				out[f] = v
			}
		}
	}
	out["id"] = id
	return out
}
