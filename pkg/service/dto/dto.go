// Package dto holds the request/response shapes for the service layer's
// HTTP surface.
package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateLibraryRequest is the body of POST /libraries/.
type CreateLibraryRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// CreateDocumentRequest is the body of POST /documents/.
type CreateDocumentRequest struct {
	LibraryID uuid.UUID      `json:"library_id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// DateRange bounds a search by chunk creation timestamp, inclusive on both ends.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SearchRequest is the body of POST /documents/search.
type SearchRequest struct {
	Query     string     `json:"query"`
	K         int        `json:"k,omitempty"`
	DateRange *DateRange `json:"date_range,omitempty"`
}

// SearchResult is one element of the list POST /documents/search returns.
type SearchResult struct {
	ChunkID    uuid.UUID      `json:"chunk_id"`
	DocumentID uuid.UUID      `json:"document_id"`
	Score      float64        `json:"score"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
