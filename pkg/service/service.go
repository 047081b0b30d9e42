// Package service orchestrates the catalog, vector index, chunker, and
// embedder into the create/read/delete/search operations that make up the
// system's behavior. It is the only place those four collaborators meet:
// the HTTP layer (pkg/server) depends only on this package.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/orneryd/ragdb/pkg/catalog"
	"github.com/orneryd/ragdb/pkg/chunk"
	"github.com/orneryd/ragdb/pkg/embed"
	"github.com/orneryd/ragdb/pkg/index"
	"github.com/orneryd/ragdb/pkg/ragerr"
	"github.com/orneryd/ragdb/pkg/service/dto"
)

// DefaultSearchK is the number of results returned when a search request
// doesn't specify k.
const DefaultSearchK = 5

// Service is safe for concurrent use: all of its state lives in Catalog
// (internally mutex-guarded) and Index (internally mutex-guarded); Service
// itself holds no mutable state of its own.
type Service struct {
	catalog  *catalog.Catalog
	index    index.Index
	chunker  chunk.Chunker
	embedder embed.Embedder
}

// New builds a Service over the given collaborators.
func New(cat *catalog.Catalog, idx index.Index, chunker chunk.Chunker, embedder embed.Embedder) *Service {
	return &Service{catalog: cat, index: idx, chunker: chunker, embedder: embedder}
}

// CreateLibrary rejects a duplicate name with ragerr.KindConflict, otherwise
// allocates an id and timestamp and inserts an empty library.
func (s *Service) CreateLibrary(_ context.Context, req dto.CreateLibraryRequest) (*catalog.Library, error) {
	var result *catalog.Library
	err := s.catalog.LockWrite(func() error {
		if s.catalog.NameTaken(req.Name) {
			return ragerr.Conflict("library name %q is already in use", req.Name)
		}
		lib := &catalog.Library{
			ID:          uuid.New(),
			Name:        req.Name,
			Description: req.Description,
			Metadata:    req.Metadata,
			CreatedAt:   time.Now().UTC(),
		}
		s.catalog.PutLibrary(lib)
		result = lib
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReadLibrary returns the ordered list of Document records belonging to the
// library.
func (s *Service) ReadLibrary(_ context.Context, id uuid.UUID) ([]*catalog.Document, error) {
	lib, ok := s.catalog.GetLibrary(id)
	if !ok {
		return nil, ragerr.NotFound("library %s not found", id)
	}

	docs := make([]*catalog.Document, 0, len(lib.DocumentIDs))
	for _, docID := range lib.DocumentIDs {
		if doc, ok := s.catalog.GetDocument(docID); ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// DeleteLibrary removes the library, every Document it references, and
// every Chunk of each Document, from both the catalog and the index, all
// inside one critical section.
func (s *Service) DeleteLibrary(_ context.Context, id uuid.UUID) error {
	return s.catalog.LockWrite(func() error {
		lib, ok := s.catalog.LibraryRef(id)
		if !ok {
			return ragerr.NotFound("library %s not found", id)
		}

		docIDs := append([]uuid.UUID(nil), lib.DocumentIDs...)
		for _, docID := range docIDs {
			s.deleteDocumentLocked(docID)
		}
		s.catalog.DeleteLibrary(id)
		return nil
	})
}

// ReadDocument returns the document record for id.
func (s *Service) ReadDocument(_ context.Context, id uuid.UUID) (*catalog.Document, error) {
	doc, ok := s.catalog.GetDocument(id)
	if !ok {
		return nil, ragerr.NotFound("document %s not found", id)
	}
	return doc, nil
}

// CreateDocument chunks and embeds the document's content, then commits the
// resulting chunks to the catalog and index. The library id is checked
// before embedding (cheaply, outside the lock), the embedding call itself
// runs outside the lock since it blocks on network I/O, and the library is
// rechecked at commit time — if it was deleted in the interim, the new
// document and its chunks are discarded without ever having touched the
// catalog or index.
func (s *Service) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest) (*catalog.Document, error) {
	if _, ok := s.catalog.GetLibrary(req.LibraryID); !ok {
		return nil, ragerr.NotFound("library %s not found", req.LibraryID)
	}

	fragments := s.chunker.Chunk(req.Content)
	vectors, err := s.embedder.EmbedBatch(ctx, fragments, embed.KindDocument)
	if err != nil {
		return nil, err
	}

	var result *catalog.Document
	err = s.catalog.LockWrite(func() error {
		if _, ok := s.catalog.LibraryRef(req.LibraryID); !ok {
			return ragerr.NotFound("library %s not found", req.LibraryID)
		}

		now := time.Now().UTC()
		docID := uuid.New()
		chunkIDs := make([]uuid.UUID, 0, len(fragments))

		for i, frag := range fragments {
			chunkID := uuid.New()
			if err := s.index.Add(chunkID, vectors[i]); err != nil {
				for _, addedID := range chunkIDs {
					s.catalog.DeleteChunk(addedID)
					s.index.Remove(addedID)
				}
				return err
			}
			s.catalog.PutChunk(&catalog.Chunk{
				ID:         chunkID,
				DocumentID: docID,
				Content:    frag,
				Metadata:   req.Metadata,
				CreatedAt:  now,
			})
			chunkIDs = append(chunkIDs, chunkID)
		}

		doc := &catalog.Document{
			ID:        docID,
			LibraryID: req.LibraryID,
			Title:     req.Title,
			Content:   req.Content,
			ChunkIDs:  chunkIDs,
			Metadata:  req.Metadata,
			CreatedAt: now,
		}
		s.catalog.PutDocument(doc)
		result = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteDocument removes the document, its chunks, and their index entries.
func (s *Service) DeleteDocument(_ context.Context, id uuid.UUID) error {
	return s.catalog.LockWrite(func() error {
		if _, ok := s.catalog.DocumentRef(id); !ok {
			return ragerr.NotFound("document %s not found", id)
		}
		s.deleteDocumentLocked(id)
		return nil
	})
}

// deleteDocumentLocked removes a document, its chunks, and their index
// entries. The caller must already hold the catalog's write lock (via
// LockWrite) and must have already confirmed the document exists.
func (s *Service) deleteDocumentLocked(id uuid.UUID) {
	doc, ok := s.catalog.DocumentRef(id)
	if !ok {
		return
	}
	for _, chunkID := range doc.ChunkIDs {
		s.catalog.DeleteChunk(chunkID)
		s.index.Remove(chunkID)
	}
	s.catalog.DeleteDocument(id)
}

// Search embeds the query, runs KNNSearch, resolves each returned id to a
// Chunk via the catalog (silently dropping any id the catalog no longer has
// — it was evicted since the index was queried), optionally filters by date
// range, and preserves the index's result order throughout.
func (s *Service) Search(ctx context.Context, req dto.SearchRequest) ([]dto.SearchResult, error) {
	k := req.K
	if k <= 0 {
		k = DefaultSearchK
	}

	vec, err := s.embedder.Embed(ctx, req.Query, embed.KindQuery)
	if err != nil {
		return nil, err
	}

	neighbors, err := s.index.KNNSearch(vec, k)
	if err != nil {
		return nil, err
	}

	results := make([]dto.SearchResult, 0, len(neighbors))
	for _, n := range neighbors {
		ch, ok := s.catalog.GetChunk(n.ID)
		if !ok {
			continue
		}
		if req.DateRange != nil && (ch.CreatedAt.Before(req.DateRange.From) || ch.CreatedAt.After(req.DateRange.To)) {
			continue
		}
		results = append(results, dto.SearchResult{
			ChunkID:    ch.ID,
			DocumentID: ch.DocumentID,
			Score:      n.Score,
			Content:    ch.Content,
			Metadata:   ch.Metadata,
		})
	}
	return results, nil
}
