// Package catalog holds the process-wide Library/Document/Chunk records.
//
// The Catalog is the authoritative store for everything except the raw
// embedding vectors themselves (those live in the vector index; see
// pkg/index). A single read/write mutex serializes writers — document and library
// create/delete all go through LockWrite so that the catalog maps and the
// vector index are mutated together, inside the same critical section. Reads
// (GetLibrary, GetDocument, GetChunk) take only a read lock: they may run
// concurrently with each other and make no promise of a consistent snapshot
// across maps.
package catalog

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Library groups an ordered set of Documents under a unique name.
type Library struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	DocumentIDs []uuid.UUID    `json:"document_ids"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"timestamp"`
}

// Document belongs to exactly one Library and owns an ordered list of Chunks.
type Document struct {
	ID         uuid.UUID      `json:"id"`
	LibraryID  uuid.UUID      `json:"library_id"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	ChunkIDs   []uuid.UUID    `json:"chunks"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"timestamp"`
}

// Chunk is a single indexed text fragment of a Document.
type Chunk struct {
	ID         uuid.UUID      `json:"id"`
	DocumentID uuid.UUID      `json:"document_id"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"timestamp"`
}

// Catalog is the mutex-guarded map of Libraries, Documents, and Chunks keyed
// by UUID. It owns these records exclusively: the vector index holds chunk
// ids only as non-owning lookup keys.
type Catalog struct {
	mu sync.RWMutex

	libraries map[uuid.UUID]*Library
	documents map[uuid.UUID]*Document
	chunks    map[uuid.UUID]*Chunk

	// names tracks library names already in use so the uniqueness check
	// doesn't require a linear scan of libraries.
	names map[string]uuid.UUID
}

// New returns an empty Catalog.
func New() *Catalog {
	return &Catalog{
		libraries: make(map[uuid.UUID]*Library),
		documents: make(map[uuid.UUID]*Document),
		chunks:    make(map[uuid.UUID]*Chunk),
		names:     make(map[string]uuid.UUID),
	}
}

// LockWrite runs action while holding the catalog's write mutex and returns
// its result. All create/delete paths in the service layer use LockWrite so
// that catalog mutations and their matching vector-index mutations commit
// together; no reader observes one without the other.
func (c *Catalog) LockWrite(action func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return action()
}

// NameTaken reports whether a library with that name already exists. Must be
// called from inside LockWrite to be race-free against concurrent creates.
func (c *Catalog) NameTaken(name string) bool {
	_, ok := c.names[name]
	return ok
}

// PutLibrary inserts a new library and reserves its name. Must be called from
// inside LockWrite.
func (c *Catalog) PutLibrary(l *Library) {
	c.libraries[l.ID] = l
	c.names[l.Name] = l.ID
}

// DeleteLibrary removes a library and frees its name. Must be called from
// inside LockWrite.
func (c *Catalog) DeleteLibrary(id uuid.UUID) {
	if l, ok := c.libraries[id]; ok {
		delete(c.names, l.Name)
		delete(c.libraries, id)
	}
}

// PutDocument inserts a document and appends its id to the parent library's
// list. Must be called from inside LockWrite.
func (c *Catalog) PutDocument(d *Document) {
	c.documents[d.ID] = d
	if l, ok := c.libraries[d.LibraryID]; ok {
		l.DocumentIDs = append(l.DocumentIDs, d.ID)
	}
}

// DeleteDocument removes a document and its id from the parent library's
// list. Must be called from inside LockWrite.
func (c *Catalog) DeleteDocument(id uuid.UUID) {
	d, ok := c.documents[id]
	if !ok {
		return
	}
	delete(c.documents, id)
	if l, ok := c.libraries[d.LibraryID]; ok {
		l.DocumentIDs = removeID(l.DocumentIDs, id)
	}
}

// PutChunk inserts a chunk. Must be called from inside LockWrite.
func (c *Catalog) PutChunk(ch *Chunk) {
	c.chunks[ch.ID] = ch
}

// DeleteChunk removes a chunk. Must be called from inside LockWrite. A no-op
// if absent, matching the index's own idempotent-remove contract.
func (c *Catalog) DeleteChunk(id uuid.UUID) {
	delete(c.chunks, id)
}

// LibraryRef returns the library, or ok=false if unknown, without taking a
// lock. Must be called from inside LockWrite, where the caller already holds
// the write lock and a second RLock from the same goroutine would deadlock.
func (c *Catalog) LibraryRef(id uuid.UUID) (*Library, bool) {
	l, ok := c.libraries[id]
	return l, ok
}

// DocumentRef returns the document, or ok=false if unknown, without taking a
// lock. Must be called from inside LockWrite.
func (c *Catalog) DocumentRef(id uuid.UUID) (*Document, bool) {
	d, ok := c.documents[id]
	return d, ok
}

// ChunkRef returns the chunk, or ok=false if unknown, without taking a lock.
// Must be called from inside LockWrite.
func (c *Catalog) ChunkRef(id uuid.UUID) (*Chunk, bool) {
	ch, ok := c.chunks[id]
	return ch, ok
}

// GetLibrary returns the library, or ok=false if unknown. It takes only the
// read lock, and the returned record is shared, so a caller reading it after
// the call returns may observe a later writer's mutation.
func (c *Catalog) GetLibrary(id uuid.UUID) (*Library, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.libraries[id]
	return l, ok
}

// GetDocument returns the document, or ok=false if unknown.
func (c *Catalog) GetDocument(id uuid.UUID) (*Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.documents[id]
	return d, ok
}

// GetChunk returns the chunk, or ok=false if unknown.
func (c *Catalog) GetChunk(id uuid.UUID) (*Chunk, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ch, ok := c.chunks[id]
	return ch, ok
}

func removeID(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
