package reader

import (
	"sync"
	"time"
)

// DocumentStore keeps processed documents in memory for the length of a
// reading session. Entries expire after the TTL without access.
type DocumentStore struct {
	mu       sync.Mutex
	docs     map[string]*storedDocument
	byHash   map[string]string
	ttl      time.Duration
	maxItems int
}

type storedDocument struct {
	doc        *Document
	lastAccess time.Time
}

// NewDocumentStore creates a store. maxItems <= 0 means unbounded.
func NewDocumentStore(ttl time.Duration, maxItems int) *DocumentStore {
	return &DocumentStore{
		docs:     make(map[string]*storedDocument),
		byHash:   make(map[string]string),
		ttl:      ttl,
		maxItems: maxItems,
	}
}

// Put stores doc under doc.ID, evicting the least recently used entry
// when the store is full.
func (s *DocumentStore) Put(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; !exists && s.maxItems > 0 && len(s.docs) >= s.maxItems {
		s.evictOldestLocked()
	}
	s.docs[doc.ID] = &storedDocument{doc: doc, lastAccess: time.Now()}
	if doc.ContentHash != "" {
		s.byHash[doc.ContentHash] = doc.ID
	}
}

// Get returns the document and refreshes its TTL.
func (s *DocumentStore) Get(id string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.docs[id]
	if !ok {
		return nil
	}
	entry.lastAccess = time.Now()
	return entry.doc
}

// FindByHash returns a document built from identical bytes, if cached.
func (s *DocumentStore) FindByHash(hash string) *Document {
	s.mu.Lock()
	id, ok := s.byHash[hash]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.Get(id)
}

// Delete removes a document. It reports whether one was present.
func (s *DocumentStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

// Len returns the number of cached documents.
func (s *DocumentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Cleanup removes documents idle for longer than the TTL.
func (s *DocumentStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, entry := range s.docs {
		if now.Sub(entry.lastAccess) > s.ttl {
			s.deleteLocked(id)
		}
	}
}

func (s *DocumentStore) deleteLocked(id string) bool {
	entry, ok := s.docs[id]
	if !ok {
		return false
	}
	delete(s.docs, id)
	if s.byHash[entry.doc.ContentHash] == id {
		delete(s.byHash, entry.doc.ContentHash)
	}
	return true
}

func (s *DocumentStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, entry := range s.docs {
		if oldestID == "" || entry.lastAccess.Before(oldest) {
			oldestID, oldest = id, entry.lastAccess
		}
	}
	if oldestID != "" {
		s.deleteLocked(oldestID)
	}
}
