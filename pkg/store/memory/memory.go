// Package memory is an in-process board store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sprintboard/pkg/store"
)

// StoreConfig is the configuration for the memory store.
type StoreConfig struct {
	Logger *log.Logger
}

func (c *StoreConfig) defaults() {
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	c.Logger = c.Logger.With("svc", "store.memory")
}

// Store keeps encoded documents in a map, so callers never share state
// with it or with each other.
type Store struct {
	docs   map[string][]byte
	mu     sync.RWMutex
	logger *log.Logger
}

// New creates an empty memory store.
func New(cfg StoreConfig) *Store {
	cfg.defaults()
	return &Store{docs: make(map[string][]byte), logger: cfg.Logger}
}

// Get returns a copy of the stored document.
func (s *Store) Get(ctx context.Context, id string) (*store.Document, error) {
	s.mu.RLock()
	data, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("board %s: %w", id, store.ErrNotFound)
	}
	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode board %s: %w", id, err)
	}
	return &doc, nil
}

// Put stores a copy of doc.
func (s *Store) Put(ctx context.Context, doc *store.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode board %s: %w", doc.ID, err)
	}
	s.mu.Lock()
	s.docs[doc.ID] = data
	s.mu.Unlock()
	s.logger.Debug("stored board", "id", doc.ID, "bytes", len(data))
	return nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("board %s: %w", id, store.ErrNotFound)
	}
	delete(s.docs, id)
	return nil
}

// List returns summaries of all documents ordered by id.
func (s *Store) List(ctx context.Context) ([]store.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Summary, 0, len(s.docs))
	for id, data := range s.docs {
		var doc store.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode board %s: %w", id, err)
		}
		out = append(out, doc.Summary())
	}
	slices.SortFunc(out, func(a, b store.Summary) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// Close does nothing for the memory store.
func (s *Store) Close() error { return nil }

var _ store.Store = (*Store)(nil)
