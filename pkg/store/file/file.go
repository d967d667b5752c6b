// Package file stores boards as JSON files in a directory, one file per board.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/store"
)

// StoreConfig is the configuration for the file store.
type StoreConfig struct {
	// Dir holds the board files. Defaults to DefaultDir().
	Dir    string
	Logger *log.Logger
}

func (c *StoreConfig) defaults() error {
	if c.Dir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		c.Dir = dir
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	c.Logger = c.Logger.With("svc", "store.file")
	return nil
}

// DefaultDir returns $XDG_DATA_HOME/sprintboard/boards, falling back to
// ~/.local/share/sprintboard/boards.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "sprintboard", "boards"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "sprintboard", "boards"), nil
}

// Store is a file-based board store for CLI applications.
type Store struct {
	mu     sync.RWMutex
	dir    string
	logger *log.Logger
}

// New creates the board directory if needed and returns a store over it.
func New(cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create board dir: %w", err)
	}
	return &Store{dir: cfg.Dir, logger: cfg.Logger}, nil
}

func (s *Store) path(id string) (string, error) {
	if err := errors.ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Get reads the board file with the given id.
func (s *Store) Get(ctx context.Context, id string) (*store.Document, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readDoc(path, id)
}

func readDoc(path, id string) (*store.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("board %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("read board file: %w", err)
	}
	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse board file %s", path)
	}
	return &doc, nil
}

// Put writes the board file. The write goes to a temporary file first and is
// renamed into place, so readers never see a partial document.
func (s *Store) Put(ctx context.Context, doc *store.Document) error {
	path, err := s.path(doc.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, doc.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write board file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write board file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace board file: %w", err)
	}
	s.logger.Debug("wrote board", "path", path, "bytes", len(data))
	return nil
}

// Delete removes the board file.
func (s *Store) Delete(ctx context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("board %s: %w", id, store.ErrNotFound)
		}
		return fmt.Errorf("remove board file: %w", err)
	}
	return nil
}

// List reads every board file in the directory. Unreadable files are
// logged and skipped.
func (s *Store) List(ctx context.Context) ([]store.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read board dir: %w", err)
	}
	var out []store.Summary
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		doc, err := readDoc(filepath.Join(s.dir, entry.Name()), id)
		if err != nil {
			s.logger.Warn("skipping board file", "file", entry.Name(), "err", err)
			continue
		}
		out = append(out, doc.Summary())
	}
	slices.SortFunc(out, func(a, b store.Summary) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// Close does nothing for the file store.
func (s *Store) Close() error { return nil }

// Dir returns the directory holding the board files.
func (s *Store) Dir() string { return s.dir }

var _ store.Store = (*Store)(nil)
