// Package sqlite stores boards in a SQLite database.
//
// The schema is managed with embedded migrations that run when the store
// opens. Each board is one row holding the JSON-encoded board and history
// plus the columns needed for listing.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/history"
	"github.com/matzehuels/sprintboard/pkg/store"
	"github.com/matzehuels/sprintboard/pkg/store/sqlite/migrations"
)

// StoreConfig is the configuration for the SQLite store.
type StoreConfig struct {
	DBPath string
	Logger *log.Logger
}

func (c *StoreConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	c.Logger = c.Logger.With("svc", "store.sqlite")
	return nil
}

// Store is a SQLite implementation of store.Store.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// New opens (creating if needed) the database and applies pending migrations.
func New(ctx context.Context, cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debug("sqlite store initialized", "path", cfg.DBPath)
	return &Store{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Get retrieves a board by id.
func (s *Store) Get(ctx context.Context, id string) (*store.Document, error) {
	query := `
		SELECT board, history, updated_at
		FROM boards
		WHERE id = ?
	`
	var (
		boardJSON   string
		historyJSON sql.NullString
		updatedAt   int64
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&boardJSON, &historyJSON, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("board %s: %w", id, store.ErrNotFound)
		}
		return nil, classify(fmt.Errorf("could not query board: %w", err))
	}

	doc := &store.Document{ID: id, UpdatedAt: time.Unix(0, updatedAt).UTC()}
	doc.Board = new(board.Board)
	if err := json.Unmarshal([]byte(boardJSON), doc.Board); err != nil {
		return nil, fmt.Errorf("could not decode board %s: %w", id, err)
	}
	if historyJSON.Valid {
		doc.History = new(history.Stack[*board.Board])
		if err := json.Unmarshal([]byte(historyJSON.String), doc.History); err != nil {
			return nil, fmt.Errorf("could not decode history of %s: %w", id, err)
		}
	}
	return doc, nil
}

// Put inserts or replaces a board.
func (s *Store) Put(ctx context.Context, doc *store.Document) error {
	boardJSON, err := json.Marshal(doc.Board)
	if err != nil {
		return fmt.Errorf("could not encode board: %w", err)
	}
	var historyJSON *string
	if doc.History != nil {
		data, err := json.Marshal(doc.History)
		if err != nil {
			return fmt.Errorf("could not encode history: %w", err)
		}
		h := string(data)
		historyJSON = &h
	}
	sum := doc.Summary()

	query := `
		INSERT INTO boards (id, title, task_count, board, history, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			task_count = excluded.task_count,
			board = excluded.board,
			history = excluded.history,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		doc.ID,
		sum.Title,
		sum.Tasks,
		string(boardJSON),
		historyJSON,
		doc.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return classify(fmt.Errorf("could not upsert board: %w", err))
	}

	s.logger.Debug("stored board", "id", doc.ID)
	return nil
}

// Delete removes a board.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return classify(fmt.Errorf("could not delete board: %w", err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("board %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// List returns board summaries ordered by id.
func (s *Store) List(ctx context.Context) ([]store.Summary, error) {
	query := `
		SELECT id, title, task_count, updated_at
		FROM boards
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(fmt.Errorf("could not query boards: %w", err))
	}
	defer rows.Close()

	var out []store.Summary
	for rows.Next() {
		var (
			sum       store.Summary
			updatedAt int64
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Tasks, &updatedAt); err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		sum.UpdatedAt = time.Unix(0, updatedAt).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// classify marks lock contention as retryable.
func classify(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked") {
		return store.Retryable(err)
	}
	return err
}

var _ store.Store = (*Store)(nil)
