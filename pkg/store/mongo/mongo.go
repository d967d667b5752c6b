// Package mongo stores boards in MongoDB, one document per board keyed by id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/sprintboard/pkg/store"
)

// Defaults for database and collection names.
const (
	DefaultDatabase   = "sprintboard"
	DefaultCollection = "boards"
)

// StoreConfig is the configuration for the MongoDB store.
type StoreConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
	Logger     *log.Logger
}

func (c *StoreConfig) defaults() error {
	if c.URI == "" {
		return fmt.Errorf("mongo uri is required")
	}
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Collection == "" {
		c.Collection = DefaultCollection
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	c.Logger = c.Logger.With("svc", "store.mongo")
	return nil
}

// Store is a MongoDB implementation of store.Store.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *log.Logger
}

// New connects to MongoDB and verifies the connection.
func New(ctx context.Context, cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	opts := options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	cfg.Logger.Debug("connected", "database", cfg.Database, "collection", cfg.Collection)
	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		logger: cfg.Logger,
	}, nil
}

// Get retrieves a board by id.
func (s *Store) Get(ctx context.Context, id string) (*store.Document, error) {
	var doc store.Document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("board %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, classify(fmt.Errorf("find board %s: %w", id, err))
	}
	return &doc, nil
}

// Put upserts the board document.
func (s *Store) Put(ctx context.Context, doc *store.Document) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return classify(fmt.Errorf("replace board %s: %w", doc.ID, err))
	}
	s.logger.Debug("stored board", "id", doc.ID)
	return nil
}

// Delete removes the board document.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return classify(fmt.Errorf("delete board %s: %w", id, err))
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("board %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// summaryDoc is the projection read by List.
type summaryDoc struct {
	ID        string    `bson:"_id"`
	UpdatedAt time.Time `bson:"updated_at"`
	Board     struct {
		ProjectTitle string     `bson:"project_title"`
		Tasks        []struct{} `bson:"tasks"`
	} `bson:"board"`
}

// List returns board summaries ordered by id.
func (s *Store) List(ctx context.Context) ([]store.Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"updated_at": 1, "board.project_title": 1, "board.tasks.id": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify(fmt.Errorf("list boards: %w", err))
	}
	var docs []summaryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classify(fmt.Errorf("read boards: %w", err))
	}
	out := make([]store.Summary, len(docs))
	for i, d := range docs {
		out[i] = store.Summary{
			ID:        d.ID,
			Title:     d.Board.ProjectTitle,
			Tasks:     len(d.Board.Tasks),
			UpdatedAt: d.UpdatedAt,
		}
	}
	return out, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// classify marks network errors and timeouts as retryable.
func classify(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return store.Retryable(err)
	}
	return err
}

var _ store.Store = (*Store)(nil)
