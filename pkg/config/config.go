// Package config loads sprintboard settings from a TOML file.
//
// The file is optional: a missing default file yields [Default]. A minimal
// file selecting the SQLite backend looks like:
//
//	board = "q3"
//
//	[store]
//	backend = "sqlite"
//
//	[store.sqlite]
//	path = "/var/lib/sprintboard/boards.db"
//
// A few environment variables override the file, for containers:
// SPRINTBOARD_BOARD, SPRINTBOARD_STORE, SPRINTBOARD_REDIS_ADDR,
// SPRINTBOARD_MONGO_URI and SPRINTBOARD_ADDR.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/history"
	"github.com/matzehuels/sprintboard/pkg/layout"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the accepted store.backend values.
var Backends = []string{BackendFile, BackendMemory, BackendSQLite, BackendRedis, BackendMongo}

// DefaultBoard is the board id used when none is given.
const DefaultBoard = "default"

// Config is the full configuration.
type Config struct {
	Board   string         `toml:"board"`
	Store   Store          `toml:"store"`
	Server  Server         `toml:"server"`
	Layout  layout.Metrics `toml:"layout"`
	History History        `toml:"history"`
}

// Store selects and configures the storage backend.
type Store struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"` // file backend; empty means the XDG data dir
	SQLite  SQLite `toml:"sqlite"`
	Redis   Redis  `toml:"redis"`
	Mongo   Mongo  `toml:"mongo"`
}

// SQLite configures the sqlite backend.
type SQLite struct {
	Path string `toml:"path"`
}

// Redis configures the redis backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Mongo configures the mongo backend.
type Mongo struct {
	URI        string        `toml:"uri"`
	Database   string        `toml:"database"`
	Collection string        `toml:"collection"`
	Timeout    time.Duration `toml:"timeout"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// History configures undo depth.
type History struct {
	Limit int `toml:"limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Board: DefaultBoard,
		Store: Store{
			Backend: BackendFile,
			SQLite:  SQLite{Path: filepath.Join(dataDir(), "boards.db")},
			Redis:   Redis{Addr: "localhost:6379", Prefix: "sprintboard:"},
			Mongo:   Mongo{URI: "mongodb://localhost:27017", Database: "sprintboard", Collection: "boards", Timeout: 10 * time.Second},
		},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Layout:  layout.DefaultMetrics(),
		History: History{Limit: history.DefaultLimit},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/sprintboard/config.toml, falling back
// to the user config directory.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sprintboard", "config.toml")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "sprintboard", "config.toml")
	}
	return filepath.Join(".sprintboard", "config.toml")
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "sprintboard")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "sprintboard")
	}
	return ".sprintboard"
}

// Load reads the configuration at path on top of Default, then applies
// environment overrides. An empty path means DefaultPath, which may be absent;
// an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidInput, "%s: unknown setting %q", path, undecoded[0].String())
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SPRINTBOARD_BOARD"); v != "" {
		c.Board = v
	}
	if v := os.Getenv("SPRINTBOARD_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("SPRINTBOARD_REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("SPRINTBOARD_MONGO_URI"); v != "" {
		c.Store.Mongo.URI = v
	}
	if v := os.Getenv("SPRINTBOARD_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	if err := errors.ValidateID(c.Board); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if !slices.Contains(Backends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "store.backend %q is not one of %v", c.Store.Backend, Backends)
	}
	m := c.Layout
	for name, v := range map[string]float64{
		"sprint_width":   m.SprintWidth,
		"card_height":    m.CardHeight,
		"row_pitch":      m.RowPitch,
		"min_task_width": m.MinTaskWidth,
	} {
		if v <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "layout.%s must be positive", name)
		}
	}
	if c.History.Limit < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "history.limit must not be negative")
	}
	return nil
}

// Write encodes the configuration as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
