package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultAutosaveInterval is how often an open store writes pending changes.
const DefaultAutosaveInterval = 30 * time.Second

// Option configures a Store.
type Option func(*Store)

// WithAutosaveInterval overrides DefaultAutosaveInterval. A non-positive
// interval disables autosaving.
func WithAutosaveInterval(d time.Duration) Option {
	return func(s *Store) {
		s.autosaveInterval = d
	}
}

// Store is the bot's persistent document store.
type Store struct {
	path             string
	autosaveInterval time.Duration
	logger           *slog.Logger

	mu          sync.RWMutex
	collections map[string]*Collection
	db          *sql.DB
	closed      bool

	// saveMu serializes writes to the snapshot file.
	saveMu sync.Mutex
	dirty  atomic.Bool

	stopAutosave context.CancelFunc
	autosaveDone chan struct{}
}

// New creates a store backed by the file at path. Nothing is read until Init.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:             path,
		autosaveInterval: DefaultAutosaveInterval,
		logger:           slog.Default().With("component", "store"),
		collections:      make(map[string]*Collection),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Collection returns the collection called name, creating it with options if
// it does not exist yet. Options are ignored for existing collections.
func (s *Store) Collection(name string, options CollectionOptions) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[name]; ok {
		return c
	}

	c := newCollection(name, options, s.markDirty)
	s.collections[name] = c
	s.markDirty()
	return c
}

// Collections returns the names of all collections in sorted order.
func (s *Store) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.collections))
}

// Init opens the snapshot file and loads its contents. A missing file yields
// an empty store. Once Init succeeds the store autosaves until Close.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &IOError{Op: "init", Path: s.path, Err: ErrClosed}
	}
	if s.db != nil {
		return nil
	}

	existed := true
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		existed = false
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &IOError{Op: "init", Path: s.path, Err: err}
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return &IOError{Op: "init", Path: s.path, Err: err}
	}
	db.SetMaxOpenConns(1)

	if err := createSchema(ctx, db); err != nil {
		db.Close()
		return &IOError{Op: "init", Path: s.path, Err: err}
	}

	if existed {
		if err := s.loadSnapshot(ctx, db); err != nil {
			db.Close()
			return &IOError{Op: "init", Path: s.path, Err: err}
		}
	}

	s.db = db
	s.startAutosave()

	s.logger.Info("opened store",
		"path", s.path,
		"collections", len(s.collections),
		"existed", existed,
	)
	return nil
}

// Save writes the in-memory state to the snapshot file.
func (s *Store) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	closed, db := s.closed, s.db
	s.mu.RUnlock()

	switch {
	case closed:
		return &IOError{Op: "save", Path: s.path, Err: ErrClosed}
	case db == nil:
		return &IOError{Op: "save", Path: s.path, Err: ErrNotInitialized}
	}

	if err := s.persist(ctx, db); err != nil {
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

// Close stops autosaving, saves the store and releases the file. Calling
// Close again is a no-op. After Close, Save returns ErrClosed and leaves the
// file untouched.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	db := s.db
	s.mu.Unlock()

	if db == nil {
		return nil
	}

	if s.stopAutosave != nil {
		s.stopAutosave()
		<-s.autosaveDone
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	var errs []error
	if err := s.persist(ctx, db); err != nil {
		errs = append(errs, fmt.Errorf("saving: %w", err))
	}
	if err := db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return &IOError{Op: "close", Path: s.path, Err: err}
	}

	s.logger.Info("closed store", "path", s.path)
	return nil
}

func (s *Store) markDirty() {
	s.dirty.Store(true)
}

// startAutosave must be called with s.mu held.
func (s *Store) startAutosave() {
	if s.autosaveInterval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopAutosave = cancel
	s.autosaveDone = make(chan struct{})

	go func() {
		defer close(s.autosaveDone)

		ticker := time.NewTicker(s.autosaveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !s.dirty.Load() {
					continue
				}
				if err := s.Save(ctx); err != nil && !errors.Is(err, ErrClosed) {
					s.logger.Error("failed to autosave store", "error", err)
				}
			}
		}
	}()
}

func createSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			options TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id INTEGER NOT NULL,
			body TEXT NOT NULL,
			PRIMARY KEY (collection, id)
		);
	`)
	return err
}

// loadSnapshot must be called with s.mu held.
func (s *Store) loadSnapshot(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `SELECT name, options FROM collections ORDER BY name`)
	if err != nil {
		return fmt.Errorf("reading collections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, rawOptions string
		if err := rows.Scan(&name, &rawOptions); err != nil {
			return fmt.Errorf("reading collections: %w", err)
		}
		var options CollectionOptions
		if err := json.Unmarshal([]byte(rawOptions), &options); err != nil {
			return fmt.Errorf("decoding options of %s: %w", name, err)
		}
		if _, ok := s.collections[name]; !ok {
			s.collections[name] = newCollection(name, options, s.markDirty)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading collections: %w", err)
	}

	docRows, err := db.QueryContext(ctx,
		`SELECT collection, id, body FROM documents ORDER BY collection, id`)
	if err != nil {
		return fmt.Errorf("reading documents: %w", err)
	}
	defer docRows.Close()

	docs := make(map[string][]Document)
	for docRows.Next() {
		var (
			name string
			id   int64
			body string
		)
		if err := docRows.Scan(&name, &id, &body); err != nil {
			return fmt.Errorf("reading documents: %w", err)
		}
		doc, err := decodeDocument([]byte(body))
		if err != nil {
			return fmt.Errorf("decoding document %s/%d: %w", name, id, err)
		}
		doc[IDField] = id
		docs[name] = append(docs[name], doc)
	}
	if err := docRows.Err(); err != nil {
		return fmt.Errorf("reading documents: %w", err)
	}

	for name, collectionDocs := range docs {
		c, ok := s.collections[name]
		if !ok {
			return fmt.Errorf("documents reference unknown collection %s", name)
		}
		if err := c.load(collectionDocs); err != nil {
			return err
		}
	}

	return nil
}

// persist must be called with s.saveMu held.
func (s *Store) persist(ctx context.Context, db *sql.DB) error {
	s.mu.RLock()
	collections := make([]*Collection, 0, len(s.collections))
	for _, name := range slices.Sorted(maps.Keys(s.collections)) {
		collections = append(collections, s.collections[name])
	}
	s.mu.RUnlock()

	// Cleared before taking the snapshot so that mutations racing with the
	// write are picked up by the next save.
	s.dirty.Store(false)

	if err := writeSnapshot(ctx, db, collections); err != nil {
		s.dirty.Store(true)
		return err
	}
	return nil
}

func writeSnapshot(ctx context.Context, db *sql.DB, collections []*Collection) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections`); err != nil {
		return fmt.Errorf("clearing collections: %w", err)
	}

	for _, c := range collections {
		options, err := json.Marshal(c.Options())
		if err != nil {
			return fmt.Errorf("encoding options of %s: %w", c.Name(), err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collections (name, options) VALUES (?, ?)`,
			c.Name(), string(options),
		); err != nil {
			return fmt.Errorf("writing collection %s: %w", c.Name(), err)
		}

		for _, doc := range c.snapshot() {
			id := doc.ID()
			delete(doc, IDField)
			body, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("encoding document %s/%d: %w", c.Name(), id, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)`,
				c.Name(), id, string(body),
			); err != nil {
				return fmt.Errorf("writing document %s/%d: %w", c.Name(), id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}
