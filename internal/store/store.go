package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"kanban-cli/internal/model"

	_ "modernc.org/sqlite"
)

const (
	dirName        = ".kanban"
	sqliteFileName = "board.sqlite"
)

// ErrNotFound is returned by Get/Update/Delete when no row has the requested id.
var ErrNotFound = errors.New("not found")

// Store is the local persistence layer: one SQLite file holding boards, lists,
// items, tags and item-tag relations as JSON rows.
type Store struct {
	Dir string

	db *sql.DB

	mu      sync.Mutex
	subs    map[int]func(Change)
	nextSub int

	// CheckInvariants re-validates dense ordering of every container touched by a
	// transaction before it commits. Meant for debug builds and tests.
	CheckInvariants bool
}

// DiscoverDir walks up from start looking for a .kanban directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, dirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, dirName), nil
}

// Open opens (creating if needed) the store in dir and applies migrations.
func Open(ctx context.Context, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(dir, sqliteFileName))
	if err != nil {
		return nil, err
	}
	// One connection keeps transactions and pragmas on the same handle; the app is
	// single-user and single-process.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{Dir: dir, db: db, subs: map[int]func(Change){}}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string { return filepath.Join(s.Dir, sqliteFileName) }

func migrate(ctx context.Context, db *sql.DB) error {
	var stmts []string
	for _, t := range tableNames {
		stmts = append(stmts,
			`CREATE TABLE IF NOT EXISTS `+t+` (
				id TEXT PRIMARY KEY,
				container_id TEXT NOT NULL,
				archived INTEGER NOT NULL,
				ord INTEGER NOT NULL,
				json TEXT NOT NULL,
				updated_at_unixms INTEGER NOT NULL
			);`,
			`CREATE INDEX IF NOT EXISTS idx_`+t+`_container ON `+t+`(container_id, archived, ord);`,
		)
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe registers fn for change notifications. Writes made inside a
// transaction are delivered only after it commits. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) emit(changes ...Change) {
	if len(changes) == 0 {
		return
	}
	s.mu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, c := range changes {
		for _, fn := range fns {
			fn(c)
		}
	}
}

// Transaction runs fn inside one SQLite transaction. Any error returned by fn (or
// by commit) rolls everything back; change notifications fire only on success.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = sqlTx.Rollback() }()

	tx := &Tx{s: s, q: sqlTx}
	if err := fn(tx); err != nil {
		return err
	}
	if s.CheckInvariants {
		if err := tx.checkTouchedContainers(ctx); err != nil {
			return err
		}
	}
	if err := sqlTx.Commit(); err != nil {
		return err
	}
	s.emit(tx.pending...)
	return nil
}

// Atomically is Transaction expressed over the Repo interface, for callers that
// only need ordered reads and batched writes.
func (s *Store) Atomically(ctx context.Context, fn func(Repo) error) error {
	return s.Transaction(ctx, func(tx *Tx) error { return fn(tx) })
}

func (s *Store) Boards() Collection[model.Board]     { return newCollection(boardsTable, s.db, s.emit) }
func (s *Store) Lists() Collection[model.List]       { return newCollection(listsTable, s.db, s.emit) }
func (s *Store) Items() Collection[model.Item]       { return newCollection(itemsTable, s.db, s.emit) }
func (s *Store) Tags() Collection[model.Tag]         { return newCollection(tagsTable, s.db, s.emit) }
func (s *Store) ItemTags() Collection[model.ItemTag] { return newCollection(itemTagsTable, s.db, s.emit) }
