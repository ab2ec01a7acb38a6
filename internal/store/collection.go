package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"kanban-cli/internal/model"

	"github.com/google/uuid"
)

type ChangeKind string

const (
	ChangeWrite  ChangeKind = "write"
	ChangeDelete ChangeKind = "delete"
)

// Change is delivered to subscribers after a row is written or deleted.
type Change struct {
	Collection string
	Kind       ChangeKind
	ID         string
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// table describes how an entity maps onto the shared row layout.
type table[T any] struct {
	name      string
	idPrefix  string
	id        func(*T) string
	setID     func(*T, string)
	container func(*T) string
	archived  func(*T) bool
	order     func(*T) int
}

var tableNames = []string{"boards", "lists", "items", "tags", "item_tags"}

var boardsTable = table[model.Board]{
	name:      "boards",
	idPrefix:  "board",
	id:        func(b *model.Board) string { return b.ID },
	setID:     func(b *model.Board, id string) { b.ID = id },
	container: func(*model.Board) string { return "" },
	archived:  func(b *model.Board) bool { return b.Archived },
	order:     func(b *model.Board) int { return b.Order },
}

var listsTable = table[model.List]{
	name:      "lists",
	idPrefix:  "list",
	id:        func(l *model.List) string { return l.ID },
	setID:     func(l *model.List, id string) { l.ID = id },
	container: func(l *model.List) string { return l.BoardID },
	archived:  func(l *model.List) bool { return l.Archived },
	order:     func(l *model.List) int { return l.Order },
}

var itemsTable = table[model.Item]{
	name:      "items",
	idPrefix:  "item",
	id:        func(it *model.Item) string { return it.ID },
	setID:     func(it *model.Item, id string) { it.ID = id },
	container: func(it *model.Item) string { return it.ListID },
	archived:  func(it *model.Item) bool { return it.Archived },
	order:     func(it *model.Item) int { return it.Order },
}

var tagsTable = table[model.Tag]{
	name:      "tags",
	idPrefix:  "tag",
	id:        func(t *model.Tag) string { return t.ID },
	setID:     func(t *model.Tag, id string) { t.ID = id },
	container: func(t *model.Tag) string { return t.BoardID },
	archived:  func(*model.Tag) bool { return false },
	order:     func(*model.Tag) int { return 0 },
}

var itemTagsTable = table[model.ItemTag]{
	name:      "item_tags",
	idPrefix:  "itag",
	id:        func(t *model.ItemTag) string { return t.ID },
	setID:     func(t *model.ItemTag, id string) { t.ID = id },
	container: func(t *model.ItemTag) string { return t.ItemID },
	archived:  func(*model.ItemTag) bool { return false },
	order:     func(*model.ItemTag) int { return 0 },
}

// Collection is a typed view over one table, bound either to the database or to an
// open transaction.
type Collection[T any] struct {
	t    table[T]
	q    querier
	emit func(...Change)
}

func newCollection[T any](t table[T], q querier, emit func(...Change)) Collection[T] {
	return Collection[T]{t: t, q: q, emit: emit}
}

// NotFoundError names the missing entity; it matches ErrNotFound via errors.Is.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (c Collection[T]) notFound(id string) error {
	return NotFoundError{Kind: strings.TrimSuffix(c.t.name, "s"), ID: id}
}

// FindMany returns every row for which pred returns true (pred may be nil).
func (c Collection[T]) FindMany(ctx context.Context, pred func(T) bool) ([]T, error) {
	return c.query(ctx, `SELECT json FROM `+c.t.name+` ORDER BY container_id, ord, id`, pred)
}

// InContainer returns rows whose container is containerID, sorted by order.
func (c Collection[T]) InContainer(ctx context.Context, containerID string, includeArchived bool) ([]T, error) {
	q := `SELECT json FROM ` + c.t.name + ` WHERE container_id = ?`
	if !includeArchived {
		q += ` AND archived = 0`
	}
	q += ` ORDER BY ord, id`
	return c.query(ctx, q, nil, containerID)
}

func (c Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	var js string
	err := c.q.QueryRowContext(ctx, `SELECT json FROM `+c.t.name+` WHERE id = ?`, strings.TrimSpace(id)).Scan(&js)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, c.notFound(id)
	}
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal([]byte(js), &v); err != nil {
		return zero, err
	}
	return v, nil
}

// Create inserts v, assigning a fresh id when v has none.
func (c Collection[T]) Create(ctx context.Context, v T) (T, error) {
	if strings.TrimSpace(c.t.id(&v)) == "" {
		c.t.setID(&v, c.t.idPrefix+"-"+uuid.NewString())
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v, err
	}
	_, err = c.q.ExecContext(ctx, `INSERT INTO `+c.t.name+`(id, container_id, archived, ord, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
		c.t.id(&v), c.t.container(&v), boolToInt(c.t.archived(&v)), c.t.order(&v), string(raw), nowMs())
	if err != nil {
		return v, fmt.Errorf("create %s: %w", c.t.name, err)
	}
	c.emit(Change{Collection: c.t.name, Kind: ChangeWrite, ID: c.t.id(&v)})
	return v, nil
}

// Update replaces the stored row with v. The row must exist.
func (c Collection[T]) Update(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res, err := c.q.ExecContext(ctx, `UPDATE `+c.t.name+` SET container_id = ?, archived = ?, ord = ?, json = ?, updated_at_unixms = ? WHERE id = ?`,
		c.t.container(&v), boolToInt(c.t.archived(&v)), c.t.order(&v), string(raw), nowMs(), c.t.id(&v))
	if err != nil {
		return fmt.Errorf("update %s: %w", c.t.name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return c.notFound(c.t.id(&v))
	}
	c.emit(Change{Collection: c.t.name, Kind: ChangeWrite, ID: c.t.id(&v)})
	return nil
}

func (c Collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.q.ExecContext(ctx, `DELETE FROM `+c.t.name+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", c.t.name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return c.notFound(id)
	}
	c.emit(Change{Collection: c.t.name, Kind: ChangeDelete, ID: id})
	return nil
}

func (c Collection[T]) query(ctx context.Context, q string, pred func(T) bool, args ...any) ([]T, error) {
	rows, err := c.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		if pred != nil && !pred(v) {
			continue
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nowMs() int64 { return time.Now().UTC().UnixMilli() }
