package model

import "time"

type Board struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Archived bool      `json:"archived"`
	Order    int       `json:"order"`
}

type List struct {
	ID       string    `json:"id"`
	BoardID  string    `json:"boardId"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Archived bool      `json:"archived"`
	Order    int       `json:"order"`
}

type Item struct {
	ID       string    `json:"id"`
	ListID   string    `json:"listId"`
	Title    string    `json:"title"`
	Content  string    `json:"content,omitempty"`
	Created  time.Time `json:"created"`
	Archived bool      `json:"archived"`
	Order    int       `json:"order"`

	// ReferenceItems holds ids of other items this item links to.
	ReferenceItems []string `json:"referenceItems,omitempty"`
}

type Tag struct {
	ID      string `json:"id"`
	BoardID string `json:"boardId"`
	Title   string `json:"title"`
	Color   string `json:"color,omitempty"`
}

type ItemTag struct {
	ID      string `json:"id"`
	ItemID  string `json:"itemId"`
	TagID   string `json:"tagId"`
	BoardID string `json:"boardId"`
}

// Ordered is implemented by entities that carry a dense per-container order.
// Pointer receivers let reindexing mutate in place.
func (b *Board) OrderIndex() int     { return b.Order }
func (b *Board) SetOrderIndex(i int) { b.Order = i }
func (l *List) OrderIndex() int      { return l.Order }
func (l *List) SetOrderIndex(i int)  { l.Order = i }
func (it *Item) OrderIndex() int     { return it.Order }
func (it *Item) SetOrderIndex(i int) { it.Order = i }
