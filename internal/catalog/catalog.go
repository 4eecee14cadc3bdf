// Package catalog defines the article records served by scrollfeed and the
// Source abstraction the paginator reads them through.
package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Item is a single immutable catalog record.
type Item struct {
	ID              int       `json:"id" yaml:"id"`
	Title           string    `json:"title" yaml:"title"`
	Author          string    `json:"author" yaml:"author"`
	PublicationDate time.Time `json:"publication_date" yaml:"publication_date"`
	ImageKey        string    `json:"image_key" yaml:"image_key"`
	URL             string    `json:"url" yaml:"url"`
}

// AvatarPath returns the avatar image file name for the item's author.
func (i Item) AvatarPath() string {
	return strings.ToLower(i.Author) + ".jpg"
}

// Source is an ordered, fixed-size sequence of items.
// Implementations must be safe for concurrent reads.
type Source interface {
	// Count returns the number of items in the source.
	Count() int

	// Slice returns up to count items starting at start. Out-of-range bounds
	// are clamped to [0, Count()]; Slice never fails.
	Slice(start, count int) []Item
}

// StaticSource is an in-memory Source that never changes after construction.
type StaticSource struct {
	items []Item
}

// NewStaticSource creates a Source over a private copy of items.
func NewStaticSource(items []Item) *StaticSource {
	cp := make([]Item, len(items))
	copy(cp, items)
	return &StaticSource{items: cp}
}

// Count returns the number of items.
func (s *StaticSource) Count() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Slice returns a copy of items[start:start+count] clamped to the available range.
// The window is [start, start+count) intersected with [0, Count()).
func (s *StaticSource) Slice(start, count int) []Item {
	total := s.Count()
	if count <= 0 {
		return []Item{}
	}
	if start < 0 {
		count += start // cannot overflow: count > 0, start < 0
		start = 0
	}
	if count <= 0 || start >= total {
		return []Item{}
	}
	n := min(count, total-start)
	out := make([]Item, n)
	copy(out, s.items[start:start+n])
	return out
}

// Validate reports the first record that breaks catalog rules: ids must be
// unique and titles non-empty.
func Validate(items []Item) error {
	seen := make(map[int]int, len(items))
	for idx, item := range items {
		if prev, ok := seen[item.ID]; ok {
			return fmt.Errorf("record %d: duplicate id %d (first seen at record %d)", idx, item.ID, prev)
		}
		seen[item.ID] = idx
		if strings.TrimSpace(item.Title) == "" {
			return fmt.Errorf("record %d: title is required", idx)
		}
	}
	return nil
}
