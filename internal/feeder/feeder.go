// Package feeder loads catalog records from CSV, JSON or YAML data files.
package feeder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/torosent/scrollfeed/internal/catalog"
)

// Kind identifies a data file format.
type Kind string

const (
	KindAuto Kind = ""
	KindCSV  Kind = "csv"
	KindJSON Kind = "json"
	KindYAML Kind = "yaml"
)

// Record represents a single row of data with named fields.
type Record map[string]string

// Column names shared by every format.
const (
	FieldID              = "id"
	FieldTitle           = "title"
	FieldAuthor          = "author"
	FieldPublicationDate = "publication_date"
	FieldImageKey        = "image_key"
	FieldURL             = "url"
)

// fieldName normalizes a column or key name so every format matches the
// Field constants regardless of case.
func fieldName(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// ErrUnknownKind is returned when a format cannot be determined.
var ErrUnknownKind = errors.New("unknown data file format")

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// InferKind returns the format implied by the file extension.
func InferKind(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return KindCSV, nil
	case ".json":
		return KindJSON, nil
	case ".yaml", ".yml":
		return KindYAML, nil
	default:
		return KindAuto, fmt.Errorf("%w: %q", ErrUnknownKind, path)
	}
}

// Load reads the data file at path and returns it as a static source. An
// empty kind infers the format from the file extension.
func Load(path string, kind Kind) (*catalog.StaticSource, error) {
	if kind == KindAuto {
		inferred, err := InferKind(path)
		if err != nil {
			return nil, err
		}
		kind = inferred
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var records []Record
	switch kind {
	case KindCSV:
		records, err = parseCSV(data)
	case KindJSON:
		records, err = parseJSON(data)
	case KindYAML:
		records, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}

	items, err := ToItems(records)
	if err != nil {
		return nil, err
	}
	return catalog.NewStaticSource(items), nil
}

// ToItems converts records to catalog items and validates the result.
func ToItems(records []Record) ([]catalog.Item, error) {
	items := make([]catalog.Item, 0, len(records))
	for i, rec := range records {
		item, err := toItem(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		items = append(items, item)
	}
	if err := catalog.Validate(items); err != nil {
		return nil, err
	}
	return items, nil
}

func toItem(rec Record) (catalog.Item, error) {
	rawID := strings.TrimSpace(rec[FieldID])
	if rawID == "" {
		return catalog.Item{}, errors.New("id is required")
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("invalid id %q: %w", rawID, err)
	}

	item := catalog.Item{
		ID:       id,
		Title:    strings.TrimSpace(rec[FieldTitle]),
		Author:   strings.TrimSpace(rec[FieldAuthor]),
		ImageKey: strings.TrimSpace(rec[FieldImageKey]),
		URL:      strings.TrimSpace(rec[FieldURL]),
	}
	if raw := strings.TrimSpace(rec[FieldPublicationDate]); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return catalog.Item{}, err
		}
		item.PublicationDate = date
	}
	return item, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid publication_date %q: want RFC3339 or YYYY-MM-DD", raw)
}
