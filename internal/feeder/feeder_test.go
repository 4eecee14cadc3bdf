package feeder

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "articles.csv", `id,title,author,publication_date,image_key,url
1,First Post,Maria,2024-01-08,scroll,https://example.com/1
2, Second Post ,James,2024-02-01T10:30:00Z,lists,https://example.com/2
3,Third Post,Priya,,,`)

	src, err := Load(path, KindAuto)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if src.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", src.Count())
	}

	items := src.Slice(0, 3)
	if items[0].ID != 1 || items[0].Title != "First Post" || items[0].Author != "Maria" {
		t.Errorf("first item = %+v", items[0])
	}
	if want := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC); !items[0].PublicationDate.Equal(want) {
		t.Errorf("first date = %v, want %v", items[0].PublicationDate, want)
	}
	if items[1].Title != "Second Post" {
		t.Errorf("second title = %q, want trimmed", items[1].Title)
	}
	if want := time.Date(2024, time.February, 1, 10, 30, 0, 0, time.UTC); !items[1].PublicationDate.Equal(want) {
		t.Errorf("second date = %v, want %v", items[1].PublicationDate, want)
	}
	if !items[2].PublicationDate.IsZero() || items[2].URL != "" {
		t.Errorf("third item = %+v, want empty optional fields", items[2])
	}
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.csv", "id,title,author\n")

	src, err := Load(path, KindCSV)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if src.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", src.Count())
	}
}

func TestLoadJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "array",
			content: `[
				{"id": 7, "title": "Widgets", "author": "Tom", "publication_date": "2024-03-01", "url": "https://example.com/7"},
				{"id": "8", "title": "Gadgets", "author": "Elena"}
			]`,
		},
		{
			name: "wrapped",
			content: `{"items": [
				{"id": 7, "title": "Widgets", "author": "Tom", "publication_date": "2024-03-01", "url": "https://example.com/7"},
				{"id": 8, "title": "Gadgets", "author": "Elena"}
			]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "articles.json", tt.content)

			src, err := Load(path, KindAuto)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			items := src.Slice(0, src.Count())
			if len(items) != 2 {
				t.Fatalf("got %d items, want 2", len(items))
			}
			if items[0].ID != 7 || items[0].Title != "Widgets" || items[0].URL != "https://example.com/7" {
				t.Errorf("first item = %+v", items[0])
			}
			if items[1].ID != 8 || items[1].Author != "Elena" {
				t.Errorf("second item = %+v", items[1])
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "articles.yml", `
- id: 1
  title: Scrolling
  author: Aisha
  publication_date: 2024-05-02
  image_key: empty
- id: 2
  title: "Paging: the sequel"
  author: David
`)

	src, err := Load(path, KindAuto)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	items := src.Slice(0, src.Count())
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if want := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC); !items[0].PublicationDate.Equal(want) {
		t.Errorf("date = %v, want %v", items[0].PublicationDate, want)
	}
	if items[0].ImageKey != "empty" {
		t.Errorf("image key = %q, want empty", items[0].ImageKey)
	}
	if items[1].Title != "Paging: the sequel" {
		t.Errorf("title = %q", items[1].Title)
	}
}

func TestLoadYAMLWrapped(t *testing.T) {
	path := writeFile(t, "articles.yaml", "items:\n  - id: 3\n    title: Wrapped\n")

	src, err := Load(path, KindAuto)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if src.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", src.Count())
	}
}

func TestLoadKeysAreCaseInsensitive(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "articles.json", `[{"ID": 2, " Title ": "Blazor Toolbar", "Author": "Elena", "URL": "https://example.com/2"}]`},
		{"yaml", "articles.yaml", "- ID: 2\n  Title: Blazor Toolbar\n  AUTHOR: Elena\n  Url: https://example.com/2\n"},
		{"csv", "articles.csv", "ID, Title ,Author,URL\n2,Blazor Toolbar,Elena,https://example.com/2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Load(writeFile(t, tt.file, tt.content), KindAuto)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			items := src.Slice(0, src.Count())
			if len(items) != 1 {
				t.Fatalf("got %d items, want 1", len(items))
			}
			got := items[0]
			if got.ID != 2 || got.Title != "Blazor Toolbar" || got.Author != "Elena" || got.URL != "https://example.com/2" {
				t.Errorf("item = %+v", got)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		kind    Kind
		wantErr string
	}{
		{"unknown extension", "data.txt", "id\n1", KindAuto, "unknown data file format"},
		{"unknown kind", "data.csv", "id\n1", Kind("xml"), "unknown data file format"},
		{"empty csv", "data.csv", "", KindAuto, "CSV file is empty"},
		{"ragged csv", "data.csv", "id,title\n1,a\n2", KindAuto, "read CSV"},
		{"missing id", "data.csv", "id,title\n,First", KindAuto, "record 0: id is required"},
		{"bad id", "data.csv", "id,title\nabc,First", KindAuto, "record 0: invalid id"},
		{"bad date", "data.csv", "id,title,publication_date\n1,First,yesterday", KindAuto, "invalid publication_date"},
		{"missing title", "data.csv", "id,title\n1,", KindAuto, "title is required"},
		{"duplicate id", "data.csv", "id,title\n1,a\n1,b", KindAuto, "duplicate id 1"},
		{"invalid json", "data.json", "[{", KindAuto, "decode JSON"},
		{"json scalar", "data.json", `"text"`, KindAuto, "expected an array"},
		{"json non-object", "data.json", `[1]`, KindAuto, "record 0 is not an object"},
		{"json empty object", "data.json", `[{}]`, KindAuto, "record 0 is empty"},
		{"invalid yaml", "data.yaml", "- id: [", KindAuto, "decode YAML"},
		{"yaml scalar", "data.yaml", "hello", KindAuto, "expected a list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(path, tt.kind)
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), KindAuto)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestInferKind(t *testing.T) {
	tests := map[string]Kind{
		"a.csv":      KindCSV,
		"a.JSON":     KindJSON,
		"dir/a.yaml": KindYAML,
		"dir/a.yml":  KindYAML,
	}
	for path, want := range tests {
		got, err := InferKind(path)
		if err != nil {
			t.Fatalf("InferKind(%q) error = %v", path, err)
		}
		if got != want {
			t.Errorf("InferKind(%q) = %q, want %q", path, got, want)
		}
	}
	if _, err := InferKind("noext"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("InferKind(noext) error = %v, want ErrUnknownKind", err)
	}
}
