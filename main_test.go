package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"book-catalog/library"
)

// run executes the CLI against a catalog in a temp dir.
func run(t *testing.T, dataFile, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", "", "--data-file", dataFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func readCatalog(t *testing.T, path string) []library.Book {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	var books []library.Book
	if err := json.Unmarshal(data, &books); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	return books
}

func TestCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")

	out, err := run(t, path, "", "add", "--title", "Мастер и Маргарита", "--author", "М. А. Булгаков", "--year", "1940")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Added book ID 1.") {
		t.Fatalf("add output: %q", out)
	}
	if _, err := run(t, path, "", "add", "--title", "Идиот", "--author", "Ф. М. Достоевский", "--year", "1869"); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err = run(t, path, "", "search", "--field", "year", "1940")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Мастер и Маргарита") || strings.Contains(out, "Идиот") {
		t.Fatalf("search output: %q", out)
	}

	out, err = run(t, path, "", "search", "--field", "Author", "достоевский")
	if err != nil {
		t.Fatalf("search by Author: %v", err)
	}
	if !strings.Contains(out, "Идиот") {
		t.Fatalf("search output: %q", out)
	}

	if _, err := run(t, path, "", "search", "--field", "genre", "x"); err == nil || !strings.Contains(err.Error(), "invalid search field") {
		t.Fatalf("search genre: want invalid field error, got %v", err)
	}

	if _, err := run(t, path, "", "status", "2", "Issued"); err != nil {
		t.Fatalf("status: %v", err)
	}
	if _, err := run(t, path, "", "status", "2", "lost"); err == nil || !strings.Contains(err.Error(), "unknown status") {
		t.Fatalf("bad status: got %v", err)
	}
	if _, err := run(t, path, "", "status", "9", "issued"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unknown id: got %v", err)
	}

	if _, err := run(t, path, "", "delete", "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := run(t, path, "", "delete", "1"); err == nil {
		t.Fatalf("second delete succeeded")
	}
	if _, err := run(t, path, "", "delete", "one"); err == nil {
		t.Fatalf("non-numeric id accepted")
	}

	out, err = run(t, path, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Идиот") || !strings.Contains(out, "выдана") {
		t.Fatalf("list output: %q", out)
	}

	want := []library.Book{{ID: 2, Title: "Идиот", Author: "Ф. М. Достоевский", Year: 1869, Status: library.StatusIssued}}
	if got := readCatalog(t, path); len(got) != 1 || got[0] != want[0] {
		t.Fatalf("catalog = %v, want %v", got, want)
	}
}

func TestStrictFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, path, "", "--strict", "list"); err == nil {
		t.Fatalf("strict mode accepted a corrupt catalog")
	}
	out, err := run(t, path, "", "list")
	if err != nil {
		t.Fatalf("lenient list: %v", err)
	}
	if !strings.Contains(out, "No books in library.") {
		t.Fatalf("list output: %q", out)
	}
}

func TestSchemaCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	out, err := run(t, path, "", "schema")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(out, `"type": "array"`) || !strings.Contains(out, "в наличии") {
		t.Fatalf("schema output: %s", out)
	}
	if _, err := os.Stat(path); err == nil {
		t.Fatalf("schema created the catalog")
	}
}

func TestTruncateString(t *testing.T) {
	for _, tc := range []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"Преступление и наказание", 10, "Преступ..."},
		{"abcdef", 3, "abc"},
	} {
		if got := truncateString(tc.in, tc.max); got != tc.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
