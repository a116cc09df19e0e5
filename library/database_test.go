package library

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// legacyDB writes a SQLite database with the books table of the old tool.
func legacyDB(t *testing.T, rows ...LegacyBook) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.db")
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            content TEXT NOT NULL,
            available BOOLEAN NOT NULL DEFAULT 1,
            borrower_id INTEGER
        );`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for _, r := range rows {
		if _, err := db.Exec(`INSERT INTO books(title,author,content,available) VALUES(?,?,?,?)`, r.Title, r.Author, "text", r.Available); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return path
}

func TestLegacyBooks(t *testing.T) {
	path := legacyDB(t,
		LegacyBook{Title: "1984", Author: "George Orwell", Available: true},
		LegacyBook{Title: "Animal Farm", Author: "George Orwell", Available: false},
	)
	db, err := OpenLegacyDatabase(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	books, err := db.Books()
	if err != nil {
		t.Fatalf("books: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("want 2 books, got %d", len(books))
	}
	if books[0].ID != 1 || books[0].Title != "1984" || !books[0].Available {
		t.Fatalf("unexpected first row %+v", books[0])
	}
	if books[1].Available {
		t.Fatalf("second book should be checked out")
	}
}

func TestOpenLegacyDatabaseMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	if _, err := OpenLegacyDatabase(path); err == nil {
		t.Fatalf("expected error for missing database")
	}
}
