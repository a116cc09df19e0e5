package library

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// LegacyBook is a row of the books table in a SQLite library.db.
type LegacyBook struct {
	ID        int64
	Title     string
	Author    string
	Available bool
}

// LegacyDatabase reads catalogs kept by the SQLite-based library tool.
type LegacyDatabase struct {
	db *sql.DB
}

// OpenLegacyDatabase opens the SQLite database at dbPath read-only. Unlike
// sql.Open it fails when the file does not exist instead of creating one.
func OpenLegacyDatabase(dbPath string) (*LegacyDatabase, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("legacy database %s does not exist", dbPath)
		}
		return nil, fmt.Errorf("stat legacy database: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &LegacyDatabase{db: db}, nil
}

// Close closes the DB.
func (d *LegacyDatabase) Close() error {
	return d.db.Close()
}

// Books returns metadata for every book ordered by id. Content is not read.
func (d *LegacyDatabase) Books() ([]LegacyBook, error) {
	rows, err := d.db.Query(`SELECT id,title,author,available FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []LegacyBook
	for rows.Next() {
		var b LegacyBook
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Available); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
