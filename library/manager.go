package library

import (
	"fmt"
	"log/slog"
)

// LibraryManager is a thin façade over the Store, keeping CLI code simple.
type LibraryManager struct {
	store  *Store
	logger *slog.Logger
}

// NewLibraryManager opens (or creates) the catalog document at path.
func NewLibraryManager(path string, opts *Options) (*LibraryManager, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store, err := Open(path, &Options{Strict: opts.Strict, Logger: logger})
	if err != nil {
		return nil, err
	}
	return &LibraryManager{store: store, logger: logger}, nil
}

// Path returns the catalog document path.
func (lm *LibraryManager) Path() string { return lm.store.Path() }

// ------------------ Book helpers ------------------

func (lm *LibraryManager) AddBook(title, author string, year int) (Book, error) {
	b, err := lm.store.Add(title, author, year)
	if err != nil {
		lm.logger.Error("add book", "title", title, "err", err)
		return Book{}, err
	}
	lm.logger.Info("added book", "id", b.ID, "title", b.Title)
	return b, nil
}

func (lm *LibraryManager) DeleteBook(id int) (bool, error) {
	found, err := lm.store.Delete(id)
	if err != nil {
		lm.logger.Error("delete book", "id", id, "err", err)
		return found, err
	}
	if found {
		lm.logger.Info("deleted book", "id", id)
	}
	return found, nil
}

func (lm *LibraryManager) GetBook(id int) (Book, bool) { return lm.store.Get(id) }
func (lm *LibraryManager) ListBooks() []Book           { return lm.store.List() }

// ------------------ Search ------------------

func (lm *LibraryManager) SearchBooks(query, field string) ([]Book, error) {
	return lm.store.Search(query, field)
}

// ------------------ Circulation ------------------

// UpdateStatus returns false without error for an unknown id or status.
func (lm *LibraryManager) UpdateStatus(id int, status string) (bool, error) {
	ok, err := lm.store.UpdateStatus(id, status)
	if err != nil {
		lm.logger.Error("update status", "id", id, "err", err)
		return ok, err
	}
	if ok {
		lm.logger.Info("updated status", "id", id, "status", status)
	}
	return ok, nil
}

// ------------------ Import ------------------

// ImportLegacy appends every book of the SQLite database at dbPath to the
// catalog and returns how many were imported. Books get fresh catalog ids and
// year 0; checked-out books are marked issued. The catalog is written once.
func (lm *LibraryManager) ImportLegacy(dbPath string) (int, error) {
	db, err := OpenLegacyDatabase(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	legacy, err := db.Books()
	if err != nil {
		return 0, err
	}
	books := make([]Book, len(legacy))
	for i, lb := range legacy {
		books[i] = Book{Title: lb.Title, Author: lb.Author, Status: StatusAvailable}
		if !lb.Available {
			books[i].Status = StatusIssued
		}
	}
	added, err := lm.store.Import(books)
	if err != nil {
		lm.logger.Error("import legacy catalog", "db", dbPath, "err", err)
		return 0, fmt.Errorf("import %s: %w", dbPath, err)
	}
	for i, b := range added {
		lm.logger.Debug("imported book", "legacy_id", legacy[i].ID, "id", b.ID)
	}
	lm.logger.Info("imported legacy catalog", "db", dbPath, "books", len(added))
	return len(added), nil
}
