package library

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SearchField names a book field Search can match against.
type SearchField string

const (
	FieldTitle  SearchField = "title"
	FieldAuthor SearchField = "author"
	FieldYear   SearchField = "year"
)

// ParseSearchField validates a field name. The match is exact: callers
// taking user input normalize it first.
func ParseSearchField(s string) (SearchField, error) {
	switch f := SearchField(s); f {
	case FieldTitle, FieldAuthor, FieldYear:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (want title, author or year)", ErrInvalidField, s)
}

func (f SearchField) value(b *Book) string {
	switch f {
	case FieldTitle:
		return b.Title
	case FieldAuthor:
		return b.Author
	case FieldYear:
		return strconv.Itoa(b.Year)
	}
	return ""
}

// Options configures Open.
type Options struct {
	// Strict makes Open fail with ErrCorruptDocument when the document exists
	// but cannot be parsed. By default such a document loads as an empty
	// catalog.
	Strict bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Store is the in-memory catalog mirrored to a JSON document.
//
// A Store is not safe for concurrent use, and nothing prevents two processes
// from opening the same document: the last Persist wins.
type Store struct {
	path   string
	books  []*Book
	logger *slog.Logger
}

// Open creates the document at path if it does not exist, then loads it.
func Open(path string, opts *Options) (*Store, error) {
	if opts == nil {
		opts = &Options{}
	}
	s := &Store{path: path, logger: opts.Logger}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog dir: %w", err)
		}
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.Persist(); err != nil {
			return nil, err
		}
		s.logger.Debug("created catalog", "path", path)
		return s, nil
	} else if err != nil {
		return nil, fmt.Errorf("stat catalog: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	books, err := decodeDocument(data)
	if err != nil {
		if opts.Strict {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorruptDocument, path, err)
		}
		// The next Persist overwrites the document; keep what was there.
		backup, werr := saveBackup(path, data)
		if werr != nil {
			s.logger.Error("could not back up unparsable catalog", "path", path, "err", werr)
		}
		s.logger.Warn("catalog unparsable, starting empty", "path", path, "backup", backup, "err", err)
		return s, nil
	}
	s.books = books
	s.logger.Debug("loaded catalog", "path", path, "books", len(books))
	return s, nil
}

// saveBackup copies data to <path>.corrupt, or to <path>.corrupt.N when an
// earlier backup with different content is already there. Existing backups
// are never overwritten.
func saveBackup(path string, data []byte) (string, error) {
	const maxBackups = 100
	for i := range maxBackups {
		name := path + ".corrupt"
		if i > 0 {
			name += "." + strconv.Itoa(i)
		}
		if prev, err := os.ReadFile(name); err == nil && bytes.Equal(prev, data) {
			return name, nil
		}
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		} else if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			return "", errors.Join(err, f.Close(), os.Remove(name))
		}
		if err := f.Close(); err != nil {
			return "", errors.Join(err, os.Remove(name))
		}
		return name, nil
	}
	return "", fmt.Errorf("%d backups of %s already exist", maxBackups, path)
}

func decodeDocument(data []byte) ([]*Book, error) {
	var books []*Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, err
	}
	for i, b := range books {
		if b == nil {
			return nil, fmt.Errorf("element %d: null record", i)
		}
	}
	return books, nil
}

func encodeDocument(books []*Book) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if books == nil {
		books = []*Book{}
	}
	if err := enc.Encode(books); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Path returns the backing document path.
func (s *Store) Path() string { return s.path }

// Persist rewrites the whole document. The content goes to a temp file in the
// same directory which is then renamed over the document.
func (s *Store) Persist() error {
	data, err := encodeDocument(s.books)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()
	if _, err := f.Write(data); err != nil {
		return errors.Join(fmt.Errorf("write catalog: %w", err), f.Close(), os.Remove(tmpPath))
	}
	if err := f.Sync(); err != nil {
		return errors.Join(fmt.Errorf("sync catalog: %w", err), f.Close(), os.Remove(tmpPath))
	}
	if err := f.Close(); err != nil {
		return errors.Join(fmt.Errorf("close catalog: %w", err), os.Remove(tmpPath))
	}
	mode := fs.FileMode(0o644)
	if fi, err := os.Stat(s.path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return errors.Join(fmt.Errorf("chmod catalog: %w", err), os.Remove(tmpPath))
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return errors.Join(fmt.Errorf("replace catalog: %w", err), os.Remove(tmpPath))
	}
	return nil
}

// Add appends an available book with the next id and persists.
func (s *Store) Add(title, author string, year int) (Book, error) {
	maxID := 0
	for _, b := range s.books {
		maxID = max(maxID, b.ID)
	}
	b := NewBook(maxID+1, title, author, year)
	s.books = append(s.books, &b)
	if err := s.Persist(); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Import appends books in order with fresh ids, keeping their title, author,
// year and status, and persists once. The ids of the given books are ignored.
func (s *Store) Import(books []Book) ([]Book, error) {
	for _, b := range books {
		if b.Status != StatusAvailable && b.Status != StatusIssued {
			return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(b.Status))
		}
	}
	maxID := 0
	for _, b := range s.books {
		maxID = max(maxID, b.ID)
	}
	added := make([]Book, len(books))
	for i, b := range books {
		b.ID = maxID + 1 + i
		added[i] = b
		s.books = append(s.books, &b)
	}
	if err := s.Persist(); err != nil {
		return nil, err
	}
	return added, nil
}

// Delete removes the first book with id. It reports whether one was found.
func (s *Store) Delete(id int) (bool, error) {
	for i, b := range s.books {
		if b.ID == id {
			s.books = append(s.books[:i], s.books[i+1:]...)
			return true, s.Persist()
		}
	}
	return false, nil
}

// Search returns the books whose field contains query, ignoring case.
// field must be "title", "author" or "year"; the year matches on its decimal
// form.
func (s *Store) Search(query, field string) ([]Book, error) {
	f, err := ParseSearchField(field)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	results := []Book{}
	for _, b := range s.books {
		if strings.Contains(strings.ToLower(f.value(b)), q) {
			results = append(results, *b)
		}
	}
	return results, nil
}

// List returns a copy of the catalog in its current order.
func (s *Store) List() []Book {
	out := make([]Book, len(s.books))
	for i, b := range s.books {
		out[i] = *b
	}
	return out
}

// Get returns the book with id.
func (s *Store) Get(id int) (Book, bool) {
	for _, b := range s.books {
		if b.ID == id {
			return *b, true
		}
	}
	return Book{}, false
}

// UpdateStatus sets the status of the book with id. An unrecognized status or
// an unknown id returns false without touching the catalog; the error only
// reports a failure to persist.
func (s *Store) UpdateStatus(id int, status string) (bool, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return false, nil
	}
	for _, b := range s.books {
		if b.ID == id {
			b.Status = st
			return true, s.Persist()
		}
	}
	return false, nil
}
