package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Sentinel errors returned by the catalog.
var (
	// ErrInvalidStatus is returned when a status string is not one of the
	// defined display values.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidField is returned by Search for an unknown field name.
	ErrInvalidField = errors.New("invalid search field")

	// ErrMissingField is returned when a stored record lacks a required key.
	ErrMissingField = errors.New("missing field")

	// ErrCorruptDocument is returned by Open in strict mode when the backing
	// document exists but cannot be parsed.
	ErrCorruptDocument = errors.New("corrupt catalog document")
)

// Status is the lending state of a book.
type Status int

const (
	StatusAvailable Status = iota
	StatusIssued
)

// Display values, kept identical to existing catalogs on disk.
const (
	statusAvailableText = "в наличии"
	statusIssuedText    = "выдана"
)

// ParseStatus converts a display value into a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case statusAvailableText:
		return StatusAvailable, nil
	case statusIssuedText:
		return StatusIssued, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// String returns the display value stored in the catalog document.
func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return statusAvailableText
	case StatusIssued:
		return statusIssuedText
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalJSON() ([]byte, error) {
	if s != StatusAvailable && s != StatusIssued {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, data)
	}
	v, err := ParseStatus(text)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// JSONSchema restricts the status property to the two display values.
func (Status) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Enum:        []any{statusAvailableText, statusIssuedText},
		Description: "Lending status",
	}
}

// Book is one catalog entry.
type Book struct {
	ID     int    `json:"id" jsonschema:"minimum=1,description=Catalog-assigned identifier"`
	Title  string `json:"title" jsonschema:"description=Book title"`
	Author string `json:"author" jsonschema:"description=Book author"`
	Year   int    `json:"year" jsonschema:"description=Publication year"`
	Status Status `json:"status"`
}

// NewBook returns an available book.
func NewBook(id int, title, author string, year int) Book {
	return Book{ID: id, Title: title, Author: author, Year: year, Status: StatusAvailable}
}

// bookKeys lists the document keys in serialization order.
var bookKeys = []string{"id", "title", "author", "year", "status"}

// ToMap returns the book as a plain mapping, status in its display form.
func (b Book) ToMap() map[string]any {
	return map[string]any{
		"id":     b.ID,
		"title":  b.Title,
		"author": b.Author,
		"year":   b.Year,
		"status": b.Status.String(),
	}
}

// BookFromMap builds a Book from a mapping such as the one produced by
// ToMap or by decoding a document object into map[string]any.
func BookFromMap(m map[string]any) (Book, error) {
	for _, k := range bookKeys {
		if _, ok := m[k]; !ok {
			return Book{}, fmt.Errorf("%w: %q", ErrMissingField, k)
		}
	}
	var b Book
	var err error
	if b.ID, err = intValue(m, "id"); err != nil {
		return Book{}, err
	}
	if b.Title, err = stringValue(m, "title"); err != nil {
		return Book{}, err
	}
	if b.Author, err = stringValue(m, "author"); err != nil {
		return Book{}, err
	}
	if b.Year, err = intValue(m, "year"); err != nil {
		return Book{}, err
	}
	status, err := stringValue(m, "status")
	if err != nil {
		return Book{}, err
	}
	if b.Status, err = ParseStatus(status); err != nil {
		return Book{}, err
	}
	return b, nil
}

// UnmarshalJSON decodes a document object, requiring every key.
func (b *Book) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     *int    `json:"id"`
		Title  *string `json:"title"`
		Author *string `json:"author"`
		Year   *int    `json:"year"`
		Status *Status `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.ID == nil:
		return fmt.Errorf("%w: %q", ErrMissingField, "id")
	case raw.Title == nil:
		return fmt.Errorf("%w: %q", ErrMissingField, "title")
	case raw.Author == nil:
		return fmt.Errorf("%w: %q", ErrMissingField, "author")
	case raw.Year == nil:
		return fmt.Errorf("%w: %q", ErrMissingField, "year")
	case raw.Status == nil:
		return fmt.Errorf("%w: %q", ErrMissingField, "status")
	}
	*b = Book{ID: *raw.ID, Title: *raw.Title, Author: *raw.Author, Year: *raw.Year, Status: *raw.Status}
	return nil
}

func (b Book) String() string {
	return fmt.Sprintf("ID %d: %q by %s (%d), %s", b.ID, b.Title, b.Author, b.Year, b.Status)
}

func stringValue(m map[string]any, key string) (string, error) {
	s, ok := m[key].(string)
	if !ok {
		return "", fmt.Errorf("field %q: want string, got %T", key, m[key])
	}
	return s, nil
}

// intValue accepts Go integers as well as float64 values decoded by
// encoding/json, as long as they are whole numbers.
func intValue(m map[string]any, key string) (int, error) {
	switch v := m[key].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	case json.Number:
		n, err := v.Int64()
		if err == nil {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("field %q: want integer, got %v", key, m[key])
}

// NormalizeStatus maps user input onto a display value. It accepts the
// display values themselves and the English aliases "available"/"issued".
// Anything else is returned trimmed so that ParseStatus can reject it.
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return statusAvailableText
	case "issued":
		return statusIssuedText
	}
	return strings.TrimSpace(s)
}
