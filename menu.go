package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"book-catalog/library"
)

// menu reads commands from in and writes results to out.
type menu struct {
	sc          *bufio.Scanner
	out         io.Writer
	mgr         *library.LibraryManager
	interactive bool
}

func runMenu(in io.Reader, out io.Writer, mgr *library.LibraryManager, interactive bool) error {
	m := &menu{sc: bufio.NewScanner(in), out: out, mgr: mgr, interactive: interactive}

	if interactive {
		fmt.Fprintln(out, "Welcome to the Library Catalog!")
		m.printHelp()
	}

	for {
		m.prompt("\n> ")
		if !m.sc.Scan() {
			return m.sc.Err()
		}
		cmd := strings.ToLower(strings.TrimSpace(m.sc.Text()))

		switch cmd {
		case "1", "add book":
			m.handleAddBook()
		case "2", "delete book":
			m.handleDeleteBook()
		case "3", "search":
			m.handleSearchBooks()
		case "4", "list books":
			m.handleListBooks()
		case "5", "update status":
			m.handleUpdateStatus()
		case "help":
			m.printHelp()
		case "0", "exit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "":
		default:
			fmt.Fprintln(out, "Unknown command. Type 'help' to see the available commands.")
		}
	}
}

func (m *menu) printHelp() {
	fmt.Fprintln(m.out, "Available commands:")
	fmt.Fprintln(m.out, "  1. add book")
	fmt.Fprintln(m.out, "  2. delete book")
	fmt.Fprintln(m.out, "  3. search")
	fmt.Fprintln(m.out, "  4. list books")
	fmt.Fprintln(m.out, "  5. update status")
	fmt.Fprintln(m.out, "  0. exit")
}

func (m *menu) prompt(s string) {
	if m.interactive {
		fmt.Fprint(m.out, s)
	}
}

// ask prompts for one line. ok is false at end of input.
func (m *menu) ask(prompt string) (string, bool) {
	m.prompt(prompt)
	if !m.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.sc.Text()), true
}

// askInt prompts for a number; a malformed one is reported and ok is false.
func (m *menu) askInt(prompt, what string) (int, bool) {
	s, ok := m.ask(prompt)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(m.out, "Invalid %s: %s\n", what, s)
		return 0, false
	}
	return n, true
}

func (m *menu) handleAddBook() {
	title, ok := m.ask("Title: ")
	if !ok {
		return
	}
	author, ok := m.ask("Author: ")
	if !ok {
		return
	}
	year, ok := m.askInt("Year: ", "year")
	if !ok {
		return
	}
	b, err := m.mgr.AddBook(title, author, year)
	if err != nil {
		fmt.Fprintf(m.out, "Error adding book: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Added book ID %d.\n", b.ID)
}

func (m *menu) handleDeleteBook() {
	id, ok := m.askInt("Book ID: ", "book ID")
	if !ok {
		return
	}
	found, err := m.mgr.DeleteBook(id)
	switch {
	case err != nil:
		fmt.Fprintf(m.out, "Error deleting book: %v\n", err)
	case !found:
		fmt.Fprintf(m.out, "Book with ID %d not found.\n", id)
	default:
		fmt.Fprintf(m.out, "Deleted book ID %d.\n", id)
	}
}

func (m *menu) handleSearchBooks() {
	field, ok := m.ask("Search by (title/author/year): ")
	if !ok {
		return
	}
	query, ok := m.ask("Query: ")
	if !ok {
		return
	}
	books, err := m.mgr.SearchBooks(query, strings.ToLower(field))
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		fmt.Fprintf(m.out, "No books found matching '%s'.\n", query)
		return
	}
	fmt.Fprintf(m.out, "Found %d book(s) matching '%s':\n", len(books), query)
	printBooks(m.out, books)
}

func (m *menu) handleListBooks() {
	books := m.mgr.ListBooks()
	if len(books) == 0 {
		fmt.Fprintln(m.out, "No books in library.")
		return
	}
	printBooks(m.out, books)
}

func (m *menu) handleUpdateStatus() {
	id, ok := m.askInt("Book ID: ", "book ID")
	if !ok {
		return
	}
	input, ok := m.ask("New status (available/issued): ")
	if !ok {
		return
	}
	status := library.NormalizeStatus(input)
	updated, err := m.mgr.UpdateStatus(id, status)
	switch {
	case err != nil:
		fmt.Fprintf(m.out, "Error updating status: %v\n", err)
	case !updated:
		fmt.Fprintf(m.out, "Error: %v\n", statusFailure(m.mgr, id, input))
	default:
		fmt.Fprintf(m.out, "Book ID %d is now %s.\n", id, status)
	}
}
