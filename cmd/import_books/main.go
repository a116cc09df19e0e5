// Command import_books copies the books of a SQLite library.db, as kept by
// the previous SQLite-based library tool, into a JSON catalog.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"book-catalog/library"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := mainImpl(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "import_books: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("import_books", flag.ContinueOnError)
	dbPath := fs.String("db", "library.db", "SQLite database to import from")
	dataFile := fs.String("data-file", "data/books.json", "Catalog JSON document to import into")
	verbose := fs.Bool("v", false, "Log every imported book")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", fs.Args())
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:   level,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}))

	// Never import over an unparsable catalog: the first write would replace it.
	manager, err := library.NewLibraryManager(*dataFile, &library.Options{Strict: true, Logger: logger})
	if err != nil {
		return err
	}
	before := len(manager.ListBooks())

	fmt.Fprintf(stdout, "Importing books from %s into %s...\n", *dbPath, *dataFile)
	n, err := manager.ImportLegacy(*dbPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nImport complete!\n")
	fmt.Fprintf(stdout, "Successfully imported: %d books\n", n)

	if n > 0 {
		fmt.Fprintln(stdout, "\nImported books:")
		fmt.Fprintf(stdout, "%-3s %-50s %-30s %s\n", "ID", "Title", "Author", "Status")
		fmt.Fprintln(stdout, strings.Repeat("-", 95))
		for _, book := range manager.ListBooks()[before:] {
			fmt.Fprintf(stdout, "%-3d %-50s %-30s %s\n", book.ID, truncateString(book.Title, 50), truncateString(book.Author, 30), book.Status)
		}
	}
	return nil
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
