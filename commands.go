package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"book-catalog/library"

	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	var title, author string
	var year int
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.mgr.AddBook(title, author, year)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added book ID %d.\n", b.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Book title")
	cmd.Flags().StringVar(&author, "author", "", "Book author")
	cmd.Flags().IntVar(&year, "year", 0, "Publication year")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ok, err := a.mgr.DeleteBook(id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("book %d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted book ID %d.\n", id)
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var field string
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search books by title, author or year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.mgr.SearchBooks(args[0], strings.ToLower(strings.TrimSpace(field)))
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No books found matching '%s'.\n", args[0])
				return nil
			}
			printBooks(cmd.OutOrStdout(), books)
			return nil
		},
	}
	cmd.Flags().StringVar(&field, "field", "title", "Field to search: title, author or year")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			books := a.mgr.ListBooks()
			if len(books) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No books in library.")
				return nil
			}
			printBooks(cmd.OutOrStdout(), books)
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set a book's status (available or issued)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status := library.NormalizeStatus(args[1])
			ok, err := a.mgr.UpdateStatus(id, status)
			if err != nil {
				return err
			}
			if !ok {
				return statusFailure(a.mgr, id, args[1])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book ID %d is now %s.\n", id, status)
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the catalog document",
		Args:  cobra.NoArgs,
		// The schema does not depend on any catalog.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(library.DocumentSchema())
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid book ID: %s", s)
	}
	return id, nil
}

// statusFailure explains why UpdateStatus returned false.
func statusFailure(mgr *library.LibraryManager, id int, status string) error {
	if _, found := mgr.GetBook(id); !found {
		return fmt.Errorf("book %d not found", id)
	}
	return fmt.Errorf("unknown status %q (use available or issued)", status)
}
