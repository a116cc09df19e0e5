package main

import (
	"fmt"
	"io"
	"os"

	"book-catalog/library"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// app carries the state shared by every command.
type app struct {
	configPath string
	dataFile   string
	logLevel   string
	strict     bool

	// interactive enables prompts and the banner in the menu.
	interactive bool
	mgr         *library.LibraryManager
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "book-catalog",
		Short: "Personal library catalog kept in a JSON file",
		Long: `Manage a personal library catalog: add, delete, search and list books and
track whether each one is available or issued.

Without a subcommand an interactive menu is started.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd.InOrStdin(), cmd.OutOrStdout(), a.mgr, a.interactive)
		},
	}
	defaults := defaultConfig()
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "catalog.yaml", "YAML configuration file (optional)")
	pf.StringVar(&a.dataFile, "data-file", defaults.DataFile, "Catalog JSON document")
	pf.StringVar(&a.logLevel, "log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	pf.BoolVar(&a.strict, "strict", false, "Fail on an unparsable catalog instead of starting empty")

	root.AddCommand(
		newAddCmd(a),
		newDeleteCmd(a),
		newSearchCmd(a),
		newListCmd(a),
		newStatusCmd(a),
		newSchemaCmd(),
	)
	return root
}

// setup merges the config file with explicitly set flags, installs the
// logger and opens the catalog.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("data-file") {
		cfg.DataFile = a.dataFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("strict") {
		cfg.Strict = a.strict
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := newLogger(level)

	if f, ok := cmd.InOrStdin().(*os.File); ok {
		a.interactive = term.IsTerminal(int(f.Fd()))
	}

	a.mgr, err = library.NewLibraryManager(cfg.DataFile, &library.Options{Strict: cfg.Strict, Logger: logger})
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	logger.Debug("catalog ready", "path", a.mgr.Path(), "books", len(a.mgr.ListBooks()))
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printBooks(w io.Writer, books []library.Book) {
	fmt.Fprintf(w, "%-5s %-30s %-25s %-6s %s\n", "ID", "Title", "Author", "Year", "Status")
	fmt.Fprintln(w, "--------------------------------------------------------------------------------")
	for _, b := range books {
		fmt.Fprintf(w, "%-5d %-30s %-25s %-6d %s\n",
			b.ID,
			truncateString(b.Title, 30),
			truncateString(b.Author, 25),
			b.Year,
			b.Status)
	}
}

func truncateString(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(r[:maxLength])
	}
	return string(r[:maxLength-3]) + "..."
}
