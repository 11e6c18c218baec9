package command

// root.go defines the root command for the booktracker CLI
// and the global flags shared by every subcommand.

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:3000"

// NewRootCmd builds a fresh command tree. The api flag defaults to
// BOOKTRACKER_API when set.
func NewRootCmd() *cobra.Command {
	var apiURL string

	rootCmd := &cobra.Command{
		Use:   "booktracker",
		Short: "booktracker - personal reading list from the command line",
		Long: `booktracker talks to the book tracker API. Use it to:
- List and filter the books on your reading list
- Add, edit and remove books
- Track status, rating and notes for each book

Use "booktracker [command] --help" to see all available commands.`,
		SilenceUsage: true,
	}

	defaultURL := defaultAPIURL
	if env := os.Getenv("BOOKTRACKER_API"); env != "" {
		defaultURL = env
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API server URL")

	rootCmd.AddCommand(newBooksCmd(&apiURL))
	return rootCmd
}

// Execute runs the CLI. It is called once by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
