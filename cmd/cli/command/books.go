package command

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"booktracker/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newBooksCmd(apiURL *string) *cobra.Command {
	booksCmd := &cobra.Command{
		Use:   "books",
		Short: "Book management commands",
		Long:  `Manage your reading list: list, view, add, edit and remove books`,
	}

	booksCmd.AddCommand(
		newListBooksCmd(apiURL),
		newGetBookCmd(apiURL),
		newAddBookCmd(apiURL),
		newEditBookCmd(apiURL),
		newRemoveBookCmd(apiURL),
	)
	return booksCmd
}

func newListBooksCmd(apiURL *string) *cobra.Command {
	var opts client.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := client.NewHTTPClient(*apiURL).ListBooks(opts)
			if err != nil {
				return describeError("list books", err)
			}

			out := cmd.OutOrStdout()
			if len(books) == 0 {
				fmt.Fprintln(out, "No books found.")
				return nil
			}

			fmt.Fprintf(out, "Found %d books:\n\n", len(books))
			for _, b := range books {
				printBook(out, &b)
				fmt.Fprintln(out, strings.Repeat("-", 50))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "only books with this status (to-read, reading, completed)")
	cmd.Flags().StringVar(&opts.Author, "author", "", "only books whose author contains this text")
	cmd.Flags().StringVar(&opts.Search, "search", "", "only books whose title or author contains this text")
	return cmd
}

func newGetBookCmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}

			b, err := client.NewHTTPClient(*apiURL).GetBook(id)
			if err != nil {
				return describeError("get book", err)
			}
			printBook(cmd.OutOrStdout(), b)
			return nil
		},
	}
}

func newAddBookCmd(apiURL *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the reading list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := bookRequestFromFlags(cmd)
			if err != nil {
				return err
			}

			b, err := client.NewHTTPClient(*apiURL).CreateBook(req)
			if err != nil {
				return describeError("add book", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, color.GreenString("Book added."))
			printBook(out, b)
			return nil
		},
	}
	addBookFlags(cmd)
	return cmd
}

func newEditBookCmd(apiURL *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Replace every field of a book",
		Long: `Replace every field of a book. Title, author and status are required;
a rating or notes left out are cleared.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}
			req, err := bookRequestFromFlags(cmd)
			if err != nil {
				return err
			}

			b, err := client.NewHTTPClient(*apiURL).UpdateBook(id, req)
			if err != nil {
				return describeError("update book", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, color.GreenString("Book updated."))
			printBook(out, b)
			return nil
		},
	}
	addBookFlags(cmd)
	return cmd
}

func newRemoveBookCmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"delete"},
		Short:   "Remove a book",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}

			if err := client.NewHTTPClient(*apiURL).DeleteBook(id); err != nil {
				return describeError("remove book", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book %d removed.\n", id)
			return nil
		},
	}
}

func addBookFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "book title")
	cmd.Flags().String("author", "", "book author")
	cmd.Flags().String("status", "", "to-read, reading or completed")
	cmd.Flags().Int("rating", 0, "rating from 1 to 10")
	cmd.Flags().String("notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("status")
}

// bookRequestFromFlags only sends rating and notes when the flags were given.
func bookRequestFromFlags(cmd *cobra.Command) (*client.BookRequest, error) {
	title, _ := cmd.Flags().GetString("title")
	author, _ := cmd.Flags().GetString("author")
	status, _ := cmd.Flags().GetString("status")

	req := &client.BookRequest{Title: title, Author: author, Status: status}

	if cmd.Flags().Changed("rating") {
		rating, err := cmd.Flags().GetInt("rating")
		if err != nil {
			return nil, err
		}
		req.Rating = &rating
	}
	if cmd.Flags().Changed("notes") {
		notes, _ := cmd.Flags().GetString("notes")
		req.Notes = &notes
	}
	return req, nil
}

// describeError shows the server's own message for API errors and
// prefixes transport failures with the action that failed.
func describeError(action string, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func parseBookID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid book ID: %q", arg)
	}
	return id, nil
}

func printBook(out io.Writer, b *client.Book) {
	fmt.Fprintf(out, "ID: %d\n", b.ID)
	fmt.Fprintf(out, "Title: %s\n", b.Title)
	fmt.Fprintf(out, "Author: %s\n", b.Author)
	fmt.Fprintf(out, "Status: %s\n", colorStatus(b.Status))
	if b.Rating != nil {
		fmt.Fprintf(out, "Rating: %d/10\n", *b.Rating)
	}
	if b.Notes != nil {
		fmt.Fprintf(out, "Notes: %s\n", *b.Notes)
	}
	fmt.Fprintf(out, "Added: %s\n", b.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if !b.UpdatedAt.Equal(b.CreatedAt) {
		fmt.Fprintf(out, "Updated: %s\n", b.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
}

func colorStatus(status string) string {
	switch status {
	case "to-read":
		return color.YellowString("%s", status)
	case "reading":
		return color.CyanString("%s", status)
	case "completed":
		return color.GreenString("%s", status)
	default:
		return status
	}
}
