// Command newsdb inspects the saved-news database directly, without the
// agent or any model in the loop.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/petasbytes/news-agent/internal/store"
)

var (
	dbPath string

	// Each subcommand owns its limit; sharing one variable would let the
	// last-registered default win for all of them.
	listLimit  int
	topicLimit int
)

var rootCmd = &cobra.Command{
	Use:   "newsdb",
	Short: "Inspect the saved-news database",
	Long: `Inspect news rows saved by the agent's save_to_db tool.

Quick start:
  newsdb list                 # newest rows across all topics
  newsdb topic "ai policy"    # newest rows for one topic
  newsdb get 42               # a single row by id`,
	SilenceUsage: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List newest rows across all topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := st.ListAll(cmd.Context(), listLimit)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved news rows.")
			return nil
		}
		printRows(cmd.OutOrStdout(), rows)
		return nil
	},
}

var topicCmd = &cobra.Command{
	Use:   "topic <topic>",
	Short: "List newest rows for one topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := st.ListByTopic(cmd.Context(), args[0], topicLimit)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No saved news rows for topic %q.\n", args[0])
			return nil
		}
		printRows(cmd.OutOrStdout(), rows)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single row by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid id %q: want a positive integer", args[0])
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		row, err := st.GetByID(cmd.Context(), id)
		if err != nil {
			return err
		}
		if row == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "No saved news row with id %d.\n", id)
			return nil
		}
		printRows(cmd.OutOrStdout(), []store.NewsRow{*row})
		return nil
	},
}

func printRows(w io.Writer, rows []store.NewsRow) {
	for _, r := range rows {
		fmt.Fprintf(w, "[%d] %s\n", r.ID, r.Title)
		fmt.Fprintf(w, "    topic: %s  source: %s  saved: %s\n", r.Topic, r.Source, r.CreatedAt.Format(time.RFC3339))
		if r.URL != "" {
			fmt.Fprintf(w, "    url: %s\n", r.URL)
		}
		if r.Summary != "" {
			fmt.Fprintf(w, "    %s\n", r.Summary)
		}
	}
}

func init() {
	defPath := os.Getenv("NEWS_DB_PATH")
	if defPath == "" {
		defPath = "news.db"
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defPath, "Path to the SQLite database")
	listCmd.Flags().IntVar(&listLimit, "limit", 100, "Maximum rows to print")
	topicCmd.Flags().IntVar(&topicLimit, "limit", 10, "Maximum rows to print")
	rootCmd.AddCommand(listCmd, topicCmd, getCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
