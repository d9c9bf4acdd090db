package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/VarunSharma3520/Reply/internal/history"
	"github.com/VarunSharma3520/Reply/internal/vector"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse stored replies",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent replies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := a.history.List(limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println(mutedStyle.Render("No replies stored yet."))
			return nil
		}
		printRecords(os.Stdout, records)
		return nil
	},
}

var historySimilarCmd = &cobra.Command{
	Use:   "similar [message]",
	Short: "Find stored replies to messages similar to this one",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireIndex(); err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = 5
		}
		matches, err := a.index.SearchSimilar(cmd.Context(), strings.Join(args, " "), uint64(limit))
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println(mutedStyle.Render("No similar replies found."))
			return nil
		}
		printMatches(os.Stdout, matches)
		return nil
	},
}

var historyReindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Push every stored reply to the Qdrant index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireIndex(); err != nil {
			return err
		}
		n, err := a.history.Reindex(cmd.Context())
		fmt.Printf("Indexed %d replies\n", n)
		return err
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 10, "number of replies to show (0 for all)")
	historySimilarCmd.Flags().IntP("limit", "n", 5, "number of matches to show")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySimilarCmd)
	historyCmd.AddCommand(historyReindexCmd)
}

func printRecords(w io.Writer, records []history.Record) {
	for _, r := range records {
		fmt.Fprintf(w, "%s  %s\n", labelStyle.Render(r.Style), mutedStyle.Render(r.Time.Local().Format(time.DateTime)))
		fmt.Fprintf(w, "> %s\n%s\n\n", r.Input, r.Reply)
	}
}

func printMatches(w io.Writer, matches []vector.Match) {
	for _, m := range matches {
		fmt.Fprintf(w, "%s  %s\n", labelStyle.Render(m.Style), mutedStyle.Render(fmt.Sprintf("score %.3f", m.Score)))
		fmt.Fprintf(w, "> %s\n%s\n\n", m.Input, m.Reply)
	}
}
