package commands

import (
	"os"

	"facet-backend/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var searchCategory string

func init() {
	searchCmd.Flags().StringVarP(
		&searchCategory, "category", "t", "",
		"Result category: posts, recent_posts, people (pages by default).",
	)
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Searches for accounts or posts.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := newSession()
		defer session.Close()

		result, err := session.Search(cmd.Context(), args[0], searchCategory, cursor)
		if err != nil {
			serviceutil.Fatal("search failed", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Kind", "ID", "Name / Text", "Token"})

		for _, entry := range result.Results {
			switch {
			case entry.User != nil:
				t.AppendRow(table.Row{"user", entry.User.ID, entry.User.Name, entry.User.Username})
			case entry.Post != nil:
				text := entry.Post.Text
				if len(text) > 58 {
					text = text[:58]
				}
				t.AppendRow(table.Row{"post", entry.Post.ID, text, entry.Post.PostID})
			}
		}

		t.SetStyle(table.StyleRounded)
		t.Render()

		if result.HasNext {
			cmd.Printf("next cursor: %s\n", result.Cursor)
		}
	},
}
