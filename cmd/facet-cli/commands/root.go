package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"facet-backend/lib/scrapers/comet"
	"facet-backend/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "facet-cli",
	Short: "facet-cli fetches profiles, posts, groups, albums and search results from the command line.",
}

var (
	upstream string
	cursor   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&upstream, "upstream", "", "Override the upstream origin.")
	rootCmd.PersistentFlags().StringVar(&cursor, "cursor", "", "Resume pagination from this cursor.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSession() *comet.Session {
	session, err := comet.NewSession(comet.SessionOptions{BaseURL: upstream})
	if err != nil {
		serviceutil.Fatal("failed to create session", err)
	}
	return session
}

func dumpJSON(v any) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		serviceutil.Fatal("failed to serialize result", err)
	}
	fmt.Println(string(encoded))
}
