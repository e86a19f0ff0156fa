package commands

import (
	"fmt"
	"os"

	"facet-backend/lib/scrapers/comet"
	"facet-backend/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var (
	postFocus string
	postSort  string
)

func init() {
	postCmd.Flags().StringVar(&postFocus, "focus", "", "Focus the thread on one comment id.")
	postCmd.Flags().StringVar(&postSort, "sort", "", "Comment ordering: all, newest.")
	rootCmd.AddCommand(postCmd)
}

var postCmd = &cobra.Command{
	Use:   "post <kind> <args...>",
	Short: "Fetches one post plus a window of its comments.",
	Long: `Fetches one post plus a window of its comments.

Kinds:
  permalink <username> <token>
  video     <username> <token>
  reel      <video id>
  group     <group token> <post token>
  photo     <node id>`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		session := newSession()
		defer session.Close()

		req := comet.PostRequest{
			Cursor: cursor,
			Focus:  postFocus,
			Sort:   postSort,
		}

		var result *comet.PostResult
		var err error
		switch args[0] {
		case "permalink":
			requireArgs(cmd, args, 3)
			result, err = session.PostFromPermalink(cmd.Context(), args[1], args[2], req)
		case "video":
			requireArgs(cmd, args, 3)
			result, err = session.PostFromVideo(cmd.Context(), args[1], args[2], req)
		case "reel":
			result, err = session.PostFromReel(cmd.Context(), args[1], req)
		case "group":
			requireArgs(cmd, args, 3)
			result, err = session.PostFromGroup(cmd.Context(), args[1], args[2], req)
		case "photo":
			result, err = session.PostFromPhoto(cmd.Context(), args[1], req)
		default:
			fmt.Fprintln(os.Stderr, cmd.UsageString())
			os.Exit(1)
		}
		if err != nil {
			serviceutil.Fatal("failed to fetch post", err)
		}
		dumpJSON(result)
	},
}

func requireArgs(cmd *cobra.Command, args []string, n int) {
	if len(args) != n {
		fmt.Fprintln(os.Stderr, cmd.UsageString())
		os.Exit(1)
	}
}
