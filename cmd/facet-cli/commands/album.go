package commands

import (
	"facet-backend/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(albumCmd)
}

var albumCmd = &cobra.Command{
	Use:   "album <media-set token>",
	Short: "Fetches a window of an album's media.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := newSession()
		defer session.Close()

		result, err := session.GetAlbum(cmd.Context(), args[0], cursor)
		if err != nil {
			serviceutil.Fatal("failed to fetch album", err)
		}
		dumpJSON(result)
	},
}
