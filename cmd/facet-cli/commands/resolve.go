package commands

import (
	"facet-backend/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(shareCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <video id>",
	Short: "Resolves a watch video id to the path of its hosting post.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := newSession()
		defer session.Close()

		location, err := session.ResolveWatch(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to resolve watch link", err)
		}
		cmd.Println(location)
	},
}

var shareCmd = &cobra.Command{
	Use:   "share <token path>",
	Short: "Resolves an opaque share token to the path it points at.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := newSession()
		defer session.Close()

		location, err := session.ResolveShare(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to resolve share link", err)
		}
		cmd.Println(location)
	},
}
