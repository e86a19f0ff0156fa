package commands

import (
	"facet-backend/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(groupCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile <username>",
	Short: "Fetches a profile header and a window of its timeline.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := newSession()
		defer session.Close()

		result, err := session.GetProfile(cmd.Context(), args[0], cursor)
		if err != nil {
			serviceutil.Fatal("failed to fetch profile", err)
		}
		dumpJSON(result)
	},
}

var groupCmd = &cobra.Command{
	Use:   "group <token>",
	Short: "Fetches a group header and a window of its discussion feed.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := newSession()
		defer session.Close()

		result, err := session.GetGroup(cmd.Context(), args[0], cursor)
		if err != nil {
			serviceutil.Fatal("failed to fetch group", err)
		}
		dumpJSON(result)
	},
}
