package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the dashboard client.
// It registers the subscribe, sessions and keys commands.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard client commands",
	}
	root.AddCommand(NewSubscribeCommand())
	root.AddCommand(NewSessionsCommand(baseURL))
	root.AddCommand(NewKeysCommand())
	return root
}
