package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChameeraD/RealTimeDashboard/internal/auth"
)

// NewKeysCommand constructs the `keys` command group for provisioning API
// keys. Hashes go into the server's apiKeys config; plaintext keys go to
// clients.
func NewKeysCommand() *cobra.Command {
	keysCmd := &cobra.Command{Use: "keys", Short: "API key helpers"}

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a key and print it with its bcrypt hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := auth.GenerateKey()
			if err != nil {
				return err
			}
			hash, err := auth.HashKey(key)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "key:", key)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "hash:", hash)
			return nil
		},
	}

	hashCmd := &cobra.Command{
		Use:   "hash <key>",
		Short: "Print the bcrypt hash of an existing key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashKey(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	keysCmd.AddCommand(newCmd, hashCmd)
	return keysCmd
}
