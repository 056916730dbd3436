package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func listCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := s.archive.List(cmd.Context())
			if err != nil {
				return report(cmd, err)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
