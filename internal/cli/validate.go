package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"familytree/pkg/domain"
)

func validateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <name>...",
		Short: "Load documents and report integrity rule violations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := false
			for _, name := range args {
				tree, err := s.archive.Load(cmd.Context(), name)
				if err != nil {
					failed = true
					fmt.Fprintf(out, "%s: FAIL\n", name)
					var rve domain.RuleViolationError
					if errors.As(err, &rve) {
						printViolations(cmd, rve.Result.Violations)
					} else {
						fmt.Fprintf(out, "  %v\n", err)
					}
					continue
				}
				res, err := s.archive.Validate(cmd.Context(), tree)
				if err != nil {
					failed = true
					fmt.Fprintf(out, "%s: FAIL\n  %v\n", name, err)
					continue
				}
				fmt.Fprintf(out, "%s: OK (%d members)\n", name, len(tree.Members()))
				printViolations(cmd, res.Violations)
			}
			if failed {
				return errChecksFailed
			}
			return nil
		},
	}
}

func printViolations(cmd *cobra.Command, violations []domain.Violation) {
	for _, v := range violations {
		fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s: %s\n", v.Severity, v.Rule, v.Message)
	}
}
