package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/edgesql/query"
)

// NewClassifyCommand creates the classify command.
func NewClassifyCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "classify SQL",
		Short: "Print the command kind a statement is executed as",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := query.PolicyByName(mode)
			if err != nil {
				return err
			}
			parsed, err := query.Parse(strings.Join(args, " "), policy)
			if err != nil {
				return err
			}
			if parsed.Kind == query.StoredProcedure {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", parsed.Kind, parsed.Procedure)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), parsed.Kind)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "extended", "classic or extended")
	return cmd
}
