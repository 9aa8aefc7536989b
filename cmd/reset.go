package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete everything recorded about a learner in a notebook",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, notebook := learnerArgs(cmd)
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to reset %s in %s without --yes", learner, notebook)
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.ResetLearner(cmd.Context(), learner, notebook); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s in %s\n", learner, notebook)
		return nil
	},
}

func init() {
	learnerFlags(resetCmd, true)
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
