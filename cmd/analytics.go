package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/report"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Longitudinal learning metrics",
}

var gainCmd = &cobra.Command{
	Use:   "gain",
	Short: "Normalized learning gain per skill over a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, notebook := learnerArgs(cmd)
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			return fmt.Errorf("--days must be positive")
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		to := now()
		from := to.Add(-time.Duration(days) * 24 * time.Hour)
		g, err := e.svc.LearningGain(cmd.Context(), learner, notebook, from, to)
		if err != nil {
			return err
		}
		return render(cmd, g, func() string { return report.Gain(g) })
	},
}

var retentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "Predicted and observed retention of mastered skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, notebook := learnerArgs(cmd)
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		r, err := e.svc.Retention(cmd.Context(), learner, notebook)
		if err != nil {
			return err
		}
		return render(cmd, r, func() string { return report.Retention(r) })
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Accuracy on novel variants compared with practiced ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, notebook := learnerArgs(cmd)
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		t, err := e.svc.Transfer(cmd.Context(), learner, notebook)
		if err != nil {
			return err
		}
		return render(cmd, t, func() string { return report.Transfer(t) })
	},
}

var cohortCmd = &cobra.Command{
	Use:   "cohort",
	Short: "Class-wide mastery, struggle spots and at-risk learners",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, notebook := learnerArgs(cmd)
		learners, _ := cmd.Flags().GetStringSlice("learner")
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		sum, err := e.svc.CohortOverview(cmd.Context(), notebook, learners)
		if err != nil {
			return err
		}
		return render(cmd, sum, func() string { return report.Cohort(sum) })
	},
}

func init() {
	learnerFlags(gainCmd, true)
	gainCmd.Flags().Int("days", 30, "Length of the period ending now")
	learnerFlags(retentionCmd, true)
	learnerFlags(transferCmd, true)

	learnerFlags(cohortCmd, false)
	cohortCmd.Flags().StringSliceP("learner", "l", nil, "Learners to include (default: everyone with state in the notebook)")

	analyticsCmd.AddCommand(gainCmd)
	analyticsCmd.AddCommand(retentionCmd)
	analyticsCmd.AddCommand(transferCmd)
}
