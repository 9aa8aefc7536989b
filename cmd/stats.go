package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a learner's skill states",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, notebook := learnerArgs(cmd)
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		states, err := e.svc.States(cmd.Context(), learner, notebook)
		if err != nil {
			return err
		}
		return render(cmd, states, func() string { return report.Skills(states, now()) })
	},
}

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List skills due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, notebook := learnerArgs(cmd)
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		due, err := e.svc.DueReviews(cmd.Context(), learner, notebook)
		if err != nil {
			return err
		}
		return render(cmd, due, func() string { return report.Due(due) })
	},
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Recommend the next skill and list the skills ready to learn",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, notebook := learnerArgs(cmd)
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rec, err := e.svc.Recommend(cmd.Context(), learner, notebook)
		if err != nil {
			return err
		}
		if all, _ := cmd.Flags().GetBool("all"); !all {
			return render(cmd, rec, func() string { return report.Recommendation(rec) })
		}
		cs, err := e.svc.NextSkills(cmd.Context(), learner, notebook)
		if err != nil {
			return err
		}
		return render(cmd, cs, func() string {
			return report.Recommendation(rec) + "\n" + report.Next(cs)
		})
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a practice session plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, notebook := learnerArgs(cmd)
		slots, _ := cmd.Flags().GetInt("slots")
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		plan, err := e.svc.Plan(cmd.Context(), learner, notebook, slots)
		if err != nil {
			return err
		}
		return render(cmd, plan, func() string { return report.Plan(plan) })
	},
}

func init() {
	learnerFlags(statsCmd, true)
	learnerFlags(dueCmd, true)
	learnerFlags(nextCmd, true)
	nextCmd.Flags().Bool("all", false, "Also list every skill in the zone of proximal development")
	learnerFlags(planCmd, true)
	planCmd.Flags().Int("slots", 0, "Number of slots (default 5)")
}
