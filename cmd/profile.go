package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/profile"
	"github.com/abhisek/skillpath/internal/report"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or compute a learner's inverse profile",
	Long:  "Show the latest stored profile. With --compute, compute a new version from the learner's recent interactions first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, notebook := learnerArgs(cmd)
		compute, _ := cmd.Flags().GetBool("compute")
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if compute {
			res, err := e.svc.ComputeProfile(cmd.Context(), learner, notebook)
			if err != nil {
				return err
			}
			return render(cmd, res, func() string {
				return report.Profile(res.Profile, res.Insights, res.Warnings) +
					fmt.Sprintf("\ndata quality: %s (%.2f)", res.DataQuality.Level, res.DataQuality.Score)
			})
		}

		p, err := e.svc.LatestProfile(cmd.Context(), learner, notebook)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("no profile for %s in %s yet; run with --compute", learner, notebook)
		}
		return render(cmd, p, func() string { return report.Profile(*p, profile.Insights(*p), nil) })
	},
}

func init() {
	learnerFlags(profileCmd, true)
	profileCmd.Flags().Bool("compute", false, "Compute and store a new profile version")
}
