package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/scaffold"
	"github.com/abhisek/skillpath/internal/tutor"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change a notebook's model settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings of a notebook",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, notebook := learnerArgs(cmd)
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ns, err := e.svc.Settings(cmd.Context(), notebook)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), ns)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change knowledge-tracing parameters, thresholds or scaffold boundaries",
	Example: `  skillpath settings set -n arithmetic --pt 0.15 --skill-specific
  skillpath settings set -n arithmetic --scaffold 0.25,0.5,0.75`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, notebook := learnerArgs(cmd)
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		cur, err := e.svc.Settings(cmd.Context(), notebook)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		var up tutor.SettingsUpdate

		m := cur.Mastery
		changed := false
		for name, dst := range map[string]*float64{
			"pl0": &m.Defaults.PL0, "pt": &m.Defaults.PT, "ps": &m.Defaults.PS, "pg": &m.Defaults.PG,
			"threshold": &m.Threshold, "threshold-concept": &m.ThresholdConcept,
		} {
			if flags.Changed(name) {
				*dst, _ = flags.GetFloat64(name)
				changed = true
			}
		}
		if flags.Changed("skill-specific") {
			m.UseSkillSpecific, _ = flags.GetBool("skill-specific")
			changed = true
		}
		if changed {
			up.Mastery = &m
		}
		if flags.Changed("scaffold") {
			vs, _ := flags.GetFloat64Slice("scaffold")
			if len(vs) != 3 {
				return fmt.Errorf("--scaffold takes exactly three boundaries, got %d", len(vs))
			}
			th := scaffold.Thresholds{vs[0], vs[1], vs[2]}
			up.Scaffold = &th
		}
		if flags.Changed("fast-response-ms") {
			v, _ := flags.GetInt64("fast-response-ms")
			up.FastResponseMs = &v
		}

		ns, err := e.svc.UpdateSettings(cmd.Context(), notebook, up)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), ns)
	},
}

func init() {
	learnerFlags(settingsShowCmd, false)
	learnerFlags(settingsSetCmd, false)
	f := settingsSetCmd.Flags()
	f.Float64("pl0", 0, "Prior probability of mastery")
	f.Float64("pt", 0, "Probability of learning per attempt")
	f.Float64("ps", 0, "Slip probability")
	f.Float64("pg", 0, "Guess probability")
	f.Float64("threshold", 0, "Mastery threshold")
	f.Float64("threshold-concept", 0, "Mastery threshold for threshold concepts")
	f.Bool("skill-specific", false, "Use per-skill knowledge-tracing parameters from the graph")
	f.Float64Slice("scaffold", nil, "Scaffold boundaries for levels 2, 3 and 4")
	f.Int64("fast-response-ms", 0, "Response time at or below which a correct answer is rated perfect")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
