package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/report"
	"github.com/abhisek/skillpath/internal/tutor"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Record one practice attempt",
	Example: `  skillpath practice -l ada -n arithmetic --skill fractions --correct --response-ms 8200
  skillpath practice -l ada -n arithmetic --skill fractions --hints 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, notebook := learnerArgs(cmd)
		flags := cmd.Flags()
		in := tutor.PracticeInput{LearnerID: learner, NotebookID: notebook}
		in.SkillID, _ = flags.GetString("skill")
		in.SessionID, _ = flags.GetString("session")
		in.IsCorrect, _ = flags.GetBool("correct")
		in.HintsUsed, _ = flags.GetInt("hints")
		in.UserAnswer, _ = flags.GetString("answer")
		in.IsNovel, _ = flags.GetBool("novel")
		if flags.Changed("response-ms") {
			v, _ := flags.GetInt64("response-ms")
			in.ResponseTimeMs = &v
		}
		if flags.Changed("difficulty") {
			v, _ := flags.GetFloat64("difficulty")
			in.Difficulty = &v
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.svc.RecordPractice(cmd.Context(), in)
		if err != nil {
			return err
		}
		name := in.SkillID
		if g, err := e.svc.Graph(cmd.Context(), notebook); err == nil {
			if s, ok := g.Skill(in.SkillID); ok {
				name = s.DisplayName()
			}
		}
		return render(cmd, res, func() string { return report.Practice(name, res) })
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Open and close learner sessions",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <session-id>",
	Short: "Open a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, notebook := learnerArgs(cmd)
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		sess, err := e.svc.StartSession(cmd.Context(), learner, notebook, args[0], time.Time{})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s started at %s\n", sess.ID, sess.StartedAt.Format("15:04:05"))
		return nil
	},
}

var sessionEndCmd = &cobra.Command{
	Use:   "end <session-id>",
	Short: "Close a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		sess, err := e.svc.EndSession(cmd.Context(), args[0], time.Time{})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s ended after %s, %d skill(s) practiced\n", sess.ID, sess.Duration().Round(time.Second), len(sess.SkillsPracticed))
		return nil
	},
}

func init() {
	learnerFlags(practiceCmd, true)
	practiceCmd.Flags().String("skill", "", "Skill ID")
	_ = practiceCmd.MarkFlagRequired("skill")
	practiceCmd.Flags().Bool("correct", false, "The answer was correct")
	practiceCmd.Flags().Int64("response-ms", 0, "Response time in milliseconds")
	practiceCmd.Flags().Int("hints", 0, "Hints used on the attempt")
	practiceCmd.Flags().Float64("difficulty", 0, "Item difficulty in [0,1]")
	practiceCmd.Flags().String("answer", "", "The learner's answer")
	practiceCmd.Flags().Bool("novel", false, "The item was a novel variant")
	practiceCmd.Flags().String("session", "", "Session ID")

	learnerFlags(sessionStartCmd, true)
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionEndCmd)
}
