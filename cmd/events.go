package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/interaction"
)

// readEvents parses one interaction per line. Blank lines and lines
// starting with # are ignored.
func readEvents(r io.Reader) ([]interaction.Interaction, error) {
	var out []interaction.Interaction
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var it interaction.Interaction
		if err := json.Unmarshal([]byte(text), &it); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, it)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return out, nil
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Import interaction logs",
}

var eventsImportCmd = &cobra.Command{
	Use:   "import <file.jsonl>",
	Short: "Replay a JSON-lines interaction log into the learner model",
	Long:  "Replay a JSON-lines interaction log in time order. Practice attempts update skill states as if recorded live. Use - to read from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open events file: %w", err)
			}
			defer f.Close()
			r = f
		}
		events, err := readEvents(r)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rep, err := e.svc.ImportEvents(cmd.Context(), events)
		if err != nil {
			return fmt.Errorf("import stopped after %d events: %w", rep.Imported, err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), rep)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Imported %d events, skipped %d\n", rep.Imported, rep.Skipped)
		for _, msg := range rep.Errors {
			fmt.Fprintln(w, "  "+msg)
		}
		return nil
	},
}

func init() {
	eventsCmd.AddCommand(eventsImportCmd)
}
