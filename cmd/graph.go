package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/skillpath/internal/skillgraph"
)

// graphFile is the YAML layout of an imported skill graph.
type graphFile struct {
	Notebook      string                    `yaml:"notebook"`
	Skills        []skillgraph.SkillNode    `yaml:"skills"`
	Prerequisites []skillgraph.Prerequisite `yaml:"prerequisites"`
}

func readGraphFile(path string) (graphFile, error) {
	var gf graphFile
	data, err := os.ReadFile(path)
	if err != nil {
		return gf, fmt.Errorf("read graph file: %w", err)
	}
	if err := yaml.Unmarshal(data, &gf); err != nil {
		return gf, fmt.Errorf("parse graph file %s: %w", path, err)
	}
	return gf, nil
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Import and browse notebook skill graphs",
}

var graphImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Validate and store a notebook's skill graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gf, err := readGraphFile(args[0])
		if err != nil {
			return err
		}
		if nb, _ := cmd.Flags().GetString("notebook"); nb != "" {
			gf.Notebook = nb
		}
		if gf.Notebook == "" {
			return fmt.Errorf("no notebook: set it in the file or pass --notebook")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		g, err := e.svc.ImportGraph(cmd.Context(), gf.Notebook, gf.Skills, gf.Prerequisites)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d skills and %d prerequisites into %s\n", g.Len(), len(gf.Prerequisites), gf.Notebook)
		return nil
	},
}

var graphListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a notebook's skills in learning order",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, notebook := learnerArgs(cmd)
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		g, err := e.svc.Graph(cmd.Context(), notebook)
		if err != nil {
			return err
		}
		skills := g.TopologicalOrder()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), skills)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-24s  %-36s  %-10s  %5s  %s\n", "ID", "Name", "Bloom", "Diff", "Requires")
		fmt.Fprintln(w, strings.Repeat("─", 100))
		for _, s := range skills {
			name := s.DisplayName()
			if len(name) > 36 {
				name = name[:33] + "..."
			}
			var reqs []string
			for _, p := range g.Prerequisites(s.ID) {
				reqs = append(reqs, fmt.Sprintf("%s (%s)", p.Skill.ID, p.Strength))
			}
			if s.IsThresholdConcept {
				name += " *"
			}
			fmt.Fprintf(w, "%-24s  %-36s  %-10s  %5.2f  %s\n", s.ID, name, s.BloomLevel.Label(), s.Difficulty, strings.Join(reqs, ", "))
		}
		fmt.Fprintf(w, "\n%d skills (* threshold concept)\n", len(skills))
		return nil
	},
}

func init() {
	graphImportCmd.Flags().StringP("notebook", "n", "", "Notebook ID (overrides the file)")
	learnerFlags(graphListCmd, false)

	graphCmd.AddCommand(graphImportCmd)
	graphCmd.AddCommand(graphListCmd)
}
