package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/config"
	"github.com/abhisek/skillpath/internal/graphsource"
	"github.com/abhisek/skillpath/internal/logger"
	"github.com/abhisek/skillpath/internal/store"
	"github.com/abhisek/skillpath/internal/tutor"
)

var rootCmd = &cobra.Command{
	Use:           "skillpath",
	Short:         "Learner modeling and adaptive analytics",
	Long:          "skillpath tracks what learners know, when they should review, what they are ready for next, and how they learn.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// now is the clock used for report rendering.
var now = time.Now

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SKILLPATH_DB env var)")
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Path to YAML config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().Bool("json", false, "Print JSON instead of a report")

	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(cohortCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// env is everything a command needs, opened from flags and config.
type env struct {
	cfg    *config.Config
	log    *logger.Logger
	store  *store.Store
	svc    *tutor.Service
	closer func()
}

func (e *env) Close() {
	if e.closer != nil {
		e.closer()
	}
}

// openEnv loads config, opens the store and the graph source, and builds
// the tutor service.
func openEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(logger.Options{Mode: cfg.Log.Mode, Level: cfg.Log.Level, HashIDs: cfg.Log.HashIDs, HashSalt: cfg.Log.Salt})
	if err != nil {
		return nil, err
	}

	flag, _ := cmd.Flags().GetString("db")
	dbPath, err := cfg.DBPath(flag)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", dbPath)

	e := &env{cfg: cfg, log: log, store: st}
	var graphs graphsource.Source = graphsource.StoreSource{Repo: st.GraphRepo()}
	closers := []func(){func() { st.Close() }, log.Sync}
	if cfg.Graph.Source == config.GraphSourceNeo4j {
		n, err := graphsource.NewNeo4j(ctx, cfg.Graph.Neo4j, log)
		if err != nil {
			st.Close()
			return nil, err
		}
		graphs = n
		closers = append([]func(){func() { n.Close(context.Background()) }}, closers...)
	}
	e.closer = func() {
		for _, c := range closers {
			c()
		}
	}

	svc, err := tutor.New(tutor.FromStore(st), graphs, tutor.OptionsFromConfig(cfg), log)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.svc = svc
	return e, nil
}

// learnerFlags adds the --learner and --notebook flags a command needs.
func learnerFlags(cmd *cobra.Command, withLearner bool) {
	if withLearner {
		cmd.Flags().StringP("learner", "l", "", "Learner ID")
		_ = cmd.MarkFlagRequired("learner")
	}
	cmd.Flags().StringP("notebook", "n", "", "Notebook ID")
	_ = cmd.MarkFlagRequired("notebook")
}

func learnerArgs(cmd *cobra.Command) (learner, notebook string) {
	learner, _ = cmd.Flags().GetString("learner")
	notebook, _ = cmd.Flags().GetString("notebook")
	return learner, notebook
}

// render prints v as indented JSON when --json is set, otherwise the report.
func render(cmd *cobra.Command, v any, report func() string) error {
	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(w, v)
	}
	_, err := fmt.Fprintln(w, report())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
