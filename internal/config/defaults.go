package config

import (
	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/scaffold"
	"github.com/abhisek/skillpath/internal/spacedrep"
)

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	p := mastery.DefaultParams()
	th := scaffold.DefaultThresholds()
	return &Config{
		Log: LogConfig{Mode: "dev", Level: "info"},
		BKT: BKTConfig{
			DefaultPL0: p.PL0,
			DefaultPT:  p.PT,
			DefaultPS:  p.PS,
			DefaultPG:  p.PG,
		},
		Mastery: MasteryConfig{
			Threshold:        mastery.DefaultThreshold,
			ThresholdConcept: mastery.DefaultThresholdConcept,
		},
		Scaffold: ScaffoldConfig{Thresholds: th[:]},
		Review:   ReviewConfig{FastResponseMs: spacedrep.DefaultFastResponseMs},
		Profile:  ProfileConfig{WindowDays: 90, MaxInteractions: 5000, KeepVersions: 10},
		Cohort:   CohortConfig{Concurrency: 8},
		Graph:    GraphConfig{Source: GraphSourceStore, CacheSize: 64},
		Server:   ServerConfig{Port: 8080},
	}
}

// MasteryConfig converts the bkt and mastery sections.
func (c *Config) MasteryConfig() mastery.Config {
	return mastery.Config{
		UseSkillSpecific: c.BKT.UseSkillSpecific,
		Defaults: mastery.Params{
			PL0: c.BKT.DefaultPL0,
			PT:  c.BKT.DefaultPT,
			PS:  c.BKT.DefaultPS,
			PG:  c.BKT.DefaultPG,
		},
		Threshold:        c.Mastery.Threshold,
		ThresholdConcept: c.Mastery.ThresholdConcept,
	}
}

// ScaffoldThresholds converts the scaffold section. Call Validate first; a
// list of the wrong length yields the defaults.
func (c *Config) ScaffoldThresholds() scaffold.Thresholds {
	if len(c.Scaffold.Thresholds) != len(scaffold.Thresholds{}) {
		return scaffold.DefaultThresholds()
	}
	var th scaffold.Thresholds
	copy(th[:], c.Scaffold.Thresholds)
	return th
}
