package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableSkills        = "skills"
	tablePrereqs       = "prerequisites"
	tableSkillStates   = "skill_states"
	tableHistory       = "mastery_history"
	tableMasteryEvents = "mastery_events"
	tableInteractions  = "interactions"
	tableSessions      = "sessions"
	tableProfiles      = "inverse_profiles"
	tableSettings      = "notebook_settings"
	tableSequence      = "global_sequence"
)

var (
	skillsColumns = []*schema.Column{
		{Name: "notebook_id", Type: field.TypeString},
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Default: ""},
		{Name: "bloom_level", Type: field.TypeInt, Default: 0},
		{Name: "difficulty", Type: field.TypeFloat64, Default: 0},
		{Name: "is_threshold_concept", Type: field.TypeBool, Default: false},
		{Name: "irt", Type: field.TypeJSON, Nullable: true},
		{Name: "bkt", Type: field.TypeJSON, Nullable: true},
		{Name: "position", Type: field.TypeInt, Default: 0},
	}
	skillsTable = &schema.Table{
		Name:       tableSkills,
		Columns:    skillsColumns,
		PrimaryKey: []*schema.Column{skillsColumns[0], skillsColumns[1]},
	}

	prereqsColumns = []*schema.Column{
		{Name: "notebook_id", Type: field.TypeString},
		{Name: "from_skill_id", Type: field.TypeString},
		{Name: "to_skill_id", Type: field.TypeString},
		{Name: "strength", Type: field.TypeString},
	}
	prereqsTable = &schema.Table{
		Name:       tablePrereqs,
		Columns:    prereqsColumns,
		PrimaryKey: []*schema.Column{prereqsColumns[0], prereqsColumns[1], prereqsColumns[2]},
	}

	skillStatesColumns = []*schema.Column{
		{Name: "learner_id", Type: field.TypeString},
		{Name: "notebook_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "p_mastery", Type: field.TypeFloat64},
		{Name: "p_l0", Type: field.TypeFloat64},
		{Name: "p_t", Type: field.TypeFloat64},
		{Name: "p_s", Type: field.TypeFloat64},
		{Name: "p_g", Type: field.TypeFloat64},
		{Name: "status", Type: field.TypeString},
		{Name: "mastery_threshold", Type: field.TypeFloat64},
		{Name: "total_attempts", Type: field.TypeInt},
		{Name: "correct_attempts", Type: field.TypeInt},
		{Name: "consecutive_successes", Type: field.TypeInt},
		{Name: "ease_factor", Type: field.TypeFloat64},
		{Name: "interval_days", Type: field.TypeInt},
		{Name: "repetitions", Type: field.TypeInt},
		{Name: "next_review_at", Type: field.TypeTime, Nullable: true},
		{Name: "last_reviewed_at", Type: field.TypeTime, Nullable: true},
		{Name: "scaffold_level", Type: field.TypeInt},
		{Name: "mastered_at", Type: field.TypeTime, Nullable: true},
		{Name: "updated_at", Type: field.TypeTime},
	}
	skillStatesTable = &schema.Table{
		Name:       tableSkillStates,
		Columns:    skillStatesColumns,
		PrimaryKey: []*schema.Column{skillStatesColumns[0], skillStatesColumns[1], skillStatesColumns[2]},
		Indexes: []*schema.Index{
			{Name: "skillstate_notebook_id", Columns: []*schema.Column{skillStatesColumns[1]}},
		},
	}

	historyColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "notebook_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "p_mastery", Type: field.TypeFloat64},
		{Name: "recorded_at", Type: field.TypeTime},
	}
	historyTable = &schema.Table{
		Name:       tableHistory,
		Columns:    historyColumns,
		PrimaryKey: []*schema.Column{historyColumns[0]},
		Indexes: []*schema.Index{
			{Name: "masteryhistory_learner_id_notebook_id", Columns: []*schema.Column{historyColumns[1], historyColumns[2]}},
		},
	}

	masteryEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "notebook_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "from_status", Type: field.TypeString},
		{Name: "to_status", Type: field.TypeString},
		{Name: "transition_trigger", Type: field.TypeString},
		{Name: "p_mastery", Type: field.TypeFloat64},
		{Name: "created_at", Type: field.TypeTime},
	}
	masteryEventsTable = &schema.Table{
		Name:       tableMasteryEvents,
		Columns:    masteryEventsColumns,
		PrimaryKey: []*schema.Column{masteryEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "masteryevent_learner_id_notebook_id", Columns: []*schema.Column{masteryEventsColumns[2], masteryEventsColumns[3]}},
		},
	}

	interactionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "notebook_id", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString, Nullable: true},
		{Name: "event_type", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString, Nullable: true},
		{Name: "payload", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	interactionsTable = &schema.Table{
		Name:       tableInteractions,
		Columns:    interactionsColumns,
		PrimaryKey: []*schema.Column{interactionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "interaction_learner_id_notebook_id_sequence", Columns: []*schema.Column{interactionsColumns[2], interactionsColumns[3], interactionsColumns[1]}},
		},
	}

	sessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "notebook_id", Type: field.TypeString},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "ended_at", Type: field.TypeTime, Nullable: true},
		{Name: "duration_ms", Type: field.TypeInt64, Nullable: true},
		{Name: "skills_practiced", Type: field.TypeJSON},
	}
	sessionsTable = &schema.Table{
		Name:       tableSessions,
		Columns:    sessionsColumns,
		PrimaryKey: []*schema.Column{sessionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "session_learner_id_notebook_id", Columns: []*schema.Column{sessionsColumns[1], sessionsColumns[2]}},
		},
	}

	profilesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "notebook_id", Type: field.TypeString},
		{Name: "version", Type: field.TypeInt},
		{Name: "interactions_analyzed", Type: field.TypeInt},
		{Name: "computed_at", Type: field.TypeTime},
		{Name: "data", Type: field.TypeJSON},
	}
	profilesTable = &schema.Table{
		Name:       tableProfiles,
		Columns:    profilesColumns,
		PrimaryKey: []*schema.Column{profilesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "inverseprofile_learner_id_notebook_id_version", Unique: true, Columns: []*schema.Column{profilesColumns[1], profilesColumns[2], profilesColumns[3]}},
		},
	}

	settingsColumns = []*schema.Column{
		{Name: "notebook_id", Type: field.TypeString},
		{Name: "data", Type: field.TypeJSON},
		{Name: "updated_at", Type: field.TypeTime},
	}
	settingsTable = &schema.Table{
		Name:       tableSettings,
		Columns:    settingsColumns,
		PrimaryKey: []*schema.Column{settingsColumns[0]},
	}

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       tableSequence,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	// Tables holds every table the store migrates.
	Tables = []*schema.Table{
		skillsTable,
		prereqsTable,
		skillStatesTable,
		historyTable,
		masteryEventsTable,
		interactionsTable,
		sessionsTable,
		profilesTable,
		settingsTable,
		sequenceTable,
	}
)
