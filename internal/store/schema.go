package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableLogEntries   = "log_entries"
	tableUsers        = "users"
	tableGoalCredits  = "goal_credits"
	tableSettings     = "class_settings"
	tableLLMRequests  = "llm_request_events"
	timestampLayout   = "2006-01-02T15:04:05.000000000Z07:00"
	settingsClassCode = "class_code"
)

var (
	logEntriesColumns = []*schema.Column{
		{Name: "timestamp", Type: field.TypeString},
		{Name: "student_id", Type: field.TypeString},
		{Name: "student_name", Type: field.TypeString},
		{Name: "book_title", Type: field.TypeString},
		{Name: "author", Type: field.TypeString},
		{Name: "rating", Type: field.TypeInt},
		{Name: "format", Type: field.TypeString},
		{Name: "genre", Type: field.TypeString},
		{Name: "finished_book", Type: field.TypeBool},
		{Name: "reflection_type", Type: field.TypeString},
		{Name: "quick_thought", Type: field.TypeString, Default: ""},
		{Name: "minutes_read", Type: field.TypeInt, Nullable: true},
		{Name: "deep_dive_focus", Type: field.TypeString, Default: ""},
		{Name: "deep_dive_analysis", Type: field.TypeString, Default: ""},
		{Name: "teacher_feedback", Type: field.TypeString, Default: ""},
	}
	logEntriesTable = &schema.Table{
		Name:       tableLogEntries,
		Columns:    logEntriesColumns,
		PrimaryKey: []*schema.Column{logEntriesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "logentry_student_id", Columns: []*schema.Column{logEntriesColumns[1]}},
		},
	}

	usersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "role", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "avatar", Type: field.TypeString, Default: ""},
		{Name: "password_hash", Type: field.TypeString, Default: ""},
		{Name: "goal_type", Type: field.TypeString, Nullable: true},
		{Name: "goal_value", Type: field.TypeInt, Nullable: true},
		{Name: "goal_week", Type: field.TypeString, Nullable: true},
	}
	usersTable = &schema.Table{
		Name:       tableUsers,
		Columns:    usersColumns,
		PrimaryKey: []*schema.Column{usersColumns[0]},
	}

	goalCreditsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "week_id", Type: field.TypeString},
		{Name: "credited_at", Type: field.TypeTime},
	}
	goalCreditsTable = &schema.Table{
		Name:       tableGoalCredits,
		Columns:    goalCreditsColumns,
		PrimaryKey: []*schema.Column{goalCreditsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "goalcredit_user_id_week_id",
				Unique:  true,
				Columns: []*schema.Column{goalCreditsColumns[1], goalCreditsColumns[2]},
			},
		},
	}

	settingsColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString},
	}
	settingsTable = &schema.Table{
		Name:       tableSettings,
		Columns:    settingsColumns,
		PrimaryKey: []*schema.Column{settingsColumns[0]},
	}

	llmRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmRequestsTable = &schema.Table{
		Name:       tableLLMRequests,
		Columns:    llmRequestsColumns,
		PrimaryKey: []*schema.Column{llmRequestsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmRequestsColumns[5]}},
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmRequestsColumns[2]}},
		},
	}

	// Tables lists every table managed by the store, in creation order.
	Tables = []*schema.Table{
		logEntriesTable,
		usersTable,
		goalCreditsTable,
		settingsTable,
		llmRequestsTable,
	}
)
