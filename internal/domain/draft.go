package domain

import "time"

// Draft is a persisted, in-progress reminder configuration snapshot. Params
// holds the JSON-encoded ReminderScheduleSummaryValue; Metadata is free-form
// JSON owned by the editing client.
type Draft struct {
	ID        string
	ClientID  string
	Params    string
	Metadata  string
	LastStep  string
	LastPath  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Submission records a payload accepted by the invoicing API for a draft.
type Submission struct {
	ID          int64
	DraftID     string
	Payload     string
	RemoteID    string
	SubmittedAt time.Time
}
