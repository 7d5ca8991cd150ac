package domain

import "time"

// RunCompletedEvent represents the payload for passforge.run.completed messages.
type RunCompletedEvent struct {
	EventID     string
	RunID       string
	ProfileID   string
	ProfileName string
	Identities  int
	RequestedBy string
	CompletedAt time.Time
	Metadata    map[string]any
}

// ProfileCreatedEvent represents the payload for passforge.profile.created messages.
type ProfileCreatedEvent struct {
	EventID   string
	ProfileID string
	Name      string
	CreatedAt time.Time
}

// ProfileUpdatedEvent represents the payload for passforge.profile.updated messages.
type ProfileUpdatedEvent struct {
	EventID   string
	ProfileID string
	Name      string
	UpdatedAt time.Time
}

// ProfileDeletedEvent represents the payload for passforge.profile.deleted messages.
type ProfileDeletedEvent struct {
	EventID   string
	ProfileID string
	DeletedAt time.Time
}
