package domain

import "time"

// Guide is the logical, evolving interview definition, identified by
// title. The version counter only ever increases; content lives in
// immutable GuideVersion snapshots.
type Guide struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	CurrentVersion int       `json:"currentVersion"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// GuideContent is the full question-tree snapshot stored in a version.
type GuideContent struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Version     int        `json:"version"`
	Questions   []Question `json:"questions"`
}

// GuideVersion is an immutable snapshot of a guide's content at a point
// in time. Version numbers are assigned sequentially from 1 and never
// reused; only the active flag ever changes after creation. At most one
// version per guide is active, and sessions bind to a version id so
// their content stays fixed even when the guide moves on.
type GuideVersion struct {
	ID        string       `json:"id"`
	GuideID   string       `json:"guideId"`
	Version   int          `json:"version"`
	Content   GuideContent `json:"content"`
	IsActive  bool         `json:"isActive"`
	CreatedAt time.Time    `json:"createdAt"`
}
