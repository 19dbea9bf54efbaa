package model

import "time"

// Story statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Source types describe where a story's content came from.
const (
	SourceStatic = "static"
	SourceAI     = "ai"
	SourceUser   = "user"
)

// Values applied to every new story while there is no authenticated author.
const (
	DefaultLanguage  = "en"
	DefaultStatus    = StatusPublished
	DefaultCreatedBy = "system"
)

// AgeGroup is the inclusive age range a story is written for.
type AgeGroup struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Source records the origin of a story. It is embedded in the story document.
type Source struct {
	Type        string  `json:"type"`
	ReferenceID *string `json:"referenceId"`
}

// Story is a validated, fully defaulted story record.
// This is a pure domain model; persistence mappings live in the repository implementations.
type Story struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	AgeGroup        AgeGroup  `json:"ageGroup"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	Tags            []string  `json:"tags"`
	Moral           *string   `json:"moral,omitempty"`
	Language        string    `json:"language"`
	Status          string    `json:"status"`
	CreatedBy       string    `json:"createdBy"`
	Source          Source    `json:"source"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DraftAgeGroup keeps both bounds optional so a missing bound can be told apart from zero.
type DraftAgeGroup struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// StoryDraft is the caller-supplied input to story creation, before validation.
// Source is accepted on the wire but never honoured.
type StoryDraft struct {
	Title           string         `json:"title"`
	Content         string         `json:"content"`
	AgeGroup        *DraftAgeGroup `json:"ageGroup"`
	DurationMinutes *int           `json:"durationMinutes"`
	Tags            []string       `json:"tags"`
	Moral           *string        `json:"moral"`
	Language        *string        `json:"language"`
	Status          *string        `json:"status"`
	Source          *Source        `json:"source,omitempty"`
}

// IsValidStatus reports whether s is one of the known story statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}
