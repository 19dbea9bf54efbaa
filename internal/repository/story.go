package repository

import (
	"context"

	"storyapi/internal/model"
)

// StoryRepository is the document store behind the story service.
// Implementations persist each story as a single document and contain no business logic.
type StoryRepository interface {
	// Save writes one story document and returns it with the store-assigned ID.
	// Any ID already set on the input is ignored.
	Save(ctx context.Context, story *model.Story) (*model.Story, error)

	// FindAll returns every stored story, newest first.
	// An empty store yields an empty slice and a nil error.
	FindAll(ctx context.Context) ([]model.Story, error)
}

// Pinger is implemented by backends that can report their own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoryStore is a StoryRepository that can also be health-checked.
// Every story backend satisfies it.
type StoryStore interface {
	StoryRepository
	Pinger
}
