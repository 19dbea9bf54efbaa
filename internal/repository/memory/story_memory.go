package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"storyapi/internal/model"
	"storyapi/internal/repository"
)

// StoryMemory keeps stories in-process. Contents are lost on restart.
type StoryMemory struct {
	mu      sync.RWMutex
	stories []model.Story
}

// NewStoryMemory initializes an empty in-memory store.
func NewStoryMemory() *StoryMemory {
	return &StoryMemory{}
}

var (
	_ repository.StoryRepository = (*StoryMemory)(nil)
	_ repository.Pinger          = (*StoryMemory)(nil)
)

// Save appends a copy of story under a fresh UUID.
func (m *StoryMemory) Save(_ context.Context, story *model.Story) (*model.Story, error) {
	s := clone(*story)
	s.ID = uuid.NewString()

	m.mu.Lock()
	m.stories = append(m.stories, s)
	m.mu.Unlock()

	out := clone(s)
	return &out, nil
}

// FindAll returns copies of every story, most recently saved first.
func (m *StoryMemory) FindAll(_ context.Context) ([]model.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]model.Story, 0, len(m.stories))
	for i := len(m.stories) - 1; i >= 0; i-- {
		res = append(res, clone(m.stories[i]))
	}
	return res, nil
}

// Ping always succeeds.
func (m *StoryMemory) Ping(context.Context) error {
	return nil
}

// clone detaches the slice and pointer fields so callers cannot mutate stored records.
func clone(s model.Story) model.Story {
	s.Tags = append([]string{}, s.Tags...)
	if s.DurationMinutes != nil {
		d := *s.DurationMinutes
		s.DurationMinutes = &d
	}
	if s.Moral != nil {
		v := *s.Moral
		s.Moral = &v
	}
	if s.Source.ReferenceID != nil {
		v := *s.Source.ReferenceID
		s.Source.ReferenceID = &v
	}
	return s
}
