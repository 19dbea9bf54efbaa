package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"storyapi/internal/model"
	repoMocks "storyapi/internal/repository/mocks"
)

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func TestStoryService_CreateStory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		draft      *model.StoryDraft
		setupMocks func(mRepo *repoMocks.MockStoryRepository)
		wantField  string
		wantStore  bool
		checkRes   func(t *testing.T, s *model.Story)
	}{
		{
			name: "happy path",
			draft: &model.StoryDraft{
				Title:           "The Kind Fox",
				Content:         "...",
				AgeGroup:        ageGroup(4, 6),
				DurationMinutes: intPtr(5),
				Tags:            []string{"bedtime"},
				Moral:           strPtr("Be kind"),
			},
			setupMocks: func(mRepo *repoMocks.MockStoryRepository) {
				mRepo.On("Save", mock.Anything, mock.MatchedBy(func(s *model.Story) bool {
					return s.ID == "" &&
						s.Language == "en" &&
						s.Status == "published" &&
						s.CreatedBy == "system" &&
						s.Source.Type == "static" &&
						s.Source.ReferenceID == nil &&
						s.CreatedAt.Equal(now) &&
						s.UpdatedAt.Equal(now)
				})).Return(func(_ context.Context, s *model.Story) *model.Story {
					out := *s
					out.ID = "story-1"
					return &out
				}, nil).Once()
			},
			checkRes: func(t *testing.T, s *model.Story) {
				assert.Equal(t, "story-1", s.ID)
				assert.Equal(t, "The Kind Fox", s.Title)
				assert.Equal(t, []string{"bedtime"}, s.Tags)
			},
		},
		{
			name:       "empty title never reaches the store",
			draft:      &model.StoryDraft{Title: "", Content: "x", AgeGroup: ageGroup(1, 2)},
			setupMocks: func(mRepo *repoMocks.MockStoryRepository) {},
			wantField:  "title",
		},
		{
			name:       "inverted age group never reaches the store",
			draft:      &model.StoryDraft{Title: "x", Content: "y", AgeGroup: ageGroup(5, 3)},
			setupMocks: func(mRepo *repoMocks.MockStoryRepository) {},
			wantField:  "ageGroup",
		},
		{
			name:       "nil draft is rejected",
			draft:      nil,
			setupMocks: func(mRepo *repoMocks.MockStoryRepository) {},
			wantField:  "title",
		},
		{
			name:  "store failure",
			draft: validDraft(),
			setupMocks: func(mRepo *repoMocks.MockStoryRepository) {
				mRepo.On("Save", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()
			},
			wantStore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockStoryRepository)
			svc := NewStoryService(mRepo, zap.NewNop(), fixedClock(now))

			tt.setupMocks(mRepo)

			story, err := svc.CreateStory(ctx, tt.draft)

			switch {
			case tt.wantField != "":
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
				assert.Nil(t, story)
				mRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			case tt.wantStore:
				var serr *StoreUnavailableError
				require.ErrorAs(t, err, &serr)
				assert.Equal(t, "save", serr.Op)
				assert.Contains(t, err.Error(), "connection refused")
				assert.Nil(t, story)
			default:
				require.NoError(t, err)
				require.NotNil(t, story)
				if tt.checkRes != nil {
					tt.checkRes(t, story)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestStoryService_CreateStory_NotIdempotent(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockStoryRepository)
	svc := NewStoryService(mRepo, nil)

	mRepo.On("Save", mock.Anything, mock.Anything).Return(&model.Story{ID: "a"}, nil).Once()
	mRepo.On("Save", mock.Anything, mock.Anything).Return(&model.Story{ID: "b"}, nil).Once()

	first, err := svc.CreateStory(ctx, validDraft())
	require.NoError(t, err)
	second, err := svc.CreateStory(ctx, validDraft())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	mRepo.AssertNumberOfCalls(t, "Save", 2)
}

func TestStoryService_CreateStory_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mRepo := new(repoMocks.MockStoryRepository)
	svc := NewStoryService(mRepo, zap.New(core))

	mRepo.On("Save", mock.Anything, mock.Anything).Return(&model.Story{ID: "story-9", Language: "en", Status: "published"}, nil).Once()

	_, err := svc.CreateStory(context.Background(), validDraft())
	require.NoError(t, err)

	created := logs.FilterMessage("story created").All()
	require.Len(t, created, 1)
	assert.Equal(t, "story-9", created[0].ContextMap()["story_id"])

	_, err = svc.CreateStory(context.Background(), &model.StoryDraft{})
	require.Error(t, err)

	rejected := logs.FilterMessage("story draft rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "title", rejected[0].ContextMap()["field"])
}

func TestStoryService_ListStories(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(mRepo *repoMocks.MockStoryRepository)
		wantErr    bool
		wantLen    int
	}{
		{
			name: "happy path",
			setupMocks: func(mRepo *repoMocks.MockStoryRepository) {
				mRepo.On("FindAll", mock.Anything).Return([]model.Story{{ID: "1"}, {ID: "2"}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "empty store",
			setupMocks: func(mRepo *repoMocks.MockStoryRepository) {
				mRepo.On("FindAll", mock.Anything).Return([]model.Story{}, nil)
			},
			wantLen: 0,
		},
		{
			name: "nil result becomes empty slice",
			setupMocks: func(mRepo *repoMocks.MockStoryRepository) {
				mRepo.On("FindAll", mock.Anything).Return(nil, nil)
			},
			wantLen: 0,
		},
		{
			name: "repository error",
			setupMocks: func(mRepo *repoMocks.MockStoryRepository) {
				mRepo.On("FindAll", mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockStoryRepository)
			svc := NewStoryService(mRepo, zap.NewNop())

			tt.setupMocks(mRepo)

			stories, err := svc.ListStories(ctx)

			if tt.wantErr {
				var serr *StoreUnavailableError
				require.ErrorAs(t, err, &serr)
				assert.Equal(t, "find", serr.Op)
			} else {
				require.NoError(t, err)
				require.NotNil(t, stories)
				assert.Len(t, stories, tt.wantLen)
			}
			mRepo.AssertExpectations(t)
		})
	}
}
