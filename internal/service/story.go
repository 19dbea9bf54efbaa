package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"storyapi/internal/model"
	"storyapi/internal/repository"
)

var tracer = otel.Tracer("storyapi/internal/service")

// StoryService defines the story use cases.
type StoryService interface {
	// CreateStory validates and defaults the draft, then saves it as one new story.
	CreateStory(ctx context.Context, draft *model.StoryDraft) (*model.Story, error)

	// ListStories returns every stored story. An empty store yields an empty slice.
	ListStories(ctx context.Context) ([]model.Story, error)
}

// Option customises a storyService.
type Option func(*storyService)

// WithClock replaces time.Now as the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *storyService) { s.now = now }
}

// storyService is safe for concurrent use; all state lives in the repository.
type storyService struct {
	repo repository.StoryRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewStoryService constructs a new StoryService.
func NewStoryService(repo repository.StoryRepository, log *zap.Logger, opts ...Option) StoryService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &storyService{
		repo: repo,
		log:  log.Named("story_service"),
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *storyService) CreateStory(ctx context.Context, draft *model.StoryDraft) (*model.Story, error) {
	ctx, span := tracer.Start(ctx, "StoryService.CreateStory")
	defer span.End()

	if draft == nil {
		draft = &model.StoryDraft{}
	}

	story, err := Normalize(draft, s.now())
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			span.SetAttributes(attribute.String("story.invalid_field", verr.Field))
			s.log.Debug("story draft rejected",
				zap.String("field", verr.Field),
				zap.String("reason", verr.Reason),
			)
		}
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	stored, err := s.repo.Save(ctx, story)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		s.log.Error("story save failed", zap.Error(err))
		return nil, &StoreUnavailableError{Op: "save", Err: err}
	}

	span.SetAttributes(attribute.String("story.id", stored.ID))
	s.log.Info("story created",
		zap.String("story_id", stored.ID),
		zap.String("language", stored.Language),
		zap.String("status", stored.Status),
	)
	return stored, nil
}

func (s *storyService) ListStories(ctx context.Context) ([]model.Story, error) {
	ctx, span := tracer.Start(ctx, "StoryService.ListStories")
	defer span.End()

	stories, err := s.repo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find failed")
		s.log.Error("story list failed", zap.Error(err))
		return nil, &StoreUnavailableError{Op: "find", Err: err}
	}
	if stories == nil {
		stories = []model.Story{}
	}

	span.SetAttributes(attribute.Int("story.count", len(stories)))
	return stories, nil
}
