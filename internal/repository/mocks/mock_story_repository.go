package mocks

import (
	"context"

	"storyapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockStoryRepository struct {
	mock.Mock
}

func (m *MockStoryRepository) Save(ctx context.Context, story *model.Story) (*model.Story, error) {
	args := m.Called(ctx, story)
	if fn, ok := args.Get(0).(func(context.Context, *model.Story) *model.Story); ok {
		return fn(ctx, story), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *MockStoryRepository) FindAll(ctx context.Context) ([]model.Story, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Story), args.Error(1)
}
