package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"

	"storyapi/internal/model"
	"storyapi/internal/repository"
	"storyapi/internal/storage"
)

const (
	keyPrefix   = "stories/"
	contentType = "application/json"
)

// StoryObjectStore keeps one JSON object per story in an S3-compatible bucket.
type StoryObjectStore struct {
	store storage.Storage
}

// NewStoryObjectStore creates a repository over the given object storage.
func NewStoryObjectStore(store storage.Storage) *StoryObjectStore {
	return &StoryObjectStore{store: store}
}

var (
	_ repository.StoryRepository = (*StoryObjectStore)(nil)
	_ repository.Pinger          = (*StoryObjectStore)(nil)
)

func objectKey(id string) string {
	return path.Join("stories", id+".json")
}

// Save writes the story as a single object keyed by a fresh UUID.
func (r *StoryObjectStore) Save(ctx context.Context, story *model.Story) (*model.Story, error) {
	doc := *story
	doc.ID = uuid.NewString()

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode story: %w", err)
	}

	if _, err := r.store.Put(ctx, objectKey(doc.ID), bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: contentType,
		Metadata:    map[string]string{"story-id": doc.ID},
	}); err != nil {
		return nil, fmt.Errorf("put story object: %w", err)
	}
	return &doc, nil
}

// FindAll reads every story object and returns them newest first.
func (r *StoryObjectStore) FindAll(ctx context.Context) ([]model.Story, error) {
	objects, err := r.store.List(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list story objects: %w", err)
	}

	items := make([]model.Story, 0, len(objects))
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		s, err := r.read(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (r *StoryObjectStore) read(ctx context.Context, key string) (model.Story, error) {
	rc, _, err := r.store.Get(ctx, key)
	if err != nil {
		return model.Story{}, fmt.Errorf("get story object %s: %w", key, err)
	}
	defer rc.Close()

	var s model.Story
	if err := json.NewDecoder(rc).Decode(&s); err != nil {
		return model.Story{}, fmt.Errorf("decode story object %s: %w", key, err)
	}
	if s.ID == "" {
		s.ID = strings.TrimSuffix(path.Base(key), ".json")
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return s, nil
}

// Ping checks the bucket is reachable.
func (r *StoryObjectStore) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
