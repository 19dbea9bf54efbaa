package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"storyapi/internal/model"
	"storyapi/internal/repository"
)

// StoryPostgres is a PostgreSQL implementation of repository.StoryRepository.
// Each story is one JSONB document; the row id and created_at are kept as columns for keys and ordering.
type StoryPostgres struct {
	db *sql.DB
}

// NewStoryPostgres creates a new StoryPostgres repository.
func NewStoryPostgres(db *sql.DB) *StoryPostgres {
	return &StoryPostgres{db: db}
}

var (
	_ repository.StoryRepository = (*StoryPostgres)(nil)
	_ repository.Pinger          = (*StoryPostgres)(nil)
)

// Save inserts one story document and returns it with the database-generated ID.
func (r *StoryPostgres) Save(ctx context.Context, story *model.Story) (*model.Story, error) {
	doc := *story
	doc.ID = ""
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode story: %w", err)
	}

	const q = `
		INSERT INTO stories (document, created_at)
		VALUES ($1::jsonb, $2)
		RETURNING id
	`
	var id string
	if err := r.db.QueryRowContext(ctx, q, string(body), story.CreatedAt).Scan(&id); err != nil {
		return nil, err
	}

	doc.ID = id
	return &doc, nil
}

// FindAll returns every story, newest first.
func (r *StoryPostgres) FindAll(ctx context.Context) ([]model.Story, error) {
	const q = `
		SELECT id, document
		FROM stories
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Story, 0)
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		var s model.Story
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, fmt.Errorf("decode story %s: %w", id, err)
		}
		s.ID = id
		if s.Tags == nil {
			s.Tags = []string{}
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Ping checks database connectivity.
func (r *StoryPostgres) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
