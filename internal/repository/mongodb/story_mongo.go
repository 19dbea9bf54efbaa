package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storyapi/internal/model"
	"storyapi/internal/repository"
)

type ageGroupDocument struct {
	Min int `bson:"min"`
	Max int `bson:"max"`
}

type sourceDocument struct {
	Type        string  `bson:"type"`
	ReferenceID *string `bson:"referenceId"`
}

// storyDocument is the BSON shape of a story; field names mirror the JSON API.
type storyDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Content         string             `bson:"content"`
	AgeGroup        ageGroupDocument   `bson:"ageGroup"`
	DurationMinutes *int               `bson:"durationMinutes,omitempty"`
	Tags            []string           `bson:"tags"`
	Moral           *string            `bson:"moral,omitempty"`
	Language        string             `bson:"language"`
	Status          string             `bson:"status"`
	CreatedBy       string             `bson:"createdBy"`
	Source          sourceDocument     `bson:"source"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func toDocument(s *model.Story) storyDocument {
	return storyDocument{
		Title:           s.Title,
		Content:         s.Content,
		AgeGroup:        ageGroupDocument{Min: s.AgeGroup.Min, Max: s.AgeGroup.Max},
		DurationMinutes: s.DurationMinutes,
		Tags:            s.Tags,
		Moral:           s.Moral,
		Language:        s.Language,
		Status:          s.Status,
		CreatedBy:       s.CreatedBy,
		Source:          sourceDocument{Type: s.Source.Type, ReferenceID: s.Source.ReferenceID},
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (d storyDocument) toModel() model.Story {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.Story{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Content:         d.Content,
		AgeGroup:        model.AgeGroup{Min: d.AgeGroup.Min, Max: d.AgeGroup.Max},
		DurationMinutes: d.DurationMinutes,
		Tags:            tags,
		Moral:           d.Moral,
		Language:        d.Language,
		Status:          d.Status,
		CreatedBy:       d.CreatedBy,
		Source:          model.Source{Type: d.Source.Type, ReferenceID: d.Source.ReferenceID},
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// StoryMongo is a MongoDB implementation of repository.StoryRepository.
type StoryMongo struct {
	coll *mongo.Collection
}

// NewStoryMongo creates a repository over the given collection.
func NewStoryMongo(coll *mongo.Collection) *StoryMongo {
	return &StoryMongo{coll: coll}
}

var (
	_ repository.StoryRepository = (*StoryMongo)(nil)
	_ repository.Pinger          = (*StoryMongo)(nil)
)

// Save inserts one document; the ID is the ObjectID assigned on insert.
func (r *StoryMongo) Save(ctx context.Context, story *model.Story) (*model.Story, error) {
	doc := toDocument(story)
	doc.ID = primitive.NewObjectID()

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}

	out := doc.toModel()
	return &out, nil
}

// FindAll returns every story, newest first.
func (r *StoryMongo) FindAll(ctx context.Context) ([]model.Story, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := make([]model.Story, 0)
	for cur.Next(ctx) {
		var doc storyDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode story: %w", err)
		}
		items = append(items, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Ping checks that the primary is reachable.
func (r *StoryMongo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}
