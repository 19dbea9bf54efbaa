package service

import (
	"strings"
	"time"

	"storyapi/internal/model"
)

// draftCheck inspects one aspect of a draft and returns nil when it holds.
type draftCheck func(d *model.StoryDraft) *ValidationError

// draftChecks run in this order and validation stops at the first failure,
// so presence checks always win over range checks.
var draftChecks = []draftCheck{
	checkTitle,
	checkContent,
	checkAgeGroupPresent,
	checkAgeGroupOrder,
	checkAgeGroupBounds,
	checkDuration,
	checkStatus,
}

// Validate returns the first *ValidationError found in d, or nil.
func Validate(d *model.StoryDraft) error {
	for _, check := range draftChecks {
		if verr := check(d); verr != nil {
			return verr
		}
	}
	return nil
}

// Normalize validates d and builds the story record it describes.
// It performs no I/O; the ID is left empty for the store to assign.
func Normalize(d *model.StoryDraft, now time.Time) (*model.Story, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}

	tags := make([]string, len(d.Tags))
	copy(tags, d.Tags)

	return &model.Story{
		Title:   strings.TrimSpace(d.Title),
		Content: strings.TrimSpace(d.Content),
		AgeGroup: model.AgeGroup{
			Min: *d.AgeGroup.Min,
			Max: *d.AgeGroup.Max,
		},
		DurationMinutes: d.DurationMinutes,
		Tags:            tags,
		Moral:           d.Moral,
		Language:        orDefault(d.Language, model.DefaultLanguage),
		Status:          orDefault(d.Status, model.DefaultStatus),
		CreatedBy:       model.DefaultCreatedBy,
		Source:          model.Source{Type: model.SourceStatic},
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// orDefault returns the trimmed value, or def when v is nil or blank.
func orDefault(v *string, def string) string {
	if v == nil {
		return def
	}
	if t := strings.TrimSpace(*v); t != "" {
		return t
	}
	return def
}

func checkTitle(d *model.StoryDraft) *ValidationError {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	return nil
}

func checkContent(d *model.StoryDraft) *ValidationError {
	if strings.TrimSpace(d.Content) == "" {
		return &ValidationError{Field: "content", Reason: "is required"}
	}
	return nil
}

func checkAgeGroupPresent(d *model.StoryDraft) *ValidationError {
	switch {
	case d.AgeGroup == nil:
		return &ValidationError{Field: "ageGroup", Reason: "is required"}
	case d.AgeGroup.Min == nil:
		return &ValidationError{Field: "ageGroup.min", Reason: "is required"}
	case d.AgeGroup.Max == nil:
		return &ValidationError{Field: "ageGroup.max", Reason: "is required"}
	}
	return nil
}

// checkAgeGroupBounds runs after checkAgeGroupOrder, so max >= min and a
// negative max always shows up as a negative min.
func checkAgeGroupBounds(d *model.StoryDraft) *ValidationError {
	if *d.AgeGroup.Min < 0 {
		return &ValidationError{Field: "ageGroup.min", Reason: "must not be negative"}
	}
	return nil
}

func checkAgeGroupOrder(d *model.StoryDraft) *ValidationError {
	if *d.AgeGroup.Min > *d.AgeGroup.Max {
		return &ValidationError{Field: "ageGroup", Reason: "min must not exceed max"}
	}
	return nil
}

func checkDuration(d *model.StoryDraft) *ValidationError {
	if d.DurationMinutes != nil && *d.DurationMinutes <= 0 {
		return &ValidationError{Field: "durationMinutes", Reason: "must be positive"}
	}
	return nil
}

func checkStatus(d *model.StoryDraft) *ValidationError {
	if d.Status == nil {
		return nil
	}
	status := strings.TrimSpace(*d.Status)
	if status == "" {
		return nil
	}
	if !model.IsValidStatus(status) {
		return &ValidationError{Field: "status", Reason: "must be one of draft, published, archived"}
	}
	return nil
}
