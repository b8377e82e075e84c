// Package services – question resolver
//
// This file implements the pure mapping from a raw question payload plus its
// declared type tag to a fully-populated, type-correct Question record. The
// resolver has no dependencies and no side effects; the aggregate builder
// invokes it once per payload, in input order.
package services

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	"github.com/aisurveys/go-survey-backend/internal/domain"
	"github.com/aisurveys/go-survey-backend/internal/schema"
)

// Default bounds applied when a scale or rating question omits its own.
const (
	defaultScaleMin  = 1
	defaultScaleMax  = 5
	defaultRatingMax = 5
)

// ResolveQuestion maps one raw payload to a Question record carrying the
// 1-based position index. It returns an *InvalidQuestionError (with the
// offending index and field) and no record on failure; it never returns a
// partially populated record.
//
// Type-conditional rules:
//   - scale: payload bounds are honored only when both are present with
//     min < max, otherwise the 1..5 defaults apply; labels are optional.
//   - rating: payload max is honored only when positive, otherwise 5.
//   - single_choice / multiple_choice: a non-empty ordered option list is
//     required.
//   - text / yes_no: any options/scale/rating data in the payload is
//     ignored, not rejected.
//
// Exactly one type-family of fields ends up populated on the returned
// record, so the stored rows satisfy the exclusivity invariant by
// construction.
func ResolveQuestion(p schema.QuestionPayload, index int) (*domain.Question, error) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return nil, &InvalidQuestionError{Index: index, Field: "text", Reason: "must not be empty"}
	}

	required := true
	if p.IsRequired != nil {
		required = *p.IsRequired
	}

	q := &domain.Question{
		Text:       text,
		Type:       p.Type,
		IsRequired: required,
		Position:   index,
		ImageURL:   p.ImageURL,
		ImageName:  p.ImageName,
	}

	switch p.Type {
	case domain.QuestionTypeScale:
		min, max := defaultScaleMin, defaultScaleMax
		if p.ScaleMin != nil && p.ScaleMax != nil && *p.ScaleMin < *p.ScaleMax {
			min, max = *p.ScaleMin, *p.ScaleMax
		}
		q.ScaleMin = &min
		q.ScaleMax = &max
		if len(p.ScaleLabels) > 0 {
			q.ScaleLabels = mustJSON(p.ScaleLabels)
		}

	case domain.QuestionTypeRating:
		max := defaultRatingMax
		if p.RatingMax != nil && *p.RatingMax > 0 {
			max = *p.RatingMax
		}
		q.RatingMax = &max

	case domain.QuestionTypeSingleChoice, domain.QuestionTypeMultipleChoice:
		if len(p.Options) == 0 {
			return nil, &InvalidQuestionError{Index: index, Field: "options", Reason: "must not be empty for choice questions"}
		}
		q.Options = mustJSON(p.Options)

	case domain.QuestionTypeText, domain.QuestionTypeYesNo:
		// No type-specific fields; extraneous payload data is ignored.

	default:
		return nil, &InvalidQuestionError{Index: index, Field: "type", Reason: "is not a known question type"}
	}

	return q, nil
}

// mustJSON marshals values whose encoding cannot fail (slices and maps of
// strings) into a JSON column value.
func mustJSON(v any) datatypes.JSON {
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}
