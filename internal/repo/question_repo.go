// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Question
// model, which is only ever written as part of its parent survey's
// composite-creation transaction.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/aisurveys/go-survey-backend/internal/domain"
)

// CreateQuestions inserts all question rows in one batch. Each element must
// already reference the parent survey id and carry its 1-based position.
// Assigned ids are written back into the slice elements.
//
// Call this with the transaction-bound handle of the composite creation so
// that a failure rolls the survey header back as well.
func CreateQuestions(ctx context.Context, db *gorm.DB, qs []domain.Question) error {
	if len(qs) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&qs).Error
}

// ListQuestions returns all questions of a survey ordered by position
// ascending, i.e. exactly the 1..N authoring order.
func ListQuestions(ctx context.Context, db *gorm.DB, surveyID int64) ([]domain.Question, error) {
	var out []domain.Question
	err := db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("position asc").
		Find(&out).Error
	return out, err
}

// CountQuestions returns the number of questions owned by a survey.
func CountQuestions(ctx context.Context, db *gorm.DB, surveyID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Question{}).
		Where("survey_id = ?", surveyID).
		Count(&total).Error
	return total, err
}

// GetQuestion fetches a single question by id, or ErrNotFound if missing.
func GetQuestion(ctx context.Context, db *gorm.DB, id int64) (*domain.Question, error) {
	var q domain.Question
	if err := db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}
