// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// by the bot's /stats command and for conditional responses in the outer
// layers. Each function is context-aware and safe to call from services.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aisurveys/go-survey-backend/internal/domain"
)

// SurveysStats returns aggregate metadata for an account's surveys: the total
// number of rows and the maximum UpdatedAt timestamp among those rows.
//
// It executes two lightweight queries against the surveys table scoped to the
// provided userID. When the account has no surveys, the returned count is 0
// and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total surveys for userID
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func SurveysStats(ctx context.Context, db *gorm.DB, userID int64) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Survey{}).Where("user_id = ?", userID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// QuestionsStats returns aggregate metadata for questions within a given
// survey: the total number of rows and the maximum UpdatedAt timestamp among
// those rows.
//
// When the survey has no questions, the returned count is 0 and maxUpdatedAt
// is nil.
func QuestionsStats(ctx context.Context, db *gorm.DB, surveyID int64) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Question{}).Where("survey_id = ?", surveyID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
