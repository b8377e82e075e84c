// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Survey
// aggregate root.
//
// Functions:
//
//   - CreateSurvey(ctx, db, s) -> error
//     Inserts a survey header row; the database assigns the integer id.
//
//   - GetSurvey(ctx, db, id) -> *domain.Survey, error
//     Fetches a single survey by id, or ErrNotFound if missing.
//
//   - ListSurveysByOwner(ctx, db, userID) -> []domain.Survey, error
//     Returns all surveys owned by the account, newest first.
//
//   - CountSurveys / ListSurveysPage
//     Owner-scoped pagination pair.
//
//   - SetSurveyPublished(ctx, db, id, published) -> error
//     Flips the published flag, ErrNotFound when the row is missing.
//
//   - DeleteSurvey(ctx, db, id) -> error
//     Removes the header; child questions follow via FK cascade.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.SurveyService) which enforces the aggregate rules: within
// the composite-creation transaction the header is never committed without
// its complete question set.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/aisurveys/go-survey-backend/internal/domain"
)

// CreateSurvey inserts a survey header row. The assigned id is written back
// into s.ID. Timestamps are expected to be set by the caller (UTC).
func CreateSurvey(ctx context.Context, db *gorm.DB, s *domain.Survey) error {
	return db.WithContext(ctx).Create(s).Error
}

// GetSurvey fetches a single survey by its id. If the record does not
// exist, it returns ErrNotFound. On other DB errors, the raw error is
// returned.
func GetSurvey(ctx context.Context, db *gorm.DB, id int64) (*domain.Survey, error) {
	var s domain.Survey
	if err := db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSurveysByOwner returns all surveys belonging to the internal account
// id, ordered by creation time descending (most recent first). It returns
// an empty slice if the account owns no surveys.
func ListSurveysByOwner(ctx context.Context, db *gorm.DB, userID int64) ([]domain.Survey, error) {
	var out []domain.Survey
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountSurveys returns the total number of surveys owned by the account.
func CountSurveys(ctx context.Context, db *gorm.DB, userID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Survey{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListSurveysPage returns a paginated slice of surveys for the account,
// ordered by creation time descending. Use CountSurveys to obtain the total
// for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListSurveysPage(ctx context.Context, db *gorm.DB, userID int64, offset, limit int) ([]domain.Survey, error) {
	var out []domain.Survey
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SetSurveyPublished updates the published flag of a survey. If no rows are
// affected (survey missing), it returns ErrNotFound.
func SetSurveyPublished(ctx context.Context, db *gorm.DB, id int64, published bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Survey{}).
		Where("id = ?", id).
		Update("is_published", published)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteSurvey removes a survey header by id; its questions are removed by
// the FK cascade. Returns ErrNotFound when no row was deleted.
func DeleteSurvey(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Delete(&domain.Survey{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
