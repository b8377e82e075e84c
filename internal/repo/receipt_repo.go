// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the
// CompositeReceipt model used to implement safe-retry semantics for the
// composite survey-creation operation.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aisurveys/go-survey-backend/internal/domain"
)

// GetReceipt returns a non-expired receipt for (accountID, key) or ErrNotFound.
func GetReceipt(ctx context.Context, db *gorm.DB, accountID int64, key string, now time.Time) (*domain.CompositeReceipt, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.CompositeReceipt
	err := db.WithContext(ctx).
		Where("account_id = ? AND key = ? AND expires_at > ?", accountID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// PutReceipt records (accountID, key) -> surveyID. An existing row for the
// same tuple is replaced: it is either expired or points at a survey that has
// since been deleted, and must not block the key from answering again.
func PutReceipt(ctx context.Context, db *gorm.DB, accountID int64, key string, surveyID int64, ttl time.Duration) (*domain.CompositeReceipt, error) {
	now := time.Now().UTC()
	rec := &domain.CompositeReceipt{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Key:       key,
		SurveyID:  surveyID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"id", "survey_id", "created_at", "expires_at"}),
		}).
		Create(rec).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}
