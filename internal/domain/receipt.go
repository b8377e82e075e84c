// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// CompositeReceipt records the result of a previously processed composite
// survey creation, keyed by (account_id, key). It enables safe retries: a
// caller that lost the response to a committed attempt can resend the same
// key and receive the originally created survey instead of a duplicate.
type CompositeReceipt struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	AccountID int64     `gorm:"not null;uniqueIndex:ux_receipt_account_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_receipt_account_key,priority:2"`
	SurveyID  int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (CompositeReceipt) TableName() string { return "composite_receipts" }
