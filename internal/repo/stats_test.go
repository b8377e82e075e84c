package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aisurveys/go-survey-backend/internal/domain"
)

func newStatsDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("stats_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := db.AutoMigrate(&domain.Survey{}, &domain.Question{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestSurveysStats_EmptyAndPopulated(t *testing.T) {
	db := newStatsDB(t)
	ctx := context.Background()

	count, maxUpd, err := SurveysStats(ctx, db, 1)
	if err != nil {
		t.Fatalf("SurveysStats: %v", err)
	}
	if count != 0 || maxUpd != nil {
		t.Fatalf("empty stats = (%d, %v); want (0, nil)", count, maxUpd)
	}

	t1 := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	for i, upd := range []time.Time{t1, t2} {
		s := &domain.Survey{
			UserID:       1,
			Title:        fmt.Sprintf("s%d", i),
			CreationType: domain.CreationTypeManual,
			CreatedAt:    t1,
			UpdatedAt:    upd,
		}
		if err := CreateSurvey(ctx, db, s); err != nil {
			t.Fatalf("CreateSurvey: %v", err)
		}
	}

	count, maxUpd, err = SurveysStats(ctx, db, 1)
	if err != nil {
		t.Fatalf("SurveysStats: %v", err)
	}
	if count != 2 || maxUpd == nil || !maxUpd.Equal(t2) {
		t.Fatalf("stats = (%d, %v); want (2, %v)", count, maxUpd, t2)
	}
}

func TestQuestionsStats(t *testing.T) {
	db := newStatsDB(t)
	ctx := context.Background()

	count, maxUpd, err := QuestionsStats(ctx, db, 9)
	if err != nil || count != 0 || maxUpd != nil {
		t.Fatalf("empty stats = (%d, %v, %v); want (0, nil, nil)", count, maxUpd, err)
	}

	t1 := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(30 * time.Minute)
	qs := []domain.Question{
		{SurveyID: 9, Text: "a", Type: domain.QuestionTypeText, IsRequired: true, Position: 1, CreatedAt: t1, UpdatedAt: t1},
		{SurveyID: 9, Text: "b", Type: domain.QuestionTypeText, IsRequired: true, Position: 2, CreatedAt: t1, UpdatedAt: t2},
	}
	if err := CreateQuestions(ctx, db, qs); err != nil {
		t.Fatalf("CreateQuestions: %v", err)
	}

	count, maxUpd, err = QuestionsStats(ctx, db, 9)
	if err != nil {
		t.Fatalf("QuestionsStats: %v", err)
	}
	if count != 2 || maxUpd == nil || !maxUpd.Equal(t2) {
		t.Fatalf("stats = (%d, %v); want (2, %v)", count, maxUpd, t2)
	}
}
