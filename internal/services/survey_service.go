// Package services – SurveyService
//
// This file implements the survey aggregate builder and the composition
// transaction coordinator. A composite creation materializes one survey
// header together with its ordered question set in a single database
// transaction: either everything commits, or no row of the attempt
// survives. Every failure kind is mapped to one of four caller-visible
// outcomes so the trigger surfaces can decide between retrying unmodified,
// fixing input, and alerting an operator.
//
// Observability: public methods are OpenTelemetry-instrumented, outcomes
// are counted in Prometheus, and creations are logged with structured
// fields.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aisurveys/go-survey-backend/internal/domain"
	"github.com/aisurveys/go-survey-backend/internal/metrics"
	"github.com/aisurveys/go-survey-backend/internal/repo"
	"github.com/aisurveys/go-survey-backend/internal/schema"
	"github.com/aisurveys/go-survey-backend/internal/utils"
)

// Outcome is the caller-visible result of a composite creation.
type Outcome string

// The closed set of outcomes produced by the composition coordinator.
const (
	OutcomeSuccess          Outcome = "success"
	OutcomeOwnerNotFound    Outcome = "owner_not_found"
	OutcomeInvalidQuestion  Outcome = "invalid_question"
	OutcomePersistenceError Outcome = "persistence_error"
)

// CompositeResult is a fully persisted survey aggregate: the header plus its
// questions in position order, all carrying assigned ids and timestamps.
type CompositeResult struct {
	Survey    *domain.Survey
	Questions []domain.Question
}

// SurveyService owns the composite survey-creation flow and the read
// operations over the survey aggregate.
type SurveyService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Log receives structured creation/failure events.
	Log zerolog.Logger

	// DefaultLanguage is the fallback tag for surveys with no usable
	// language in the payload.
	DefaultLanguage string
	// ReceiptTTL bounds how long a composite-creation idempotency key
	// remains answerable.
	ReceiptTTL time.Duration

	// now is a seam for tests; defaults to time.Now in UTC.
	now func() time.Time
}

// NewSurveyService constructs a SurveyService with sane defaults.
func NewSurveyService(db *gorm.DB, log zerolog.Logger) *SurveyService {
	return &SurveyService{
		DB:              db,
		Log:             log,
		DefaultLanguage: "ru",
		ReceiptTTL:      24 * time.Hour,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// CreateComposite executes the composite survey creation end to end:
//
//  1. Resolve the owner account from the external Telegram identity; the
//     identity must already exist (this flow never creates accounts).
//  2. Build the survey header, deriving the scheduling window, participant
//     cap, and motivation payload from the settings block. A malformed
//     date/time pair or non-numeric cap drops that one field silently.
//  3. Set question_count from the number of supplied question payloads.
//  4. Persist the header, resolve every question payload in input order,
//     and persist the resolved rows — all inside one transaction.
//
// Any failure rolls the whole attempt back: no header and no question rows
// survive. The returned Outcome tells the caller which of the four
// externally visible cases occurred; err carries the specific cause.
//
// When req.IdempotencyKey is set, a retry of an already-committed attempt
// returns the originally created aggregate instead of creating a duplicate.
func (s *SurveyService) CreateComposite(ctx context.Context, req schema.CreateSurveyRequest) (*CompositeResult, Outcome, error) {
	tr := otel.Tracer("services/SurveyService")
	ctx, span := tr.Start(ctx, "CreateComposite",
		trace.WithAttributes(
			attribute.Int64("owner.telegram_id", req.TelegramID),
			attribute.Int("questions.count", len(req.Questions)),
		),
	)
	defer span.End()

	res, err := s.createComposite(ctx, req)
	outcome := outcomeFor(err)
	metrics.CompositeCreations.WithLabelValues(string(outcome)).Inc()

	switch outcome {
	case OutcomeSuccess:
		metrics.QuestionsCreated.Add(float64(len(res.Questions)))
		s.Log.Info().
			Int64("survey_id", res.Survey.ID).
			Int64("user_id", res.Survey.UserID).
			Int("questions", len(res.Questions)).
			Msg("composite survey created")
	case OutcomePersistenceError:
		s.Log.Error().Err(err).Int64("telegram_id", req.TelegramID).Msg("composite survey creation failed")
	default:
		s.Log.Warn().Err(err).Int64("telegram_id", req.TelegramID).Str("outcome", string(outcome)).Msg("composite survey creation rejected")
	}
	return res, outcome, err
}

// createComposite performs the steps of CreateComposite and returns the raw
// error for outcome classification.
func (s *SurveyService) createComposite(ctx context.Context, req schema.CreateSurveyRequest) (*CompositeResult, error) {
	owner, err := repo.GetUserByTelegramID(ctx, s.DB, req.TelegramID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	now := s.now()

	// Answer retries of an attempt that already committed.
	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" {
		rec, rerr := repo.GetReceipt(ctx, s.DB, owner.ID, key, now)
		switch {
		case rerr == nil:
			res, lerr := s.loadAggregate(ctx, rec.SurveyID)
			if lerr == nil {
				return res, nil
			}
			if !errors.Is(lerr, repo.ErrNotFound) {
				return nil, lerr
			}
			// Receipt points at a survey that has since been deleted;
			// create a fresh one, replacing the receipt row below.
		case !errors.Is(rerr, repo.ErrNotFound):
			return nil, rerr
		}
	}

	survey := s.buildHeader(req, owner.ID, now)

	questions := make([]domain.Question, 0, len(req.Questions))
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateSurvey(ctx, tx, survey); err != nil {
			return err
		}
		for i, p := range req.Questions {
			q, rerr := ResolveQuestion(p, i+1)
			if rerr != nil {
				return rerr
			}
			q.SurveyID = survey.ID
			q.CreatedAt = now
			q.UpdatedAt = now
			questions = append(questions, *q)
		}
		if err := repo.CreateQuestions(ctx, tx, questions); err != nil {
			return err
		}
		if key != "" {
			if _, err := repo.PutReceipt(ctx, tx, owner.ID, key, survey.ID, s.ReceiptTTL); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CompositeResult{Survey: survey, Questions: questions}, nil
}

// buildHeader assembles the survey header row from the top-level request
// fields and the settings block. Derivation policy for settings: a field
// that cannot be parsed is omitted, never fatal — the header is still
// created without it.
func (s *SurveyService) buildHeader(req schema.CreateSurveyRequest, ownerID int64, now time.Time) *domain.Survey {
	survey := &domain.Survey{
		UserID:         ownerID,
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Language:       normalizeLanguage(req.Language, s.DefaultLanguage),
		CreationType:   req.CreationType,
		UserType:       req.UserType,
		Topic:          req.Topic,
		TargetAudience: req.TargetAudience,
		SurveyGoal:     req.SurveyGoal,
		QuestionCount:  len(req.Questions),
		IsPublished:    true,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	survey.StartDate = combineDateTime(req.Settings.StartDate, req.Settings.StartTime)
	survey.EndDate = combineDateTime(req.Settings.EndDate, req.Settings.EndTime)

	if n := utils.AtoiDefault(strings.TrimSpace(req.Settings.MaxParticipants), 0); n > 0 {
		survey.MaxParticipants = &n
	}
	if len(req.Settings.Motivation) > 0 {
		survey.Motivation = datatypes.JSON(req.Settings.Motivation)
	}
	if len(req.Questions) > 0 {
		types := make([]string, len(req.Questions))
		for i, p := range req.Questions {
			types[i] = p.Type
		}
		survey.QuestionTypes = mustJSON(types)
	}
	return survey
}

// Get returns the full aggregate for a survey id, questions in position
// order. Returns ErrSurveyNotFound when the header does not exist.
func (s *SurveyService) Get(ctx context.Context, id int64) (*CompositeResult, error) {
	res, err := s.loadAggregate(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrSurveyNotFound
	}
	return res, err
}

// ListPage returns a page of an account's surveys (headers only) plus the
// total count. It applies defaults for invalid page/pageSize.
func (s *SurveyService) ListPage(ctx context.Context, userID int64, page, pageSize int) ([]domain.Survey, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountSurveys(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Survey{}, 0, nil
	}

	items, err := repo.ListSurveysPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// SetPublished flips the published flag of a survey.
func (s *SurveyService) SetPublished(ctx context.Context, id int64, published bool) error {
	err := repo.SetSurveyPublished(ctx, s.DB, id, published)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrSurveyNotFound
	}
	return err
}

// Delete removes a survey aggregate; questions go with the header via the
// FK cascade.
func (s *SurveyService) Delete(ctx context.Context, id int64) error {
	err := repo.DeleteSurvey(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrSurveyNotFound
	}
	return err
}

// loadAggregate reads the header and its ordered questions.
func (s *SurveyService) loadAggregate(ctx context.Context, id int64) (*CompositeResult, error) {
	survey, err := repo.GetSurvey(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	questions, err := repo.ListQuestions(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	return &CompositeResult{Survey: survey, Questions: questions}, nil
}

// outcomeFor maps a creation error to the caller-visible outcome.
func outcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrOwnerNotFound):
		return OutcomeOwnerNotFound
	default:
		var iq *InvalidQuestionError
		if errors.As(err, &iq) {
			return OutcomeInvalidQuestion
		}
		return OutcomePersistenceError
	}
}

// combineDateTime merges a calendar date string ("2006-01-02") and an
// optional clock string ("15:04" or "15:04:05") into one UTC timestamp.
// Returns nil when the pair cannot be combined; the caller omits the field
// rather than failing the creation.
func combineDateTime(date, clock string) *time.Time {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil
	}

	clock = strings.TrimSpace(clock)
	if clock == "" {
		t := d.UTC()
		return &t
	}
	c, err := time.Parse("15:04", clock)
	if err != nil {
		if c, err = time.Parse("15:04:05", clock); err != nil {
			return nil
		}
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
	return &t
}
