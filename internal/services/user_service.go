// Package services – UserService
//
// This file implements the user upsert / activity tracker. Both trigger
// surfaces funnel into the same state machine: a bot contact or a mini-app
// open resolves the external Telegram identity to an internal account,
// creating it on first sight, and applies the event's activity semantics.
// Profile fields are a cache of Telegram-side truth and are overwritten on
// every call; first-seen timestamps are written exactly once.
//
// Two concurrent first contacts for the same new identity race on the
// lookup-then-insert sequence; the unique index on telegram_id turns the
// loser's insert into a constraint violation, which this service resolves
// by re-reading the row and applying the update branch instead. The
// conflict is never surfaced to the caller.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/aisurveys/go-survey-backend/internal/domain"
	"github.com/aisurveys/go-survey-backend/internal/metrics"
	"github.com/aisurveys/go-survey-backend/internal/repo"
	"github.com/aisurveys/go-survey-backend/internal/schema"
)

// Test seam: the identity lookup is swappable so the first-contact race can
// be reproduced deterministically.
var lookupUserByTelegramID = repo.GetUserByTelegramID

// UserService resolves external identities to accounts and tracks activity
// across the bot and the mini-app.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Log receives structured upsert events.
	Log zerolog.Logger

	// DefaultLanguage is the fallback for snapshots without a usable
	// language code.
	DefaultLanguage string

	// now is a seam for tests; defaults to time.Now in UTC.
	now func() time.Time
}

// NewUserService constructs a UserService with sane defaults.
func NewUserService(db *gorm.DB, log zerolog.Logger) *UserService {
	return &UserService{
		DB:              db,
		Log:             log,
		DefaultLanguage: "ru",
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// RecordContact processes a bot-side contact event: it upserts the account,
// refreshes the profile mirror, stamps last_activity, and sets
// bot_started_at the first time the identity is ever seen.
func (s *UserService) RecordContact(ctx context.Context, snap schema.ProfileSnapshot) (*domain.User, error) {
	u, err := s.record(ctx, snap, false)
	if err == nil {
		metrics.ContactEvents.Inc()
	}
	return u, err
}

// RecordAppOpen processes a mini-app open event: everything RecordContact
// does for the profile mirror and last_activity, plus the app-open counters
// — app_opened_at once, app_opened_count incremented, last_app_opened_at
// overwritten.
func (s *UserService) RecordAppOpen(ctx context.Context, snap schema.ProfileSnapshot) (*domain.User, error) {
	u, err := s.record(ctx, snap, true)
	if err == nil {
		metrics.AppOpenEvents.Inc()
	}
	return u, err
}

// Get fetches an account by internal id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetByTelegramID fetches an account by external identity.
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	u, err := repo.GetUserByTelegramID(ctx, s.DB, telegramID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// record runs the upsert state machine for one activity event.
func (s *UserService) record(ctx context.Context, snap schema.ProfileSnapshot, appOpened bool) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "record",
		trace.WithAttributes(
			attribute.Int64("user.telegram_id", snap.TelegramID),
			attribute.Bool("event.app_open", appOpened),
		),
	)
	defer span.End()

	if err := schema.ValidateProfile(&snap); err != nil {
		return nil, err
	}
	now := s.now()

	u, err := lookupUserByTelegramID(ctx, s.DB, snap.TelegramID)
	switch {
	case err == nil:
		return s.update(ctx, u, snap, appOpened, now)

	case errors.Is(err, repo.ErrNotFound):
		created, cerr := s.create(ctx, snap, appOpened, now)
		if cerr == nil {
			return created, nil
		}
		if !errors.Is(cerr, repo.ErrDuplicate) {
			return nil, cerr
		}
		// Lost a first-contact race: another writer inserted the row
		// between our lookup and insert. Re-read and update instead.
		metrics.UpsertConflicts.Inc()
		s.Log.Debug().Int64("telegram_id", snap.TelegramID).Msg("first-contact conflict, falling back to update")
		existing, gerr := repo.GetUserByTelegramID(ctx, s.DB, snap.TelegramID)
		if gerr != nil {
			return nil, gerr
		}
		return s.update(ctx, existing, snap, appOpened, now)

	default:
		return nil, err
	}
}

// create handles the Unknown -> Known transition.
func (s *UserService) create(ctx context.Context, snap schema.ProfileSnapshot, appOpened bool, now time.Time) (*domain.User, error) {
	u := &domain.User{
		TelegramID:   snap.TelegramID,
		Username:     snap.Username,
		FirstName:    snap.FirstName,
		LastName:     snap.LastName,
		LanguageCode: normalizeLanguage(snap.LanguageCode, s.DefaultLanguage),
		IsActive:     true,
		IsPremium:    snap.IsPremium,
		LastActivity: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if appOpened {
		u.AppOpenedAt = &now
		u.AppOpenedCount = 1
		u.LastAppOpenedAt = &now
	} else {
		u.BotStartedAt = &now
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		return nil, err
	}
	s.Log.Info().Int64("user_id", u.ID).Int64("telegram_id", u.TelegramID).Bool("app_open", appOpened).Msg("user created")
	return u, nil
}

// update handles every Known -> Known self-transition. The profile mirror
// is always overwritten; first-seen timestamps are only filled when still
// unset.
func (s *UserService) update(ctx context.Context, u *domain.User, snap schema.ProfileSnapshot, appOpened bool, now time.Time) (*domain.User, error) {
	u.Username = snap.Username
	u.FirstName = snap.FirstName
	u.LastName = snap.LastName
	u.LanguageCode = normalizeLanguage(snap.LanguageCode, s.DefaultLanguage)
	u.IsPremium = snap.IsPremium
	u.LastActivity = now
	u.UpdatedAt = now

	if appOpened {
		if u.AppOpenedAt == nil {
			t := now
			u.AppOpenedAt = &t
		}
		u.AppOpenedCount++
		t := now
		u.LastAppOpenedAt = &t
	} else if u.BotStartedAt == nil {
		t := now
		u.BotStartedAt = &t
	}

	if err := repo.SaveUser(ctx, s.DB, u); err != nil {
		return nil, err
	}
	return u, nil
}
