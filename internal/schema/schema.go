// Package schema defines the request payload types accepted by the core
// operations, together with their structural validation. It plays the role
// of the schema-validation collaborator: malformed top-level input is
// rejected here, before any business logic runs.
//
// Only payload-shape rules live in this package (required fields, closed
// value sets). Type-conditional question rules — which options/scale/rating
// fields are meaningful for a given question type — belong to the resolver
// in the services package, so that a bad question surfaces as the
// invalid_question outcome with its index, not as a generic schema error.
package schema

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// SurveySettings is the optional settings block of a composite creation.
// Dates and clock times arrive as separate strings exactly as the mini-app
// sends them; the service layer combines them and silently drops a field
// the pair cannot be parsed into a timestamp. MaxParticipants is a string
// for the same reason: a non-numeric value is skipped, not rejected.
type SurveySettings struct {
	StartDate       string          `json:"start_date"`
	StartTime       string          `json:"start_time"`
	EndDate         string          `json:"end_date"`
	EndTime         string          `json:"end_time"`
	MaxParticipants string          `json:"max_participants"`
	Motivation      json.RawMessage `json:"motivation"`
}

// QuestionPayload is one raw question of a composite creation. No validate
// tags on purpose: the resolver owns per-question rules and reports them
// with the offending index and field name.
type QuestionPayload struct {
	Type        string            `json:"type"`
	Text        string            `json:"text"`
	IsRequired  *bool             `json:"is_required"`
	Options     []string          `json:"options"`
	ScaleMin    *int              `json:"scale_min"`
	ScaleMax    *int              `json:"scale_max"`
	ScaleLabels map[string]string `json:"scale_labels"`
	RatingMax   *int              `json:"rating_max"`
	ImageURL    *string           `json:"image_url"`
	ImageName   *string           `json:"image_name"`
}

// CreateSurveyRequest is the full composite-creation payload: survey header
// fields, the owner's external identity, an optional settings block, and the
// ordered question payloads.
//
// There is deliberately no declared question count field; the stored
// question_count is always derived from len(Questions). IdempotencyKey is
// optional; when present, retries with the same key return the survey the
// first committed attempt created.
type CreateSurveyRequest struct {
	Title        string `json:"title"         validate:"required"`
	Description  string `json:"description"`
	Language     string `json:"language"`
	TelegramID   int64  `json:"telegram_id"   validate:"required"`
	CreationType string `json:"creation_type" validate:"required,oneof=manual ai"`

	UserType       *string `json:"user_type" validate:"omitempty,oneof=business personal"`
	Topic          *string `json:"topic"`
	TargetAudience *string `json:"target_audience"`
	SurveyGoal     *string `json:"survey_goal"`

	Settings  SurveySettings    `json:"settings"`
	Questions []QuestionPayload `json:"questions"`

	IdempotencyKey string `json:"idempotency_key"`
}

// ProfileSnapshot is the profile mirror delivered with every activity event,
// straight from the Telegram update or the mini-app initData.
type ProfileSnapshot struct {
	TelegramID   int64   `json:"telegram_id" validate:"required"`
	Username     *string `json:"username"`
	FirstName    string  `json:"first_name"  validate:"required"`
	LastName     *string `json:"last_name"`
	LanguageCode string  `json:"language_code"`
	IsPremium    bool    `json:"is_premium"`
}

// ValidationError reports the first payload field that failed structural
// validation.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid payload: field '" + e.Field + "' " + e.Reason
}

var (
	validate *validator.Validate
	once     sync.Once
)

// get returns the singleton validator, configured to report JSON field
// names instead of Go struct field names.
func get() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateCreateSurvey checks the top-level shape of a composite-creation
// payload. Question payloads are not inspected here (see package doc).
func ValidateCreateSurvey(req *CreateSurveyRequest) error {
	return wrap(get().Struct(req))
}

// ValidateProfile checks an activity-event profile snapshot.
func ValidateProfile(snap *ProfileSnapshot) error {
	return wrap(get().Struct(snap))
}

// wrap converts validator errors into a single *ValidationError carrying the
// first offending field.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	reason := "failed rule '" + e.Tag() + "'"
	if e.Param() != "" {
		reason += " (" + e.Param() + ")"
	}
	return &ValidationError{Field: e.Field(), Reason: reason}
}
