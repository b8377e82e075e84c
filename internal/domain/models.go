// Package domain defines the persistence models for users, surveys, and
// questions. These types are mapped with GORM and form the core data layer
// of the survey backend.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Question type tags. The set is closed: the resolver rejects anything else.
const (
	QuestionTypeText           = "text"
	QuestionTypeSingleChoice   = "single_choice"
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeScale          = "scale"
	QuestionTypeYesNo          = "yes_no"
	QuestionTypeRating         = "rating"
)

// Survey creation provenance tags, immutable after creation.
const (
	CreationTypeManual = "manual"
	CreationTypeAI     = "ai"
)

// User represents one account per Telegram identity. Profile fields are a
// live mirror of the Telegram-side data and are overwritten on every contact;
// the activity columns track first/ongoing engagement across the two entry
// surfaces (bot chat and mini-app).
//
// Fields:
//   - ID: surrogate integer primary key.
//   - TelegramID: stable external identity; unique, set once, used for all
//     look-ups from the bot and the mini-app.
//   - Username / FirstName / LastName / LanguageCode / IsPremium: profile
//     mirror, replaced with the latest snapshot on every contact.
//   - BotStartedAt: first time the identity was ever seen (set once).
//   - AppOpenedAt: first time the mini-app open event fired (set once).
//   - AppOpenedCount: incremented on every app-open event.
//   - LastAppOpenedAt: overwritten on every app-open event.
//   - LastActivity: overwritten on every contact of any kind.
type User struct {
	ID         int64   `json:"id"          gorm:"primaryKey;autoIncrement"`
	TelegramID int64   `json:"telegram_id" gorm:"not null;uniqueIndex:ux_users_telegram_id"`
	Username   *string `json:"username"    gorm:"type:varchar(255)"`
	FirstName  string  `json:"first_name"  gorm:"type:varchar(255);not null"`
	LastName   *string `json:"last_name"   gorm:"type:varchar(255)"`

	LanguageCode string `json:"language_code" gorm:"type:varchar(10);not null;default:'ru'"`
	IsActive     bool   `json:"is_active"     gorm:"not null;default:true"`
	IsPremium    bool   `json:"is_premium"    gorm:"not null;default:false"`

	BotStartedAt    *time.Time `json:"bot_started_at"`
	AppOpenedAt     *time.Time `json:"app_opened_at"`
	AppOpenedCount  int        `json:"app_opened_count" gorm:"not null;default:0"`
	LastAppOpenedAt *time.Time `json:"last_app_opened_at"`
	LastActivity    time.Time  `json:"last_activity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Surveys owned by this account. Deleting the account cascades to its
	// surveys (and transitively their questions).
	Surveys []Survey `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Survey is the aggregate root: one header row plus QuestionCount child
// questions with contiguous 1..N positions. The composite-creation flow
// persists header and children in a single transaction, so a reader never
// observes a header without its full question set.
//
// Fields:
//   - UserID: internal account id of the owner (never the Telegram id).
//   - Language: language tag, normalized by the service layer.
//   - StartDate / EndDate: optional scheduling window, combined from
//     separate date and clock strings in the request settings.
//   - MaxParticipants: optional positive participant cap.
//   - CreationType: "manual" or "ai"; immutable provenance tag.
//   - UserType / Topic / TargetAudience / SurveyGoal: optional briefing
//     metadata carried through from ai-assisted authoring flows.
//   - QuestionCount: number of child questions, derived at creation from
//     the actual payload (any caller-declared count is ignored).
//   - QuestionTypes: JSON list of the children's type tags, in order.
//   - Motivation: opaque JSON stored verbatim, never interpreted here.
type Survey struct {
	ID     int64 `json:"id"      gorm:"primaryKey;autoIncrement"`
	UserID int64 `json:"user_id" gorm:"not null;index:idx_user_surveys"`

	Title       string `json:"title"       gorm:"type:varchar(255);not null"`
	Description string `json:"description" gorm:"type:text"`
	Language    string `json:"language"    gorm:"type:varchar(10);not null;default:'ru'"`

	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	MaxParticipants *int       `json:"max_participants"`

	CreationType   string         `json:"creation_type"   gorm:"type:varchar(20);not null;check:creation_type IN ('manual','ai')"`
	UserType       *string        `json:"user_type"       gorm:"type:varchar(20)"`
	Topic          *string        `json:"topic"           gorm:"type:varchar(255)"`
	TargetAudience *string        `json:"target_audience" gorm:"type:varchar(255)"`
	SurveyGoal     *string        `json:"survey_goal"     gorm:"type:text"`
	QuestionCount  int            `json:"question_count"  gorm:"not null"`
	QuestionTypes  datatypes.JSON `json:"question_types"`
	Motivation     datatypes.JSON `json:"motivation"`

	IsPublished bool `json:"is_published" gorm:"not null;default:false"`
	IsActive    bool `json:"is_active"    gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Questions are cascade-deleted with their survey.
	Questions []Question `json:"-" gorm:"foreignKey:SurveyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Survey.
func (Survey) TableName() string { return "surveys" }

// Question is owned exclusively by one survey. The type tag determines which
// of the optional field families is populated; at most one of {options,
// scale bounds, rating bound} is ever non-null for a stored row.
//
// Fields:
//   - Position: 1-based order within the survey, contiguous, assigned from
//     input order (serialized as "order" to match the mini-app API).
//   - Options: ordered JSON list of strings; choice types only.
//   - ScaleMin / ScaleMax / ScaleLabels: scale type only (defaults 1 and 5).
//   - RatingMax: rating type only (default 5).
//   - ImageURL / ImageName: optional image attachment reference.
type Question struct {
	ID       int64 `json:"id"        gorm:"primaryKey;autoIncrement"`
	SurveyID int64 `json:"survey_id" gorm:"not null;index:idx_survey_questions,priority:1"`

	Text string `json:"text" gorm:"type:text;not null"`
	Type string `json:"type" gorm:"type:varchar(50);not null;check:type IN ('text','single_choice','multiple_choice','scale','yes_no','rating')"`

	IsRequired bool `json:"is_required" gorm:"not null;default:true"`
	Position   int  `json:"order"       gorm:"column:position;not null;index:idx_survey_questions,priority:2"`

	Options     datatypes.JSON `json:"options"`
	ScaleMin    *int           `json:"scale_min"`
	ScaleMax    *int           `json:"scale_max"`
	ScaleLabels datatypes.JSON `json:"scale_labels"`
	RatingMax   *int           `json:"rating_max"`

	ImageURL  *string `json:"image_url"  gorm:"type:varchar(500)"`
	ImageName *string `json:"image_name" gorm:"type:varchar(255)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Survey is the parent aggregate. Questions are cascade-deleted if
	// their survey is removed.
	Survey Survey `json:"-" gorm:"foreignKey:SurveyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Question.
func (Question) TableName() string { return "questions" }
