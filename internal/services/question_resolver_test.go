package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aisurveys/go-survey-backend/internal/domain"
	"github.com/aisurveys/go-survey-backend/internal/schema"
)

func intp(n int) *int    { return &n }
func boolp(b bool) *bool { return &b }

// familiesPopulated counts how many type-specific field families carry data.
func familiesPopulated(q *domain.Question) int {
	n := 0
	if len(q.Options) > 0 {
		n++
	}
	if q.ScaleMin != nil || q.ScaleMax != nil {
		n++
	}
	if q.RatingMax != nil {
		n++
	}
	return n
}

func TestResolveQuestion_Text(t *testing.T) {
	q, err := ResolveQuestion(schema.QuestionPayload{Type: "text", Text: "  Tell us more  "}, 1)
	if err != nil {
		t.Fatalf("ResolveQuestion: %v", err)
	}
	if q.Text != "Tell us more" {
		t.Fatalf("Text = %q; want trimmed prompt", q.Text)
	}
	if !q.IsRequired {
		t.Fatalf("IsRequired should default to true")
	}
	if q.Position != 1 {
		t.Fatalf("Position = %d; want 1", q.Position)
	}
	if familiesPopulated(q) != 0 {
		t.Fatalf("text question must carry no type-specific fields: %+v", q)
	}
}

func TestResolveQuestion_TextIgnoresForeignFields(t *testing.T) {
	p := schema.QuestionPayload{
		Type:      "text",
		Text:      "q",
		Options:   []string{"a", "b"},
		ScaleMin:  intp(1),
		ScaleMax:  intp(10),
		RatingMax: intp(7),
	}
	q, err := ResolveQuestion(p, 2)
	if err != nil {
		t.Fatalf("foreign fields must be ignored, not rejected: %v", err)
	}
	if familiesPopulated(q) != 0 {
		t.Fatalf("foreign fields leaked into record: %+v", q)
	}
}

func TestResolveQuestion_Scale_Defaults(t *testing.T) {
	q, err := ResolveQuestion(schema.QuestionPayload{Type: "scale", Text: "rate"}, 1)
	if err != nil {
		t.Fatalf("ResolveQuestion: %v", err)
	}
	if q.ScaleMin == nil || q.ScaleMax == nil || *q.ScaleMin != 1 || *q.ScaleMax != 5 {
		t.Fatalf("expected default bounds 1..5, got %+v", q)
	}
	if familiesPopulated(q) != 1 {
		t.Fatalf("exactly one family must be populated: %+v", q)
	}
}

func TestResolveQuestion_Scale_ExplicitAndInvalidBounds(t *testing.T) {
	// Valid bounds are honored.
	q, err := ResolveQuestion(schema.QuestionPayload{Type: "scale", Text: "rate", ScaleMin: intp(0), ScaleMax: intp(10)}, 1)
	if err != nil {
		t.Fatalf("ResolveQuestion: %v", err)
	}
	if *q.ScaleMin != 0 || *q.ScaleMax != 10 {
		t.Fatalf("bounds = %d..%d; want 0..10", *q.ScaleMin, *q.ScaleMax)
	}

	// min >= max falls back to defaults instead of failing.
	q, err = ResolveQuestion(schema.QuestionPayload{Type: "scale", Text: "rate", ScaleMin: intp(9), ScaleMax: intp(3)}, 1)
	if err != nil {
		t.Fatalf("ResolveQuestion: %v", err)
	}
	if *q.ScaleMin != 1 || *q.ScaleMax != 5 {
		t.Fatalf("bounds = %d..%d; want defaults 1..5", *q.ScaleMin, *q.ScaleMax)
	}

	// One-sided bounds also fall back.
	q, err = ResolveQuestion(schema.QuestionPayload{Type: "scale", Text: "rate", ScaleMin: intp(2)}, 1)
	if err != nil {
		t.Fatalf("ResolveQuestion: %v", err)
	}
	if *q.ScaleMin != 1 || *q.ScaleMax != 5 {
		t.Fatalf("bounds = %d..%d; want defaults 1..5", *q.ScaleMin, *q.ScaleMax)
	}
}

func TestResolveQuestion_Scale_Labels(t *testing.T) {
	p := schema.QuestionPayload{
		Type:        "scale",
		Text:        "rate",
		ScaleLabels: map[string]string{"1": "bad", "5": "great"},
	}
	q, err := ResolveQuestion(p, 1)
	if err != nil {
		t.Fatalf("ResolveQuestion: %v", err)
	}
	var labels map[string]string
	if err := json.Unmarshal(q.ScaleLabels, &labels); err != nil {
		t.Fatalf("labels not valid JSON: %v", err)
	}
	if labels["1"] != "bad" || labels["5"] != "great" {
		t.Fatalf("labels round-trip mismatch: %v", labels)
	}
}

func TestResolveQuestion_Rating(t *testing.T) {
	q, err := ResolveQuestion(schema.QuestionPayload{Type: "rating", Text: "stars"}, 1)
	if err != nil {
		t.Fatalf("ResolveQuestion: %v", err)
	}
	if q.RatingMax == nil || *q.RatingMax != 5 {
		t.Fatalf("expected default rating max 5, got %+v", q.RatingMax)
	}

	q, err = ResolveQuestion(schema.QuestionPayload{Type: "rating", Text: "stars", RatingMax: intp(10)}, 1)
	if err != nil {
		t.Fatalf("ResolveQuestion: %v", err)
	}
	if *q.RatingMax != 10 {
		t.Fatalf("RatingMax = %d; want 10", *q.RatingMax)
	}

	// Non-positive max falls back to the default.
	q, err = ResolveQuestion(schema.QuestionPayload{Type: "rating", Text: "stars", RatingMax: intp(0)}, 1)
	if err != nil {
		t.Fatalf("ResolveQuestion: %v", err)
	}
	if *q.RatingMax != 5 {
		t.Fatalf("RatingMax = %d; want default 5", *q.RatingMax)
	}
}

func TestResolveQuestion_ChoiceTypes(t *testing.T) {
	for _, typ := range []string{"single_choice", "multiple_choice"} {
		q, err := ResolveQuestion(schema.QuestionPayload{Type: typ, Text: "pick", Options: []string{"a", "b", "c"}}, 4)
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		var opts []string
		if err := json.Unmarshal(q.Options, &opts); err != nil {
			t.Fatalf("%s options not valid JSON: %v", typ, err)
		}
		if len(opts) != 3 || opts[0] != "a" || opts[2] != "c" {
			t.Fatalf("%s options order lost: %v", typ, opts)
		}
		if familiesPopulated(q) != 1 {
			t.Fatalf("%s: exactly one family must be populated: %+v", typ, q)
		}
	}
}

func TestResolveQuestion_ChoiceWithoutOptionsFails(t *testing.T) {
	for _, typ := range []string{"single_choice", "multiple_choice"} {
		_, err := ResolveQuestion(schema.QuestionPayload{Type: typ, Text: "pick"}, 3)
		var iq *InvalidQuestionError
		if !errors.As(err, &iq) {
			t.Fatalf("%s: expected *InvalidQuestionError, got %v", typ, err)
		}
		if iq.Index != 3 || iq.Field != "options" {
			t.Fatalf("%s: got index=%d field=%q; want 3/options", typ, iq.Index, iq.Field)
		}
	}
}

func TestResolveQuestion_EmptyText(t *testing.T) {
	_, err := ResolveQuestion(schema.QuestionPayload{Type: "text", Text: "   "}, 2)
	var iq *InvalidQuestionError
	if !errors.As(err, &iq) || iq.Index != 2 || iq.Field != "text" {
		t.Fatalf("expected text error at index 2, got %v", err)
	}
}

func TestResolveQuestion_UnknownType(t *testing.T) {
	_, err := ResolveQuestion(schema.QuestionPayload{Type: "essay", Text: "q"}, 5)
	var iq *InvalidQuestionError
	if !errors.As(err, &iq) || iq.Index != 5 || iq.Field != "type" {
		t.Fatalf("expected type error at index 5, got %v", err)
	}
}

func TestResolveQuestion_RequiredOverride(t *testing.T) {
	q, err := ResolveQuestion(schema.QuestionPayload{Type: "yes_no", Text: "ok?", IsRequired: boolp(false)}, 1)
	if err != nil {
		t.Fatalf("ResolveQuestion: %v", err)
	}
	if q.IsRequired {
		t.Fatalf("explicit is_required=false was ignored")
	}
}
