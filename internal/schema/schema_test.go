package schema

import (
	"errors"
	"testing"
)

func validCreateRequest() CreateSurveyRequest {
	return CreateSurveyRequest{
		Title:        "Customer Feedback",
		TelegramID:   42,
		CreationType: "manual",
		Questions: []QuestionPayload{
			{Type: "text", Text: "How did we do?"},
		},
	}
}

func TestValidateCreateSurvey_OK(t *testing.T) {
	req := validCreateRequest()
	if err := ValidateCreateSurvey(&req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCreateSurvey_FieldErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateSurveyRequest)
		field  string
	}{
		{"missing title", func(r *CreateSurveyRequest) { r.Title = "" }, "title"},
		{"missing telegram id", func(r *CreateSurveyRequest) { r.TelegramID = 0 }, "telegram_id"},
		{"missing creation type", func(r *CreateSurveyRequest) { r.CreationType = "" }, "creation_type"},
		{"unknown creation type", func(r *CreateSurveyRequest) { r.CreationType = "magic" }, "creation_type"},
		{"unknown user type", func(r *CreateSurveyRequest) { s := "robot"; r.UserType = &s }, "user_type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)
			err := ValidateCreateSurvey(&req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("Field = %q; want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestValidateCreateSurvey_QuestionsNotInspected(t *testing.T) {
	// Per-question rules belong to the resolver; a structurally empty
	// question must pass schema validation.
	req := validCreateRequest()
	req.Questions = []QuestionPayload{{}}
	if err := ValidateCreateSurvey(&req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCreateSurvey_ZeroQuestionsAllowed(t *testing.T) {
	req := validCreateRequest()
	req.Questions = nil
	if err := ValidateCreateSurvey(&req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateProfile(t *testing.T) {
	snap := ProfileSnapshot{TelegramID: 42, FirstName: "Ann"}
	if err := ValidateProfile(&snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap.FirstName = ""
	err := ValidateProfile(&snap)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "first_name" {
		t.Fatalf("expected first_name validation error, got %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	e := &ValidationError{Field: "title", Reason: "failed rule 'required'"}
	want := "invalid payload: field 'title' failed rule 'required'"
	if e.Error() != want {
		t.Fatalf("Error() = %q; want %q", e.Error(), want)
	}
}
