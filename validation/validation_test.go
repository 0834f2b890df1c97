package validation

import (
	"testing"

	"github.com/kbukum/authd/errors"
)

type registerShape struct {
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestValidate_Success(t *testing.T) {
	in := registerShape{Username: "alice", Email: "a@x.com", Password: "Secr3t!pw"}
	if err := Validate(in, "User Registration Failed"); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	err := Validate(registerShape{}, "User Registration Failed")
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeValidationFailed {
		t.Errorf("expected VALIDATION_FAILED, got %s", appErr.Code)
	}
	if appErr.Message != "User Registration Failed" {
		t.Errorf("expected generic message, got %q", appErr.Message)
	}
	if len(appErr.Fields) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(appErr.Fields), appErr.Fields)
	}
}

func TestValidate_BadEmail_UsesJSONTagName(t *testing.T) {
	in := registerShape{Username: "alice", Email: "not-an-email", Password: "pw"}
	err := Validate(in, "User Registration Failed")
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if len(appErr.Fields) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(appErr.Fields))
	}
	if appErr.Fields[0].Code != "email" {
		t.Errorf("expected field code 'email', got %q", appErr.Fields[0].Code)
	}
}
