package tests

import (
	"net/http"
	"testing"
)

func TestSignup(t *testing.T) {

	// Arrange
	payload := map[string]string{
		"email":     uniqueEmail("real-signup"),
		"password":  "Secret123!",
		"full_name": "Test User",
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/auth/signup", payload, "")

	// Assert
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("signup failed: status=%d message=%q", status, errEnv.Message)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-signup-dup")
	payload := map[string]string{
		"email":     user.Email,
		"password":  "Secret123!",
		"full_name": "Test User",
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/auth/signup", payload, "")

	// Assert
	if status != http.StatusConflict {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 409 for a duplicate email, got status=%d message=%q", status, errEnv.Message)
	}
}
