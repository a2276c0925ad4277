package tests

import (
	"net/http"
	"testing"
)

func TestSignin(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-signin")

	// Act
	resp := signin(t, user.Email, user.Password)

	// Assert
	if resp.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if resp.Role != "user" {
		t.Fatalf("expected role %q, got %q", "user", resp.Role)
	}
	if resp.FullName != user.FullName {
		t.Fatalf("expected full name %q, got %q", user.FullName, resp.FullName)
	}
}

func TestSigninWrongPassword(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-signin-wrong")
	payload := map[string]string{
		"email":    user.Email,
		"password": "Not-The-Password1!",
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/auth/signin", payload, "")

	// Assert
	if status != http.StatusUnauthorized {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 401, got status=%d message=%q", status, errEnv.Message)
	}
}
