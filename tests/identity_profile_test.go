package tests

import (
	"net/http"
	"testing"
)

type profileData struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

func TestProfile(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-profile")

	// Act
	status, body := doJSON(t, http.MethodGet, "/api/v1/profile", nil, user.Token)

	// Assert
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 200, got status=%d message=%q", status, errEnv.Message)
	}

	var profile profileData
	decodeSuccess(t, body, &profile)
	if profile.Email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, profile.Email)
	}
	if profile.FullName != user.FullName {
		t.Fatalf("expected full name %q, got %q", user.FullName, profile.FullName)
	}
	if profile.Role != "user" {
		t.Fatalf("expected role %q, got %q", "user", profile.Role)
	}
}

func TestProfileUpdate(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-profile-update")
	payload := map[string]string{
		"full_name": "Renamed Tester",
		"bio":       "Keeps the rankings honest.",
		"location":  "Rotterdam",
	}

	// Act
	status, body := doJSON(t, http.MethodPut, "/api/v1/profile", payload, user.Token)

	// Assert
	if status != http.StatusNoContent {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 204, got status=%d message=%q", status, errEnv.Message)
	}

	status, body = doJSON(t, http.MethodGet, "/api/v1/profile", nil, user.Token)
	if status != http.StatusOK {
		t.Fatalf("expected 200 reading the profile back, got %d", status)
	}

	var profile profileData
	decodeSuccess(t, body, &profile)
	if profile.FullName != "Renamed Tester" {
		t.Fatalf("expected full name %q, got %q", "Renamed Tester", profile.FullName)
	}
	if profile.Bio != "Keeps the rankings honest." {
		t.Fatalf("unexpected bio %q", profile.Bio)
	}
	if profile.Location != "Rotterdam" {
		t.Fatalf("unexpected location %q", profile.Location)
	}
}

func TestProfileUnauthenticated(t *testing.T) {

	// Act
	status, _ := doJSON(t, http.MethodGet, "/api/v1/profile", nil, "")

	// Assert
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
}
