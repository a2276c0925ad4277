package tests

import (
	"net/http"
	"testing"
)

func TestPasswordChangeReset(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-pwreset")
	newPassword := "Changed123!"

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/auth/password/change", map[string]string{
		"email":            user.Email,
		"requestType":      "reset-password",
		"current_password": user.Password,
		"new_password":     newPassword,
	}, "")

	// Assert
	if status != http.StatusNoContent {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 204, got status=%d message=%q", status, errEnv.Message)
	}

	resp := signin(t, user.Email, newPassword)
	if resp.AccessToken == "" {
		t.Fatal("expected to sign in with the new password")
	}

	// Revert so other tests can keep using the seeded password.
	status, body = doJSON(t, http.MethodPost, "/api/v1/auth/password/change", map[string]string{
		"email":            user.Email,
		"requestType":      "reset-password",
		"current_password": newPassword,
		"new_password":     user.Password,
	}, "")
	if status != http.StatusNoContent {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 204 on revert, got status=%d message=%q", status, errEnv.Message)
	}
}

func TestPasswordChangeResetWrongCurrentPassword(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-pwreset-wrong")

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/auth/password/change", map[string]string{
		"email":            user.Email,
		"requestType":      "reset-password",
		"current_password": "Not-The-Password1!",
		"new_password":     "Changed123!",
	}, "")

	// Assert
	if status != http.StatusUnauthorized {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 401, got status=%d message=%q", status, errEnv.Message)
	}
}

func TestPasswordChangeForgot(t *testing.T) {

	// Arrange: run the email challenge workflow against the live verifier
	// before swapping the password.
	user := signupUser(t, "real-pwforgot")
	token, code := requestChallenge(t, user.Email, "change-password", "")

	verified := verifyChallenge(t, user.Email, code, token)
	if !verified.Valid {
		t.Fatalf("expected the mailed code to verify, got %+v", verified)
	}

	newPassword := "Forgotten123!"

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/auth/password/change", map[string]string{
		"email":        user.Email,
		"requestType":  "forgot-password",
		"new_password": newPassword,
		"otp":          code,
		"otp_token":    token,
	}, "")

	// Assert
	if status != http.StatusNoContent {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 204, got status=%d message=%q", status, errEnv.Message)
	}

	resp := signin(t, user.Email, newPassword)
	if resp.AccessToken == "" {
		t.Fatal("expected to sign in with the new password")
	}
}

func TestPasswordChangeForgotBadCode(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-pwforgot-bad")
	token, code := requestChallenge(t, user.Email, "change-password", "")

	wrongCode := "000000"
	if wrongCode == code {
		wrongCode = "000001"
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/auth/password/change", map[string]string{
		"email":        user.Email,
		"requestType":  "forgot-password",
		"new_password": "Changed123!",
		"otp":          wrongCode,
		"otp_token":    token,
	}, "")

	// Assert
	if status != http.StatusUnauthorized {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 401, got status=%d message=%q", status, errEnv.Message)
	}

	resp := signin(t, user.Email, user.Password)
	if resp.AccessToken == "" {
		t.Fatal("expected the original password to still work")
	}
}
