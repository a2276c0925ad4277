package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"
)

const (
	testBcryptCost   = 4
	testBcryptPepper = "real-tests-pepper"
	testOTPSecret    = "real-tests-otp-secret"

	adminID       int64 = 1001
	adminEmail          = "admin@rankstage.io"
	adminPassword       = "Secret123!"

	moderatorID       int64 = 1002
	moderatorEmail          = "moderator@rankstage.io"
	moderatorPassword       = "Secret123!"
)

type signinData struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
}

func signin(t *testing.T, email, password string) signinData {
	t.Helper()

	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	status, body := doJSON(t, http.MethodPost, "/api/v1/auth/signin", payload, "")
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("signin failed: status=%d message=%q", status, errEnv.Message)
	}

	var data signinData
	decodeSuccess(t, body, &data)

	return data
}

func adminToken(t *testing.T) string {
	t.Helper()

	resp := signin(t, adminEmail, adminPassword)
	if resp.AccessToken == "" {
		t.Fatal("missing admin access token")
	}

	return resp.AccessToken
}

func moderatorToken(t *testing.T) string {
	t.Helper()

	resp := signin(t, moderatorEmail, moderatorPassword)
	if resp.AccessToken == "" {
		t.Fatal("missing moderator access token")
	}

	return resp.AccessToken
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

type testUser struct {
	ID       int64
	Email    string
	Password string
	FullName string
	Token    string
}

// signupUser registers a fresh account through the public endpoint and signs
// it in.
func signupUser(t *testing.T, prefix string) testUser {
	t.Helper()

	user := testUser{
		Email:    uniqueEmail(prefix),
		Password: "Secret123!",
		FullName: "Test User",
	}

	payload := map[string]string{
		"email":     user.Email,
		"password":  user.Password,
		"full_name": user.FullName,
	}

	status, body := doJSON(t, http.MethodPost, "/api/v1/auth/signup", payload, "")
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("signup failed: status=%d message=%q", status, errEnv.Message)
	}

	resp := signin(t, user.Email, user.Password)
	user.Token = resp.AccessToken

	id, err := strconv.ParseInt(resp.UserID, 10, 64)
	if err != nil {
		t.Fatalf("parse user id: %v", err)
	}
	user.ID = id

	return user
}

func lookupUserID(t *testing.T, token, email string) int64 {
	t.Helper()

	path := "/api/v1/users?search=" + url.QueryEscape(email) + "&size=1&page=1"
	status, body := doJSON(t, http.MethodGet, path, nil, token)
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("lookup user failed: status=%d message=%q", status, errEnv.Message)
	}

	var data struct {
		Users []struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"users"`
	}
	decodeSuccess(t, body, &data)
	if len(data.Users) == 0 {
		t.Fatalf("lookup user returned no results for %q", email)
	}

	id, err := strconv.ParseInt(data.Users[0].ID, 10, 64)
	if err != nil {
		t.Fatalf("parse user id: %v", err)
	}

	return id
}

type challengeData struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	Valid     bool   `json:"valid"`
	Error     string `json:"error"`
}

// requestChallenge hits the generator and returns the token together with the
// code the server just mailed.
func requestChallenge(t *testing.T, email, requestType, name string) (token, code string) {
	t.Helper()

	payload := map[string]string{
		"email":       email,
		"requestType": requestType,
	}
	if name != "" {
		payload["name"] = name
	}

	status, body := doJSON(t, http.MethodPost, "/verify-email/generator", payload, "")
	data := decodeChallenge(t, body)
	if status != http.StatusOK || !data.Success {
		t.Fatalf("challenge request failed: status=%d error=%q", status, data.Error)
	}
	if data.Token == "" {
		t.Fatal("challenge response missing token")
	}

	code, err := mailSink.lastCodeFor(email)
	if err != nil {
		t.Fatalf("read mailed code: %v", err)
	}

	return data.Token, code
}

func verifyChallenge(t *testing.T, email, otp, token string) challengeData {
	t.Helper()

	payload := map[string]string{
		"email": email,
		"otp":   otp,
		"token": token,
	}

	status, body := doJSON(t, http.MethodPost, "/verify-email/verifier", payload, "")
	data := decodeChallenge(t, body)
	if status != http.StatusOK || !data.Success {
		t.Fatalf("challenge verification failed: status=%d error=%q", status, data.Error)
	}

	return data
}

func decodeChallenge(t *testing.T, body []byte) challengeData {
	t.Helper()

	var data challengeData
	if err := json.Unmarshal(body, &data); err != nil {
		t.Fatalf("decode challenge response: %v", err)
	}

	return data
}
