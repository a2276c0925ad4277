package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/rankstage/rankstage/internal/identity/flow"
)

func TestVerifyEmailRoundTrip(t *testing.T) {

	// Arrange
	email := uniqueEmail("real-verify")

	// Act
	token, code := requestChallenge(t, email, "sign-up", "Verify Tester")
	result := verifyChallenge(t, email, code, token)

	// Assert
	if !result.Valid {
		t.Fatal("the mailed code must verify against its own token")
	}

	again := verifyChallenge(t, email, code, token)
	if !again.Valid {
		t.Fatal("verification is stateless and must give the same answer twice")
	}
}

func TestVerifyEmailWrongCode(t *testing.T) {

	// Arrange
	email := uniqueEmail("real-verify-wrong")
	token, code := requestChallenge(t, email, "sign-up", "Verify Tester")
	wrong := "123456"
	if wrong == code {
		wrong = "654321"
	}

	// Act
	result := verifyChallenge(t, email, wrong, token)

	// Assert
	if result.Valid {
		t.Fatal("a wrong code must not verify")
	}
}

func TestVerifyEmailCaseSensitive(t *testing.T) {

	// Arrange
	email := uniqueEmail("Real-Case-Tester")
	token, code := requestChallenge(t, email, "sign-up", "Case Tester")

	// Act
	differentCase := verifyChallenge(t, strings.ToLower(email), code, token)
	exactCase := verifyChallenge(t, email, code, token)

	// Assert
	if differentCase.Valid {
		t.Fatal("the email must match the token exactly, casing included")
	}
	if !exactCase.Valid {
		t.Fatal("the address the token was issued for must verify")
	}
}

func TestVerifyEmailTokenBoundToOtherEmail(t *testing.T) {

	// Arrange
	email := uniqueEmail("real-verify-bound")
	token, code := requestChallenge(t, email, "sign-up", "Verify Tester")

	// Act
	result := verifyChallenge(t, uniqueEmail("real-verify-other"), code, token)

	// Assert
	if result.Valid {
		t.Fatal("a token bound to another email must not verify")
	}
}

func TestVerifyEmailMissingFields(t *testing.T) {

	// Arrange
	payload := map[string]string{"email": uniqueEmail("real-verify-missing")}

	// Act
	status, body := doJSON(t, http.MethodPost, "/verify-email/verifier", payload, "")

	// Assert
	data := decodeChallenge(t, body)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if data.Success {
		t.Fatal("a missing-input response must not report success")
	}
	if data.Error == "" {
		t.Fatal("a missing-input response must carry an error message")
	}
}

func TestGenerateChallengeUnknownAccount(t *testing.T) {

	// Arrange
	payload := map[string]string{
		"email":       uniqueEmail("real-ghost"),
		"requestType": "change-password",
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/verify-email/generator", payload, "")

	// Assert
	data := decodeChallenge(t, body)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if data.Success {
		t.Fatal("an unknown account must not receive a challenge")
	}
}

func TestGenerateChallengeSignUpRequiresName(t *testing.T) {

	// Arrange
	payload := map[string]string{
		"email":       uniqueEmail("real-nameless"),
		"requestType": "sign-up",
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/verify-email/generator", payload, "")

	// Assert
	data := decodeChallenge(t, body)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if data.Success {
		t.Fatal("sign-up without a name must not receive a challenge")
	}
}

// The flow controller drives the same two endpoints the way a multi-step
// form would: request, read the mailed code, verify, commit the pin.
func TestVerifyEmailFlowController(t *testing.T) {

	// Arrange
	ctx := context.Background()
	email := uniqueEmail("real-flow")
	controller := flow.New(flow.NewHTTPClient(baseURL(), httpClient))

	// Act
	if !controller.RequestCode(ctx, email, "sign-up", "Flow Tester") {
		t.Fatal("expected the code request to succeed")
	}

	code, err := mailSink.lastCodeFor(email)
	if err != nil {
		t.Fatalf("read mailed code: %v", err)
	}

	verified := controller.Verify(ctx, code)

	// Assert
	if !verified || !controller.Verified() {
		t.Fatal("the mailed code must verify through the controller")
	}
	if controller.Pin() != code {
		t.Fatalf("expected committed pin %q, got %q", code, controller.Pin())
	}
	if controller.Remaining() <= 0 {
		t.Fatal("a fresh challenge must report time remaining")
	}
}
