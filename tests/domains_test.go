package tests

import (
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"
)

type domainData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type domainListData struct {
	Domains []domainData `json:"domains"`
}

func uniqueDomainName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// createDomain provisions a domain as the seeded moderator and returns its ID
// from the listing.
func createDomain(t *testing.T, name string) string {
	t.Helper()

	status, body := doJSON(t, http.MethodPost, "/api/v1/domains", map[string]string{
		"name":        name,
		"description": "Provisioned for integration coverage.",
	}, moderatorToken(t))
	if status != http.StatusNoContent {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 204 creating domain, got status=%d message=%q", status, errEnv.Message)
	}

	status, body = doJSON(t, http.MethodGet, "/api/v1/domains", nil, moderatorToken(t))
	if status != http.StatusOK {
		t.Fatalf("expected 200 listing domains, got %d", status)
	}

	var list domainListData
	decodeSuccess(t, body, &list)
	for _, d := range list.Domains {
		if d.Name == name {
			return d.ID
		}
	}

	t.Fatalf("created domain %q not found in listing", name)
	return ""
}

func TestDomainCreateAndList(t *testing.T) {

	// Arrange
	name := uniqueDomainName("real-domain")

	// Act
	id := createDomain(t, name)

	// Assert
	if id == "" {
		t.Fatal("expected a domain id")
	}
}

func TestDomainCreateDuplicateName(t *testing.T) {

	// Arrange
	name := uniqueDomainName("real-domain-dup")
	createDomain(t, name)

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/domains", map[string]string{
		"name": name,
	}, moderatorToken(t))

	// Assert
	if status != http.StatusConflict {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 409, got status=%d message=%q", status, errEnv.Message)
	}
}

func TestDomainCreateForbidden(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-domain-forbidden")

	// Act
	status, _ := doJSON(t, http.MethodPost, "/api/v1/domains", map[string]string{
		"name": uniqueDomainName("real-domain-plain"),
	}, user.Token)

	// Assert
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for a plain user, got %d", status)
	}
}

func TestApplicationApply(t *testing.T) {

	// Arrange
	domainID := createDomain(t, uniqueDomainName("real-apply"))
	user := signupUser(t, "real-apply")

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/domains/"+domainID+"/apply", nil, user.Token)

	// Assert
	if status != http.StatusNoContent {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 204, got status=%d message=%q", status, errEnv.Message)
	}

	status, _ = doJSON(t, http.MethodPost, "/api/v1/domains/"+domainID+"/apply", nil, user.Token)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 applying twice, got %d", status)
	}
}

func TestApplicationApplyUnknownDomain(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-apply-unknown")

	// Act
	status, _ := doJSON(t, http.MethodPost, "/api/v1/domains/987654321/apply", nil, user.Token)

	// Assert
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown domain, got %d", status)
	}
}

func TestApplicationReview(t *testing.T) {

	// Arrange
	domainID := createDomain(t, uniqueDomainName("real-review"))
	user := signupUser(t, "real-review")

	status, body := doJSON(t, http.MethodPost, "/api/v1/domains/"+domainID+"/apply", nil, user.Token)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 applying, got %d", status)
	}

	reviewPath := "/api/v1/domains/" + domainID + "/applications/" + strconv.FormatInt(user.ID, 10)

	// Act
	status, body = doJSON(t, http.MethodPut, reviewPath, map[string]string{
		"decision": "approve",
	}, moderatorToken(t))

	// Assert
	if status != http.StatusNoContent {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 204, got status=%d message=%q", status, errEnv.Message)
	}

	// A decided application cannot be reviewed again.
	status, _ = doJSON(t, http.MethodPut, reviewPath, map[string]string{
		"decision": "reject",
	}, moderatorToken(t))
	if status != http.StatusConflict {
		t.Fatalf("expected 409 reviewing twice, got %d", status)
	}
}

func TestApplicationReviewForbidden(t *testing.T) {

	// Arrange
	domainID := createDomain(t, uniqueDomainName("real-review-forbidden"))
	applicant := signupUser(t, "real-review-applicant")
	outsider := signupUser(t, "real-review-outsider")

	status, _ := doJSON(t, http.MethodPost, "/api/v1/domains/"+domainID+"/apply", nil, applicant.Token)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 applying, got %d", status)
	}

	// Act
	status, _ = doJSON(t, http.MethodPut,
		"/api/v1/domains/"+domainID+"/applications/"+strconv.FormatInt(applicant.ID, 10),
		map[string]string{"decision": "approve"}, outsider.Token)

	// Assert
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for a plain user, got %d", status)
	}
}
