package tests

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"
)

type userData struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type userListData struct {
	Users []userData `json:"users"`
}

type userDetailData struct {
	User userData `json:"user"`
}

func TestUserList(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-userlist")
	token := adminToken(t)

	// Act
	status, body := doJSON(t, http.MethodGet,
		"/api/v1/users?search="+url.QueryEscape(user.Email)+"&size=10&page=1", nil, token)

	// Assert
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 200, got status=%d message=%q", status, errEnv.Message)
	}

	var list userListData
	decodeSuccess(t, body, &list)
	if len(list.Users) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(list.Users))
	}
	if list.Users[0].Email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, list.Users[0].Email)
	}
}

func TestUserListForbidden(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-userlist-forbidden")

	// Act
	status, _ := doJSON(t, http.MethodGet, "/api/v1/users?size=10&page=1", nil, user.Token)

	// Assert
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for a plain user, got %d", status)
	}
}

func TestUserDetail(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-userdetail")
	id := strconv.FormatInt(user.ID, 10)
	token := adminToken(t)

	// Act
	status, body := doJSON(t, http.MethodGet, "/api/v1/users/"+id, nil, token)

	// Assert
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 200, got status=%d message=%q", status, errEnv.Message)
	}

	var detail userDetailData
	decodeSuccess(t, body, &detail)
	if detail.User.ID != id {
		t.Fatalf("expected id %q, got %q", id, detail.User.ID)
	}
	if detail.User.Role != "user" {
		t.Fatalf("expected role %q, got %q", "user", detail.User.Role)
	}
}

func TestUserUpdateRole(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-userrole")
	id := strconv.FormatInt(user.ID, 10)
	token := adminToken(t)

	// Act
	status, body := doJSON(t, http.MethodPut, "/api/v1/users/"+id+"/role",
		map[string]string{"role": "moderator"}, token)

	// Assert
	if status != http.StatusNoContent {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 204, got status=%d message=%q", status, errEnv.Message)
	}

	status, body = doJSON(t, http.MethodGet, "/api/v1/users/"+id, nil, token)
	if status != http.StatusOK {
		t.Fatalf("expected 200 reading the user back, got %d", status)
	}

	var detail userDetailData
	decodeSuccess(t, body, &detail)
	if detail.User.Role != "moderator" {
		t.Fatalf("expected role %q, got %q", "moderator", detail.User.Role)
	}
}

func TestUserDelete(t *testing.T) {

	// Arrange
	user := signupUser(t, "real-userdelete")
	id := strconv.FormatInt(user.ID, 10)
	token := adminToken(t)

	// Act
	status, body := doJSON(t, http.MethodDelete, "/api/v1/users/"+id, nil, token)

	// Assert
	if status != http.StatusNoContent {
		errEnv := decodeError(t, body)
		t.Fatalf("expected 204, got status=%d message=%q", status, errEnv.Message)
	}

	status, _ = doJSON(t, http.MethodGet, "/api/v1/users/"+id, nil, token)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 after deletion, got %d", status)
	}
}

func TestUserDetailUnknownID(t *testing.T) {

	// Arrange
	token := adminToken(t)

	// Act
	status, _ := doJSON(t, http.MethodGet, "/api/v1/users/987654321", nil, token)

	// Assert
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown user, got %d", status)
	}
}
