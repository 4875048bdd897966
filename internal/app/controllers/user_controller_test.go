package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekinkoc/schoolhub/internal/app/models"
	"github.com/ekinkoc/schoolhub/internal/app/models/dto"
)

func doJSON(t *testing.T, f *apiFixture, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var errResp dto.ErrorResponse
	decodeBody(t, rec, &errResp)
	return errResp
}

func TestCreateUserEndpoint(t *testing.T) {
	f := newAPIFixture()

	t.Run("creates user and hides password", func(t *testing.T) {
		rec := doJSON(t, f, http.MethodPost, "/api/v1/users", dto.CreateUserRequest{
			Username: "jdoe",
			Password: "secret123",
			Name:     "John Doe",
			Email:    "jdoe@school.edu",
			Phone:    "13800000000",
			UserType: "STUDENT",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var body map[string]interface{}
		decodeBody(t, rec, &body)
		assert.Equal(t, "jdoe", body["username"])
		assert.Equal(t, "STUDENT", body["userType"])
		assert.NotContains(t, body, "password")
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		rec := doJSON(t, f, http.MethodPost, "/api/v1/users", map[string]string{"username": "x"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.CodeValidationError, decodeError(t, rec).Code)
	})

	t.Run("rejects over-long password with field details", func(t *testing.T) {
		rec := doJSON(t, f, http.MethodPost, "/api/v1/users", dto.CreateUserRequest{
			Username: "pwuser",
			Password: strings.Repeat("a", 73),
			Name:     "P W",
			Email:    "pwuser@school.edu",
			Phone:    "13800000011",
			UserType: "STUDENT",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, dto.CodeValidationError, body.Code)
		assert.Contains(t, body.Details, "password")
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		rec := doJSON(t, f, http.MethodPost, "/api/v1/users", dto.CreateUserRequest{
			Username: "jdoe",
			Password: "secret123",
			Name:     "Another Doe",
			Email:    "other@school.edu",
			Phone:    "13800000099",
			UserType: "STUDENT",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.CodeUsernameExists, decodeError(t, rec).Code)
	})
}

func TestGetUserEndpoint(t *testing.T) {
	f := newAPIFixture()
	u := f.seedUser("alice", models.UserTypeTeacher)

	t.Run("found", func(t *testing.T) {
		rec := doJSON(t, f, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", u.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp dto.UserResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, u.ID, resp.ID)
		assert.Equal(t, "alice", resp.Username)
	})

	t.Run("not found", func(t *testing.T) {
		rec := doJSON(t, f, http.MethodGet, "/api/v1/users/9999", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, dto.CodeUserNotFound, decodeError(t, rec).Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := doJSON(t, f, http.MethodGet, "/api/v1/users/abc", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateUserEndpoint(t *testing.T) {
	f := newAPIFixture()
	u := f.seedUser("bob", models.UserTypeStudent)

	t.Run("partial update", func(t *testing.T) {
		name := "Robert"
		rec := doJSON(t, f, http.MethodPut, fmt.Sprintf("/api/v1/users/%d", u.ID), dto.UpdateUserRequest{Name: &name})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp dto.UserResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Robert", resp.Name)
		assert.Equal(t, "bob", resp.Username)
	})

	t.Run("not found", func(t *testing.T) {
		name := "Nobody"
		rec := doJSON(t, f, http.MethodPut, "/api/v1/users/9999", dto.UpdateUserRequest{Name: &name})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteUserEndpoint(t *testing.T) {
	f := newAPIFixture()
	u := f.seedUser("carol", models.UserTypeStudent)

	rec := doJSON(t, f, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", u.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, f, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", u.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, f, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", u.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUsersEndpoint(t *testing.T) {
	f := newAPIFixture()
	f.seedUser("t1", models.UserTypeTeacher)
	f.seedUser("s1", models.UserTypeStudent)
	f.seedUser("s2", models.UserTypeStudent)

	t.Run("paginated list", func(t *testing.T) {
		rec := doJSON(t, f, http.MethodGet, "/api/v1/users?page=1&size=2", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page dto.PageResponse
		decodeBody(t, rec, &page)
		assert.Equal(t, int64(3), page.TotalElements)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, 1, page.PageNumber)
		assert.True(t, page.HasNext)
		assert.False(t, page.HasPrevious)
	})

	t.Run("filter by type", func(t *testing.T) {
		rec := doJSON(t, f, http.MethodGet, "/api/v1/users/type/STUDENT", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page dto.PageResponse
		decodeBody(t, rec, &page)
		assert.Equal(t, int64(2), page.TotalElements)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		rec := doJSON(t, f, http.MethodGet, "/api/v1/users/type/WIZARD", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestValidateEndpoints(t *testing.T) {
	f := newAPIFixture()
	u := f.seedUser("dave", models.UserTypeStudent)

	check := func(t *testing.T, path string, want bool) {
		t.Helper()
		rec := doJSON(t, f, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.AvailabilityResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, want, resp.Available)
	}

	check(t, "/api/v1/users/validate/username?value=dave", false)
	check(t, "/api/v1/users/validate/username?value=newname", true)
	check(t, "/api/v1/users/validate/email?value=dave@school.edu", false)
	check(t, "/api/v1/users/validate/phone?value=1380000dave", false)

	// excludeId lets an account keep its own unique values
	check(t, fmt.Sprintf("/api/v1/users/validate/username?value=dave&excludeId=%d", u.ID), true)

	t.Run("missing value rejected", func(t *testing.T) {
		rec := doJSON(t, f, http.MethodGet, "/api/v1/users/validate/username", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
