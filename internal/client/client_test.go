package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mdpreview/mdpreview/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestUpdateFileGroupReadsThenWrites(t *testing.T) {
	var calls []string
	var putTitle, putGroup, putBody string
	groupHasKey := false

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/files/f1":
			respond(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    model.File{ID: "f1", Title: "T", Content: "C"},
			})
		case r.Method == http.MethodPut && r.URL.Path == "/api/files/f1":
			q := r.URL.Query()
			putTitle = q.Get("title")
			groupHasKey = q.Has("group_id")
			putGroup = q.Get("group_id")
			raw, _ := io.ReadAll(r.Body)
			putBody = string(raw)

			gid := q.Get("group_id")
			respond(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    model.File{ID: "f1", Title: "T", Content: "C", GroupID: &gid},
			})
		default:
			respond(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	gid := "g1"
	updated, err := c.UpdateFileGroup(context.Background(), "f1", &gid)
	require.NoError(t, err)

	// Read-modify-write: the current record is fetched first so title and
	// content survive the full-replace PUT.
	require.Equal(t, []string{"GET /api/files/f1", "PUT /api/files/f1"}, calls)
	assert.Equal(t, "T", putTitle)
	assert.Equal(t, "C", putBody)
	assert.True(t, groupHasKey)
	assert.Equal(t, "g1", putGroup)

	require.NotNil(t, updated.GroupID)
	assert.Equal(t, "g1", *updated.GroupID)
}

func TestUpdateFileGroupToUngroupedSendsEmptyGroupID(t *testing.T) {
	var groupHasKey bool
	var putGroup string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			respond(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    model.File{ID: "f1", Title: "T", Content: "C"},
			})
		case http.MethodPut:
			groupHasKey = r.URL.Query().Has("group_id")
			putGroup = r.URL.Query().Get("group_id")
			respond(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    model.File{ID: "f1", Title: "T", Content: "C"},
			})
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.UpdateFileGroup(context.Background(), "f1", nil)
	require.NoError(t, err)

	// The key must be present but empty: absent means "keep current group".
	assert.True(t, groupHasKey)
	assert.Equal(t, "", putGroup)
}

func TestUpdateFileGroupFailedReadSkipsWrite(t *testing.T) {
	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		respond(w, http.StatusNotFound, map[string]any{"success": false, "message": "File not found"})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	gid := "g1"
	_, err = c.UpdateFileGroup(context.Background(), "f1", &gid)

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 1, calls)
}

func TestUnauthorizedHookFiresOnProtectedEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Authentication required"})
	}))
	defer srv.Close()

	fired := 0
	c, err := New(srv.URL, WithUnauthorizedHandler(func() { fired++ }))
	require.NoError(t, err)

	_, _, err = c.ListFiles(context.Background(), ListFilesOptions{})
	require.Error(t, err)
	assert.Equal(t, 1, fired)
}

func TestUnauthorizedHookSuppressedOnAuthChecks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid email or password"})
	}))
	defer srv.Close()

	fired := 0
	c, err := New(srv.URL, WithUnauthorizedHandler(func() { fired++ }))
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)

	_, err = c.Profile(context.Background())
	require.Error(t, err)

	_, err = c.Register(context.Background(), "a@b.c", "user", "short")
	require.Error(t, err)

	assert.Equal(t, 0, fired)
}

func TestListFilesDecodesPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "true", r.URL.Query().Get("ungrouped"))

		respond(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []model.File{{ID: "f1"}, {ID: "f2"}},
			"pagination": map[string]any{
				"page":        2,
				"limit":       12,
				"total":       30,
				"totalPages":  3,
				"hasNextPage": true,
				"hasPrevPage": true,
			},
		})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	files, pagination, err := c.ListFiles(context.Background(), ListFilesOptions{Page: 2, Ungrouped: true})
	require.NoError(t, err)

	assert.Len(t, files, 2)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 30, pagination.Total)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.True(t, pagination.HasNextPage)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusConflict, map[string]any{"success": false, "message": "Email already registered"})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Register(context.Background(), "a@b.c", "user", "password123")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Email already registered", apiErr.Message)
}

func TestSessionCookiePersistsAcrossRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: "tok", Path: "/"})
			respond(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"token": "tok", "user": model.User{ID: "u1"}},
			})
		case "/api/auth/profile":
			cookie, err := r.Cookie("auth_token")
			if err != nil || cookie.Value != "tok" {
				respond(w, http.StatusUnauthorized, map[string]any{"success": false})
				return
			}
			respond(w, http.StatusOK, map[string]any{"success": true, "data": model.User{ID: "u1"}})
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	session, err := c.Login(context.Background(), "a@b.c", "password123")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.User.ID)

	user, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}
