package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ourApp/auth"
	"ourApp/domain"
	"ourApp/errs"
)

// stubPostService overrides only the methods a test needs; calling anything
// else panics through the embedded nil interface, which is exactly the
// signal we want.
type stubPostService struct {
	domain.PostService
	findPostByID func(id string, visitorID int) (*domain.EnrichedPost, error)
	updatePost   func(id string, visitorID int, in domain.PostInput) error
	searchPosts  func(term string) ([]domain.EnrichedPost, error)
}

func (s *stubPostService) FindPostByID(id string, visitorID int) (*domain.EnrichedPost, error) {
	return s.findPostByID(id, visitorID)
}

func (s *stubPostService) UpdatePost(id string, visitorID int, in domain.PostInput) error {
	return s.updatePost(id, visitorID, in)
}

func (s *stubPostService) SearchPosts(term string) ([]domain.EnrichedPost, error) {
	return s.searchPosts(term)
}

func newTestServer(ps domain.PostService) *Server {
	return &Server{
		router: mux.NewRouter(),
		ps:     ps,
	}
}

func TestViewPostNotFound(t *testing.T) {
	s := newTestServer(&stubPostService{
		findPostByID: func(id string, visitorID int) (*domain.EnrichedPost, error) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		},
	})

	r := httptest.NewRequest("GET", "/post/999", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "999"})
	w := httptest.NewRecorder()
	s.handleViewPost(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []string{"The post does not exist."}, resp.Errors)
}

func TestUpdatePostNotOwner(t *testing.T) {
	s := newTestServer(&stubPostService{
		updatePost: func(id string, visitorID int, in domain.PostInput) error {
			return errs.Errorf(errs.ENOTOWNER, "You do not have permission to perform that action!")
		},
	})

	r := httptest.NewRequest("PATCH", "/post/9", strings.NewReader(`{"title":"x","body":"y"}`))
	r = mux.SetURLVars(r, map[string]string{"id": "9"})
	r = r.WithContext(auth.SetUser(r.Context(), &domain.User{ID: 2}))
	w := httptest.NewRecorder()
	s.handleUpdatePost(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []string{"You do not have permission to perform that action!"}, resp.Errors)
}

func TestUpdatePostValidationErrors(t *testing.T) {
	s := newTestServer(&stubPostService{
		updatePost: func(id string, visitorID int, in domain.PostInput) error {
			return errs.Invalid(
				"You must provide a title.",
				"You must provide some content for the post.",
			)
		},
	})

	r := httptest.NewRequest("PATCH", "/post/9", strings.NewReader(`{"title":"","body":""}`))
	r = mux.SetURLVars(r, map[string]string{"id": "9"})
	r = r.WithContext(auth.SetUser(r.Context(), &domain.User{ID: 1}))
	w := httptest.NewRecorder()
	s.handleUpdatePost(w, r)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Errors, 2)
}

func TestInternalErrorIsHidden(t *testing.T) {
	s := newTestServer(&stubPostService{
		findPostByID: func(id string, visitorID int) (*domain.EnrichedPost, error) {
			return nil, assert.AnError
		},
	})

	r := httptest.NewRequest("GET", "/post/1", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	s.handleViewPost(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []string{errs.GenericMessage}, resp.Errors)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestRequireAuth(t *testing.T) {
	s := newTestServer(nil)
	called := false
	handler := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	r := httptest.NewRequest("POST", "/post", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)

	r = httptest.NewRequest("POST", "/post", nil)
	r = r.WithContext(auth.SetUser(r.Context(), &domain.User{ID: 1}))
	w = httptest.NewRecorder()
	handler(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestSearchPosts(t *testing.T) {
	s := newTestServer(&stubPostService{
		searchPosts: func(term string) ([]domain.EnrichedPost, error) {
			assert.Equal(t, "xyz-no-match", term)
			return []domain.EnrichedPost{}, nil
		},
	})

	r := httptest.NewRequest("POST", "/search", strings.NewReader(`{"searchTerm":"xyz-no-match"}`))
	w := httptest.NewRecorder()
	s.handleSearchPosts(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}
