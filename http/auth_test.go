package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ourApp/auth"
	"ourApp/domain"
)

type stubUserService struct {
	domain.UserService
	updateUser func(user *domain.User) error
}

func (s *stubUserService) UpdateUser(user *domain.User) error {
	return s.updateUser(user)
}

func rememberCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "remember_token" {
			return c
		}
	}
	return nil
}

func TestLogout(t *testing.T) {
	var updated *domain.User
	s := &Server{
		router: mux.NewRouter(),
		us: &stubUserService{
			updateUser: func(user *domain.User) error {
				updated = user
				return nil
			},
		},
	}

	user := &domain.User{ID: 1, Remember: "old-token"}
	r := httptest.NewRequest("POST", "/logout", nil)
	r = r.WithContext(auth.SetUser(r.Context(), user))
	w := httptest.NewRecorder()
	s.handleLogout(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	// The stored token was rotated, and only then was the cookie cleared.
	require.NotNil(t, updated)
	assert.NotEmpty(t, updated.Remember)
	assert.NotEqual(t, "old-token", updated.Remember)

	cookie := rememberCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestLogoutKeepsCookieOnFailedRotation(t *testing.T) {
	s := &Server{
		router: mux.NewRouter(),
		us: &stubUserService{
			updateUser: func(user *domain.User) error {
				return assert.AnError
			},
		},
	}

	r := httptest.NewRequest("POST", "/logout", nil)
	r = r.WithContext(auth.SetUser(r.Context(), &domain.User{ID: 1, Remember: "old-token"}))
	w := httptest.NewRecorder()
	s.handleLogout(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// If the rotation cannot be persisted, the browser must keep its
	// cookie; clearing it would log the user out locally while the old
	// token stays valid server-side.
	assert.Nil(t, rememberCookie(w))
}
