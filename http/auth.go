package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ourApp/auth"
	"ourApp/domain"
	"ourApp/errs"
)

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.requireAuth(s.handleLogout)).Methods("POST")
	r.HandleFunc("/doesUsernameExist", s.handleUsernameExists).Methods("POST")
	r.HandleFunc("/doesEmailExist", s.handleEmailExists).Methods("POST")
}

// credentials is what the register and login forms submit. Register uses
// all three fields, login only username and password.
type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.error(w, r, errs.Errorf(errs.EINVALID, "The request body is not valid JSON."))
		return
	}
	user := domain.User{
		Username: creds.Username,
		Email:    creds.Email,
		Password: creds.Password,
	}
	if err := s.us.CreateUser(&user); err != nil {
		s.error(w, r, err)
		return
	}
	if err := s.signIn(w, r.Context(), &user); err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, &user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.error(w, r, errs.Errorf(errs.EINVALID, "The request body is not valid JSON."))
		return
	}
	user, err := s.us.Authenticate(creds.Username, creds.Password)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if err := s.signIn(w, r.Context(), user); err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, user)
}

// handleLogout rotates the stored remember token and clears the remember
// cookie, so the old cookie value cannot be replayed. The rotation has to
// be persisted first: clearing the cookie before a failed update would
// leave the browser logged out while the old token stays valid.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	token, err := auth.MakeRememberToken()
	if err != nil {
		s.error(w, r, err)
		return
	}
	user.Remember = token
	if err := s.us.UpdateUser(user); err != nil {
		s.error(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "remember_token",
		Value:    "",
		Expires:  time.Now(),
		HttpOnly: true,
	})
	s.respond(w, http.StatusOK, map[string]string{"message": "successfully logged out"})
}

func (s *Server) handleUsernameExists(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.error(w, r, errs.Errorf(errs.EINVALID, "The request body is not valid JSON."))
		return
	}
	exists, err := s.us.UsernameExists(body.Username)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, exists)
}

func (s *Server) handleEmailExists(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.error(w, r, errs.Errorf(errs.EINVALID, "The request body is not valid JSON."))
		return
	}
	exists, err := s.us.EmailExists(body.Email)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, exists)
}

// signIn is used to sign the given user in via cookies.
func (s *Server) signIn(w http.ResponseWriter, ctx context.Context, user *domain.User) error {
	if user.Remember == "" {
		token, err := auth.MakeRememberToken()
		if err != nil {
			return err
		}
		user.Remember = token
		if err := s.us.UpdateUser(user); err != nil {
			return err
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "remember_token",
		Value:    user.Remember,
		HttpOnly: true,
	})
	return nil
}

// The authUser middleware identifies the requesting user by the remember
// cookie and puts them into the request context. Requests without a valid
// cookie pass through as anonymous.
func (s *Server) authUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("remember_token")
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.FindUserByRemember(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth assumes that the authUser middleware has already run.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			s.respond(w, http.StatusUnauthorized, errorResponse{
				Errors: []string{"You must be logged in to perform that action."},
			})
			return
		}
		next.ServeHTTP(w, r)
	}
}
