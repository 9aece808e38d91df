package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ourApp/auth"
	"ourApp/domain"
	"ourApp/errs"
)

func (s *Server) registerPostRoutes(r *mux.Router) {
	r.HandleFunc("/post", s.requireAuth(s.handleCreatePost)).Methods("POST")
	r.HandleFunc("/post/{id}", s.handleViewPost).Methods("GET")
	r.HandleFunc("/post/{id}", s.requireAuth(s.handleUpdatePost)).Methods("PATCH")
	r.HandleFunc("/post/{id}", s.requireAuth(s.handleDeletePost)).Methods("DELETE")
	r.HandleFunc("/search", s.handleSearchPosts).Methods("POST")
	r.HandleFunc("/feed", s.requireAuth(s.handleFeed)).Methods("GET")
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in domain.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.error(w, r, errs.Errorf(errs.EINVALID, "The request body is not valid JSON."))
		return
	}
	user := auth.GetUser(r.Context())
	id, err := s.ps.CreatePost(in, user.ID)
	if err != nil {
		s.error(w, r, err)
		return
	}
	post, err := s.ps.FindPostByID(strconv.Itoa(id), user.ID)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, post)
}

func (s *Server) handleViewPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.ps.FindPostByID(mux.Vars(r)["id"], auth.VisitorID(r.Context()))
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var in domain.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.error(w, r, errs.Errorf(errs.EINVALID, "The request body is not valid JSON."))
		return
	}
	id := mux.Vars(r)["id"]
	visitorID := auth.VisitorID(r.Context())
	if err := s.ps.UpdatePost(id, visitorID, in); err != nil {
		s.error(w, r, err)
		return
	}
	post, err := s.ps.FindPostByID(id, visitorID)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	err := s.ps.DeletePost(mux.Vars(r)["id"], auth.VisitorID(r.Context()))
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"message": "Post successfully deleted!"})
}

func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SearchTerm string `json:"searchTerm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.error(w, r, errs.Errorf(errs.EINVALID, "The request body is not valid JSON."))
		return
	}
	posts, err := s.ps.SearchPosts(body.SearchTerm)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, posts)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	posts, err := s.ps.GetFeed(user.ID)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, posts)
}
