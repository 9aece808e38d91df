package http

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"ourApp/auth"
)

func (s *Server) registerFollowRoutes(r *mux.Router) {
	r.HandleFunc("/follow/{username}", s.requireAuth(s.handleCreateFollow)).Methods("POST")
	r.HandleFunc("/unfollow/{username}", s.requireAuth(s.handleDeleteFollow)).Methods("DELETE")
}

func (s *Server) handleCreateFollow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	follower := auth.GetUser(r.Context())
	if err := s.fs.CreateFollow(username, follower.ID); err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("You are now following %s.", username),
	})
}

func (s *Server) handleDeleteFollow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	follower := auth.GetUser(r.Context())
	if err := s.fs.DeleteFollow(username, follower.ID); err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("You stopped following %s.", username),
	})
}
