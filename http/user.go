package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"ourApp/auth"
	"ourApp/domain"
)

func (s *Server) registerProfileRoutes(r *mux.Router) {
	r.HandleFunc("/profile/{username}", s.handleProfilePosts).Methods("GET")
	r.HandleFunc("/profile/{username}/followers", s.handleProfileFollowers).Methods("GET")
	r.HandleFunc("/profile/{username}/following", s.handleProfileFollowing).Methods("GET")
}

// profileResponse carries the data shared by all three profile screens,
// plus the screen-specific payload.
type profileResponse struct {
	ProfileUsername   string `json:"profile_username"`
	ProfileAvatar     string `json:"profile_avatar"`
	IsFollowing       bool   `json:"is_following"`
	IsVisitorsProfile bool   `json:"is_visitors_profile"`
	Counts            struct {
		PostCount      int `json:"post_count"`
		FollowerCount  int `json:"follower_count"`
		FollowingCount int `json:"following_count"`
	} `json:"counts"`

	Posts     []domain.EnrichedPost `json:"posts,omitempty"`
	Followers []domain.Profile      `json:"followers,omitempty"`
	Following []domain.Profile      `json:"following,omitempty"`
}

// sharedProfileData resolves the profile user and assembles the counts and
// relationship flags every profile screen shows.
func (s *Server) sharedProfileData(r *http.Request) (*domain.User, *profileResponse, error) {
	profileUser, err := s.us.FindUserByUsername(mux.Vars(r)["username"])
	if err != nil {
		return nil, nil, err
	}
	visitorID := auth.VisitorID(r.Context())

	resp := &profileResponse{
		ProfileUsername:   profileUser.Username,
		ProfileAvatar:     profileUser.Avatar(),
		IsVisitorsProfile: visitorID != domain.AnonymousID && visitorID == profileUser.ID,
	}
	if resp.IsFollowing, err = s.fs.IsFollowing(profileUser.ID, visitorID); err != nil {
		return nil, nil, err
	}
	if resp.Counts.PostCount, err = s.ps.CountPostsByAuthor(profileUser.ID); err != nil {
		return nil, nil, err
	}
	if resp.Counts.FollowerCount, err = s.fs.CountFollowers(profileUser.ID); err != nil {
		return nil, nil, err
	}
	if resp.Counts.FollowingCount, err = s.fs.CountFollowing(profileUser.ID); err != nil {
		return nil, nil, err
	}
	return profileUser, resp, nil
}

func (s *Server) handleProfilePosts(w http.ResponseWriter, r *http.Request) {
	profileUser, resp, err := s.sharedProfileData(r)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if resp.Posts, err = s.ps.FindPostsByAuthor(profileUser.ID); err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *Server) handleProfileFollowers(w http.ResponseWriter, r *http.Request) {
	profileUser, resp, err := s.sharedProfileData(r)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if resp.Followers, err = s.fs.GetFollowers(profileUser.ID); err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *Server) handleProfileFollowing(w http.ResponseWriter, r *http.Request) {
	profileUser, resp, err := s.sharedProfileData(r)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if resp.Following, err = s.fs.GetFollowing(profileUser.ID); err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, resp)
}
