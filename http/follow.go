package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"goNetwork/domain"
	"goNetwork/errs"
)

func (s *Server) registerFollowRoutes(r *mux.Router) {
	r.HandleFunc("/users/{id:[0-9]+}/follow", s.requireAuth(s.handleCreateFollow)).Methods("POST")
	r.HandleFunc("/users/{id:[0-9]+}/unfollow", s.requireAuth(s.handleDeleteFollow)).Methods("POST")
}

// followResponse reports the follow state and the target's follower count
// after a follow or unfollow.
type followResponse struct {
	ActiveUserFollows bool `json:"activeUserFollows"`
	FollowerCount     int  `json:"followerCount"`
}

// handleCreateFollow handles the route "POST /users/{id}/follow".
// It creates a Follow edge from the authed user to the user in the url.
func (s *Server) handleCreateFollow(w http.ResponseWriter, r *http.Request) {
	followedId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	follower := s.getUserFromContext(r.Context())
	follow := domain.Follow{
		FollowerID: follower.ID,
		FollowedID: followedId,
	}

	if err := s.fs.Create(&follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	followerCount, err := s.fs.FollowerCount(followedId)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	response := followResponse{ActiveUserFollows: true, FollowerCount: followerCount}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleDeleteFollow handles the route "POST /users/{id}/unfollow".
// It deletes the Follow edge from the authed user to the user in the url.
func (s *Server) handleDeleteFollow(w http.ResponseWriter, r *http.Request) {
	followedId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	follower := s.getUserFromContext(r.Context())
	follow := domain.Follow{
		FollowerID: follower.ID,
		FollowedID: followedId,
	}

	if err := s.fs.Delete(&follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	followerCount, err := s.fs.FollowerCount(followedId)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	response := followResponse{ActiveUserFollows: false, FollowerCount: followerCount}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
		return
	}
}
