package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"goNetwork/domain"
	"goNetwork/errs"
)

func (s *Server) registerProfileRoutes(r *mux.Router) {
	// Get the profile data of a specific user.
	r.HandleFunc("/profile/{user_id:[0-9]+}", s.requireAuth(s.handleGetProfile)).Methods("GET")
}

// profileResponse is the envelope of a profile page: the user's name, one
// page of their posts, their follower and followee counts, and whether the
// active user follows them.
type profileResponse struct {
	UserName          string                 `json:"userName"`
	UserPosts         []domain.AnnotatedPost `json:"userPosts"`
	NumFollowers      int                    `json:"numFollowers"`
	NumFollows        int                    `json:"numFollows"`
	ActiveUserFollows bool                   `json:"activeUserFollows"`
	ActiveUser        string                 `json:"activeUser"`
}

// handleGetProfile handles the route "GET /profile/{user_id}?page=N".
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userId, err := strconv.Atoi(mux.Vars(r)["user_id"])
	if userId <= 0 || err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user, err := s.us.ByID(userId)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	authedUser := s.getUserFromContext(r.Context())

	feed, err := s.feed.GetFeed(domain.SingleUser(user.ID), authedUser, pageParam(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	numFollowers, err := s.fs.FollowerCount(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	numFollows, err := s.fs.FolloweeCount(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	activeUserFollows, err := s.fs.IsFollowing(authedUser.ID, user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	response := profileResponse{
		UserName:          user.Username,
		UserPosts:         feed.Posts,
		NumFollowers:      numFollowers,
		NumFollows:        numFollows,
		ActiveUserFollows: activeUserFollows,
		ActiveUser:        authedUser.Username,
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
		return
	}
}
