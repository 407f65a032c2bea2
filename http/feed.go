package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"goNetwork/domain"
	"goNetwork/errs"
)

func (s *Server) registerFeedRoutes(r *mux.Router) {
	r.HandleFunc("/feed", s.requireAuth(s.handleGetFeed)).Methods("GET")
}

// handleGetFeed handles the route "GET /feed?following={true|false}&page=N".
// With following=true the audience is the set of users the requester
// follows, otherwise it's everyone.
func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())

	audience := domain.Everyone()
	if r.URL.Query().Get("following") == "true" {
		followees, err := s.fs.Followees(user.ID)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		audience = domain.UserSet(followees)
	}

	feed, err := s.feed.GetFeed(audience, user, pageParam(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(feed); err != nil {
		errs.LogError(r, err)
		return
	}
}

// pageParam reads the 1-indexed page number from the query string.
// Absent, non-numeric or non-positive values all mean page 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
