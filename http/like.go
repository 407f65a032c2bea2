package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"goNetwork/domain"
	"goNetwork/errs"
)

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Create a new like for a post (Like a post).
	r.HandleFunc("/posts/{id:[0-9]+}/like", s.requireAuth(s.handleCreateLike)).Methods("POST")

	// Delete an existing like of a post (Unlike a post).
	r.HandleFunc("/posts/{id:[0-9]+}/unlike", s.requireAuth(s.handleDeleteLike)).Methods("POST")
}

// likeResponse reports the post's like count after a like or unlike.
type likeResponse struct {
	LikesCount int `json:"likesCount"`
}

// handleCreateLike handles the route "POST /posts/{id}/like".
// It reads the post ID from the url and creates a new Like record in the database.
func (s *Server) handleCreateLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := s.getUserFromContext(r.Context())
	like := domain.Like{
		UserID: user.ID,
		PostID: id,
	}

	if err := s.ls.Create(&like); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	likesCount, err := s.ls.CountByPost(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&likeResponse{LikesCount: likesCount}); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleDeleteLike handles the route "POST /posts/{id}/unlike".
// It reads the post ID from the url and permanently deletes the authed
// user's like record on that post.
func (s *Server) handleDeleteLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := s.getUserFromContext(r.Context())
	like := domain.Like{
		UserID: user.ID,
		PostID: id,
	}

	if err := s.ls.Delete(&like); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	likesCount, err := s.ls.CountByPost(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&likeResponse{LikesCount: likesCount}); err != nil {
		errs.LogError(r, err)
		return
	}
}
