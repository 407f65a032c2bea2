package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"goNetwork/domain"
	"goNetwork/errs"
)

func (s *Server) registerPostRoutes(r *mux.Router) {
	// Create a new post.
	r.HandleFunc("/posts", s.requireAuth(s.handleCreatePost)).Methods("POST")

	// Edit an existing post. Only the author may do this.
	r.HandleFunc("/posts/{id:[0-9]+}/edit", s.requireAuth(s.handleEditPost)).Methods("POST")
}

// handleCreatePost handles the route "POST /posts".
// It reads the body from the json payload and creates a new Post record
// authored by the authed user. The post is visible in feed queries as soon
// as this returns.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var post domain.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r.Context())
	post.UserID = user.ID

	if err := s.ps.Create(&post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&post); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleEditPost handles the route "POST /posts/{id}/edit".
// It replaces the post's body and marks the post as edited.
func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	var payload struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	// Fetch the post from the database.
	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Check if the post belongs to the authed user.
	user := s.getUserFromContext(r.Context())
	if post.UserID != user.ID {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to edit this post."))
		return
	}

	if err := s.ps.Edit(post, payload.Body); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&post); err != nil {
		errs.LogError(r, err)
		return
	}
}
