package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"goNetwork/domain"
	"goNetwork/errs"
)

func (s *Server) registerOAuthRoutes(r *mux.Router) {
	r.HandleFunc("/oauth/github", s.handleGithubLogin).Methods("GET")
	r.HandleFunc("/oauth/github/callback", s.handleGithubCallback).Methods("GET")
}

// handleGithubLogin handles the route "GET /oauth/github".
// It sends the client off to GitHub's authorization page, with a random
// state value stored in a short-lived cookie for the callback to verify.
func (s *Server) handleGithubLogin(w http.ResponseWriter, r *http.Request) {
	state, err := s.us.MakeRememberToken()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		MaxAge:   300,
		HttpOnly: true,
	})
	http.Redirect(w, r, s.github.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// githubUser is the subset of GitHub's user payload this app needs.
type githubUser struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

// handleGithubCallback handles the route "GET /oauth/github/callback".
// It exchanges the authorization code for a token, fetches the GitHub user,
// finds or creates the matching local User and OAuth records, and signs the
// user in.
func (s *Server) handleGithubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != r.URL.Query().Get("state") {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid oauth state."))
		return
	}

	token, err := s.github.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "The authorization code was rejected."))
		return
	}

	// Fetch the user's GitHub identity with the fresh token.
	client := s.github.Client(r.Context(), token)
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer resp.Body.Close()
	var ghUser githubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user, err := s.userForGithubIdentity(&ghUser)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.signIn(w, user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/feed", http.StatusFound)
}

// userForGithubIdentity resolves a GitHub identity to a local user,
// registering a new one on first sign-in.
func (s *Server) userForGithubIdentity(ghUser *githubUser) (*domain.User, error) {
	providerUserId := strconv.Itoa(ghUser.ID)

	oauth, err := s.os.ByProviderUserID(domain.OAuthProviderGithub, providerUserId)
	if err == nil {
		return s.us.ByID(oauth.UserID)
	}
	if errs.ErrorCode(err) != errs.ENOTFOUND {
		return nil, err
	}

	// First sign-in through GitHub, register the user. They get a random
	// password, signing in with credentials stays possible via a reset.
	password, err := s.us.MakeRememberToken()
	if err != nil {
		return nil, err
	}
	email := ghUser.Email
	if email == "" {
		email = fmt.Sprintf("%s@users.noreply.github.com", ghUser.Login)
	}
	user := &domain.User{
		Username: ghUser.Login,
		Email:    email,
		Password: password,
	}
	if err := s.us.Create(user); err != nil {
		// The plain login may collide with an existing local name.
		if errs.ErrorCode(err) != errs.EINVALID {
			return nil, err
		}
		user.Username = fmt.Sprintf("%s-%s", ghUser.Login, providerUserId)
		user.Password = password
		if err := s.us.Create(user); err != nil {
			return nil, err
		}
	}

	err = s.os.Create(&domain.OAuth{
		UserID:         user.ID,
		Provider:       domain.OAuthProviderGithub,
		ProviderUserID: providerUserId,
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
