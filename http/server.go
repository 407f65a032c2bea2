package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"goNetwork/crud"
	"goNetwork/domain"
	"goNetwork/errs"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router *mux.Router
	logger *zap.Logger
	us     domain.UserService
	ps     domain.PostService
	fs     domain.FollowService
	ls     domain.LikeService
	feed   domain.FeedService
	os     domain.OAuthService
	github *oauth2.Config
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
// CSRF protection is only installed when a csrfAuthKey is configured.
func NewServer(
	isProd bool,
	csrfAuthKey string,
	github *oauth2.Config,
	services *crud.Services,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
		us:     services.User,
		ps:     services.Post,
		fs:     services.Follow,
		ls:     services.Like,
		feed:   services.Feed,
		os:     services.OAuth,
		github: github,
	}

	errs.SetLogger(logger.Sugar().Errorf)

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)
	s.registerOAuthRoutes(s.router)

	// Register routes of the feed and crud system.
	s.registerFeedRoutes(s.router)
	s.registerProfileRoutes(s.router)
	s.registerPostRoutes(s.router)
	s.registerLikeRoutes(s.router)
	s.registerFollowRoutes(s.router)

	// Prometheus exposition.
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Set up middleware that needs to run on every request.
	s.router.Use(s.requestID, s.logRequest, s.recordMetrics, setContentTypeJSON)
	if csrfAuthKey != "" {
		csrfMw := csrf.Protect([]byte(csrfAuthKey), csrf.Secure(isProd), csrf.Path("/"))
		s.router.Use(csrfMw)
	}
	s.router.Use(s.authUser)

	return s
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	addr := ":" + strconv.Itoa(port)
	s.logger.Info("server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, s.router); err != nil {
		s.logger.Fatal("server stopped", zap.Error(err))
	}
}

// ServeHTTP makes the server usable anywhere an http.Handler is expected,
// most notably in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
