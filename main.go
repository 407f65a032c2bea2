package main

import (
	"flag"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"goNetwork/crud"
	"goNetwork/http"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	// Load configuration from a .config.json file if present, otherwise use
	// the default dev setup. In production the file is required.
	config := LoadConfig(*productionBool)

	// Set up structured logging.
	logger, err := newLogger(config.IsProd())
	must(err)
	defer logger.Sync()

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err = Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.Pepper, config.HMACKey),
		crud.WithOAuth(),
		crud.WithPost(),
		crud.WithFollow(),
		crud.WithLike(),
		crud.WithFeed(),
	)
	must(err)

	// Create an oauth config object for doing oauth with Github.
	githubOAuth := &oauth2.Config{
		ClientID:     config.Github.ID,
		ClientSecret: config.Github.Secret,
		RedirectURL:  config.Github.RedirectURL,
		Endpoint:     github.Endpoint,
	}

	// Set up a webserver.
	server := http.NewServer(config.IsProd(), config.CSRFKey, githubOAuth, services, logger)

	// Serve the app.
	server.Run(config.Port)
}

// newLogger builds the zap logger matching the environment.
func newLogger(isProd bool) (*zap.Logger, error) {
	if isProd {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
