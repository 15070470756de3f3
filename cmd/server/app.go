package main

import (
	"net/http"

	"github.com/graphql-go/handler"
	"gorm.io/gorm"

	"github.com/diewo77/go-users/internal/auth"
	"github.com/diewo77/go-users/internal/config"
	gql "github.com/diewo77/go-users/internal/graphql"
	"github.com/diewo77/go-users/internal/httpx"
	"github.com/diewo77/go-users/internal/services"
)

// App is the main application handler wiring the GraphQL endpoint.
type App struct {
	handler http.Handler
	db      *gorm.DB
}

// NewApp builds the services, the executable schema and the routes.
// The authorization middleware is composed once, around the whole mux.
func NewApp(dbConn *gorm.DB, cfg config.Config) (*App, error) {
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	profileSvc := services.NewProfileService(dbConn)
	userSvc := services.NewUserService(dbConn, services.NewBcryptHasher(), tokens, profileSvc)

	schema, err := gql.New(userSvc, profileSvc)
	if err != nil {
		return nil, err
	}

	app := &App{db: dbConn}
	mux := http.NewServeMux()
	mux.Handle("/graphql", handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   cfg.App.Dev,
		GraphiQL: cfg.App.Dev,
	}))
	mux.HandleFunc("GET /healthz", app.healthz)
	app.handler = auth.Middleware(tokens)(mux)
	return app, nil
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.db.DB()
	if err != nil || sqlDB.PingContext(r.Context()) != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "database_unreachable")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
