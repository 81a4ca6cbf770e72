package api

import (
	"github.com/gorilla/mux"

	"github.com/internhub/internhub/internal/auth"
	"github.com/internhub/internhub/internal/config"
	"github.com/internhub/internhub/internal/db"
	"github.com/internhub/internhub/internal/repository/sqlite"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, store auth.RefreshStore) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware(cfg.CORSOrigins))
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(database, logger)

	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	guard := NewGuard(repo, tokens)

	// Create handlers
	systemHandler := NewSystemHandler(cfg.Flags)
	authHandler := NewAuthHandler(repo, tokens, store, cfg.Flags.StatelessStrict)
	internshipsHandler := NewInternshipsHandler(repo)
	applicationsHandler := NewApplicationsHandler(repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/healthz", systemHandler.HealthHandler).Methods("GET")

	apiV2 := r.PathPrefix("/v2").Subrouter()

	// Auth endpoints
	authV2 := apiV2.PathPrefix("/auth").Subrouter()
	authV2.HandleFunc("/sign-up", authHandler.SignUp).Methods("POST")
	authV2.HandleFunc("/sign-in", authHandler.SignIn).Methods("POST")
	authV2.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")
	authV2.HandleFunc("/sign-out", authHandler.SignOut).Methods("POST")
	authV2.HandleFunc("/me", guard.WithUser(authHandler.Me)).Methods("GET")
	apiV2.HandleFunc("/users/me", guard.WithUser(authHandler.Me)).Methods("GET")

	// Internship endpoints; /me must register before /{id}
	apiV2.HandleFunc("/internships", internshipsHandler.List).Methods("GET")
	apiV2.HandleFunc("/internships/me", guard.RequireAdmin(internshipsHandler.ListMine)).Methods("GET")
	apiV2.HandleFunc("/internships", guard.RequireAdmin(internshipsHandler.Create)).Methods("POST")
	apiV2.HandleFunc("/internships/{id:[0-9]+}", internshipsHandler.Get).Methods("GET")
	apiV2.HandleFunc("/internships/{id:[0-9]+}", guard.RequireAdmin(internshipsHandler.Update)).Methods("PATCH")
	apiV2.HandleFunc("/internships/{id:[0-9]+}", guard.RequireAdmin(internshipsHandler.Delete)).Methods("DELETE")

	// Application endpoints
	apiV2.HandleFunc("/internships/{id:[0-9]+}/applications", guard.RequireStudent(applicationsHandler.Apply)).Methods("POST")
	apiV2.HandleFunc("/internships/{id:[0-9]+}/applications", guard.RequireAdmin(applicationsHandler.ListForInternship)).Methods("GET")
	apiV2.HandleFunc("/applications/me", guard.RequireStudent(applicationsHandler.ListMine)).Methods("GET")
	apiV2.HandleFunc("/applications/{id:[0-9]+}", guard.RequireAdmin(applicationsHandler.UpdateStatus)).Methods("PATCH")

	return r
}
