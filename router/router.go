// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/handlers"
	"github.com/danielhkuo/quickly-survey/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	testHandler := handlers.NewTestHandler(db, cfg)
	shareHandler := handlers.NewShareHandler(db, cfg)
	publicHandler := handlers.NewPublicHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	admin := middleware.RequireAdmin(authHandler)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Sessions
	mux.HandleFunc("POST /auth/sign-in", middleware.WithLogging(authHandler.SignIn))
	mux.HandleFunc("POST /auth/sign-out", middleware.WithLogging(authHandler.SignOut))
	mux.HandleFunc("GET /auth/session", middleware.WithLogging(authHandler.Session))

	// Test authoring (admin)
	mux.HandleFunc("GET /admin/tests", middleware.WithLogging(admin(testHandler.ListTests)))
	mux.HandleFunc("POST /admin/tests", middleware.WithLogging(admin(testHandler.CreateTest)))
	mux.HandleFunc("GET /admin/tests/{slug}", middleware.WithLogging(admin(testHandler.GetTest)))
	mux.HandleFunc("PATCH /admin/tests/{slug}", middleware.WithLogging(admin(testHandler.UpdateTest)))
	mux.HandleFunc("DELETE /admin/tests/{slug}", middleware.WithLogging(admin(testHandler.DeleteTest)))
	mux.HandleFunc("POST /admin/tests/{slug}/versions", middleware.WithLogging(admin(testHandler.CreateVersion)))
	mux.HandleFunc("POST /admin/tests/{slug}/publish", middleware.WithLogging(admin(testHandler.PublishTest)))

	// Sharing (admin)
	mux.HandleFunc("GET /admin/tests/{slug}/share", middleware.WithLogging(admin(shareHandler.GetShare)))
	mux.HandleFunc("PATCH /admin/tests/{slug}/share", middleware.WithLogging(admin(shareHandler.SetShareActive)))
	mux.HandleFunc("GET /admin/tests/{slug}/share/qr.png", middleware.WithLogging(admin(shareHandler.GetShareQR)))

	// Results (admin)
	mux.HandleFunc("GET /admin/tests/{slug}/stats", middleware.WithLogging(admin(resultsHandler.GetStats)))
	mux.HandleFunc("GET /admin/tests/{slug}/stats/export.csv", middleware.WithLogging(admin(resultsHandler.ExportCSV)))
	mux.HandleFunc("GET /admin/tests/{slug}/submissions", middleware.WithLogging(admin(resultsHandler.ListSubmissions)))
	mux.HandleFunc("GET /admin/tests/{slug}/submissions/{id}", middleware.WithLogging(admin(resultsHandler.GetSubmission)))

	// Participant surface (public)
	mux.HandleFunc("GET /t/{public_id}", middleware.WithLogging(publicHandler.GetPublicTest))
	mux.HandleFunc("POST /t/{public_id}/submissions", middleware.WithLogging(publicHandler.Submit))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-survey API v1"))
	})

	return mux
}
