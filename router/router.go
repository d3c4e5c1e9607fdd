// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/sayso/cliparse"
	"github.com/danielhkuo/sayso/compat"
	"github.com/danielhkuo/sayso/handlers"
	"github.com/danielhkuo/sayso/middleware"
	"github.com/danielhkuo/sayso/notify"
	"github.com/danielhkuo/sayso/store"
	"github.com/danielhkuo/sayso/visibility"
	"github.com/danielhkuo/sayso/vote"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, dispatcher *notify.Dispatcher) *http.ServeMux {
	mux := http.NewServeMux()

	// Wire the core components
	st := store.New(db)
	resolver := visibility.NewResolver(st, cfg.AIPersonaID, cfg.AIPersonaName)
	engine := compat.NewEngine(db, cfg.AIPersonaID)
	svc := vote.NewService(st, dispatcher, cfg.AIPersonaID)

	questionHandler := handlers.NewQuestionHandler(st)
	votingHandler := handlers.NewVotingHandler(svc, st)
	resultsHandler := handlers.NewResultsHandler(st, resolver)
	compatHandler := handlers.NewCompatHandler(engine)
	profileHandler := handlers.NewProfileHandler(st, dispatcher)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Question lifecycle
	mux.HandleFunc("POST /questions", middleware.WithLogging(questionHandler.CreateQuestion))
	mux.HandleFunc("GET /questions/{id}", middleware.WithLogging(questionHandler.GetQuestion))
	mux.HandleFunc("DELETE /questions/{id}", middleware.WithLogging(questionHandler.DeleteQuestion))
	mux.HandleFunc("POST /questions/{id}/reconcile", middleware.WithLogging(questionHandler.Reconcile))

	// Voting
	mux.HandleFunc("POST /questions/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("DELETE /questions/{id}/votes", middleware.WithLogging(votingHandler.RetractVote))
	mux.HandleFunc("GET /questions/{id}/my-vote", middleware.WithLogging(votingHandler.GetMyVote))

	// Aggregates and voter lists
	mux.HandleFunc("GET /questions/{id}/aggregate", middleware.WithLogging(resultsHandler.GetAggregate))
	mux.HandleFunc("GET /questions/{id}/voters", middleware.WithLogging(resultsHandler.ListVoters))

	// Pairwise compatibility
	mux.HandleFunc("GET /compat/{a}/{b}", middleware.WithLogging(compatHandler.GetCompatibility))
	mux.HandleFunc("GET /compat/{a}/{b}/common-ground", middleware.WithLogging(compatHandler.GetCommonGround))
	mux.HandleFunc("GET /compat/{a}/{b}/divergence", middleware.WithLogging(compatHandler.GetDivergence))

	// Profiles
	mux.HandleFunc("GET /profiles/{id}/history", middleware.WithLogging(profileHandler.GetTimeline))
	mux.HandleFunc("GET /profiles/{id}/stats", middleware.WithLogging(profileHandler.GetStats))
	mux.HandleFunc("POST /profiles/{id}/follow", middleware.WithLogging(profileHandler.Follow))
	mux.HandleFunc("DELETE /profiles/{id}/follow", middleware.WithLogging(profileHandler.Unfollow))
	mux.HandleFunc("PUT /profiles/{id}", middleware.WithLogging(profileHandler.UpsertProfile))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("sayso API v1"))
	})

	return mux
}
