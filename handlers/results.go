// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/sayso/middleware"
	"github.com/danielhkuo/sayso/store"
	"github.com/danielhkuo/sayso/visibility"
)

type ResultsHandler struct {
	store    *store.Store
	resolver *visibility.Resolver
}

func NewResultsHandler(st *store.Store, res *visibility.Resolver) *ResultsHandler {
	return &ResultsHandler{store: st, resolver: res}
}

// GetAggregate handles GET /questions/{id}/aggregate
func (h *ResultsHandler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	agg, err := h.store.GetAggregate(questionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, agg)
}

// ListVoters handles GET /questions/{id}/voters. Every vote passes through
// the visibility resolver: anonymous voters appear only in the per-option
// counts unless the viewer is the voter.
func (h *ResultsHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}
	viewerID := r.URL.Query().Get("viewer_id")

	if _, err := h.store.GetQuestion(questionID); err != nil {
		writeDomainError(w, err)
		return
	}

	votes, err := h.store.ListVotesForQuestion(questionID)
	if err != nil {
		slog.Error("failed to list votes", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.resolver.VisibleVoters(votes, viewerID))
}
