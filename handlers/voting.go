// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/sayso/middleware"
	"github.com/danielhkuo/sayso/models"
	"github.com/danielhkuo/sayso/store"
	"github.com/danielhkuo/sayso/vote"
)

type VotingHandler struct {
	svc   *vote.Service
	store *store.Store
}

func NewVotingHandler(svc *vote.Service, st *store.Store) *VotingHandler {
	return &VotingHandler{svc: svc, store: st}
}

// CastVote handles POST /questions/{id}/votes. Resubmitting the value the
// voter already holds retracts the vote (idempotent toggle).
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.svc.Cast(questionID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("vote cast",
		"question_id", questionID,
		"voter_kind", req.VoterKind,
		"retracted", resp.Retracted,
	)
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// RetractVote handles DELETE /questions/{id}/votes
func (h *VotingHandler) RetractVote(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	voterID := r.URL.Query().Get("voter_id")
	voterKind := r.URL.Query().Get("voter_kind")
	if voterKind == "" {
		voterKind = models.KindHuman
	}

	resp, err := h.svc.Retract(questionID, voterID, voterKind)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("vote retracted", "question_id", questionID, "voter_kind", voterKind)
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetMyVote handles GET /questions/{id}/my-vote. The caller is identified
// by the X-User-ID header like the other self-scoped operations; an
// anonymous vote's value is visible here only to the session that cast it.
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	voterID := headerUserID(r)
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-User-ID header required")
		return
	}
	voterKind := r.URL.Query().Get("voter_kind")
	if voterKind == "" {
		voterKind = models.KindHuman
	}

	v, err := h.store.GetVote(voterID, questionID, voterKind)
	if err != nil {
		slog.Error("failed to query vote", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if v == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "No current vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, v)
}
