// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/sayso/middleware"
	"github.com/danielhkuo/sayso/models"
	"github.com/danielhkuo/sayso/store"
)

type QuestionHandler struct {
	store *store.Store
}

func NewQuestionHandler(st *store.Store) *QuestionHandler {
	return &QuestionHandler{store: st}
}

// CreateQuestion handles POST /questions
func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	q, err := h.store.CreateQuestion(req)
	if err != nil {
		slog.Error("failed to create question", "error", err)
		writeDomainError(w, err)
		return
	}

	slog.Info("question created", "question_id", q.ID)
	middleware.JSONResponse(w, http.StatusCreated, models.CreateQuestionResponse{QuestionID: q.ID})
}

// GetQuestion handles GET /questions/{id}
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	q, err := h.store.GetQuestion(questionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Anonymous authorship hides the creator from everyone but the creator
	if q.AuthorAnonymous && headerUserID(r) != deref(q.CreatorID) {
		q.CreatorID = nil
	}

	middleware.JSONResponse(w, http.StatusOK, q)
}

// DeleteQuestion handles DELETE /questions/{id}. The requester is
// identified by the X-User-ID header supplied by the session layer.
func (h *QuestionHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	requester := headerUserID(r)
	if requester == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-User-ID header required")
		return
	}

	if err := h.store.DeleteQuestion(questionID, requester); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("question deleted", "question_id", questionID, "requester", requester)
	w.WriteHeader(http.StatusNoContent)
}

// Reconcile handles POST /questions/{id}/reconcile: recompute the aggregate
// from raw vote rows and correct any drift.
func (h *QuestionHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	agg, err := h.store.ReconcileAggregate(questionID)
	if err != nil {
		slog.Error("failed to reconcile aggregate", "error", err, "question_id", questionID)
		writeDomainError(w, err)
		return
	}

	slog.Info("aggregate reconciled", "question_id", questionID, "total_votes", agg.TotalVotes)
	middleware.JSONResponse(w, http.StatusOK, agg)
}

func headerUserID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
