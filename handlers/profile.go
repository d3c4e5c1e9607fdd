// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/sayso/middleware"
	"github.com/danielhkuo/sayso/models"
	"github.com/danielhkuo/sayso/notify"
	"github.com/danielhkuo/sayso/store"
)

type ProfileHandler struct {
	store      *store.Store
	dispatcher *notify.Dispatcher
}

func NewProfileHandler(st *store.Store, d *notify.Dispatcher) *ProfileHandler {
	return &ProfileHandler{store: st, dispatcher: d}
}

// GetTimeline handles GET /profiles/{id}/history: the voter's transition
// log, newest first, with humanized timestamps for display. The voter sees
// their full log; every other viewer gets only entries for questions where
// the voter's current vote is public.
func (h *ProfileHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	var entries []models.HistoryEntry
	var err error
	if r.URL.Query().Get("viewer_id") == userID {
		entries, err = h.store.ListHistory(userID, limit)
	} else {
		entries, err = h.store.ListPublicHistory(userID, limit)
	}
	if err != nil {
		slog.Error("failed to list history", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.TimelineResponse{Entries: []models.TimelineEntry{}}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, models.TimelineEntry{
			QuestionID:    e.QuestionID,
			PreviousValue: e.PreviousValue,
			NewValue:      e.NewValue,
			ChangedAt:     e.ChangedAt.Format(time.RFC3339),
			When:          humanize.Time(e.ChangedAt),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetStats handles GET /profiles/{id}/stats: the "changed my mind N times"
// count and the day-level voting streak. The streak day boundary follows
// the voter's timezone, passed as ?tz= (IANA name); UTC when absent.
func (h *ProfileHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid tz")
			return
		}
		loc = l
	}

	changes, err := h.store.MindChanges(userID)
	if err != nil {
		slog.Error("failed to count mind changes", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	streak, err := h.store.Streak(userID, time.Now(), loc)
	if err != nil {
		slog.Error("failed to compute streak", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatsResponse{
		MindChanges: changes,
		StreakDays:  streak,
	})
}

// Follow handles POST /profiles/{id}/follow
func (h *ProfileHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followeeID := r.PathValue("id")
	if followeeID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.FollowRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.FollowerID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "follower_id is required")
		return
	}
	if req.FollowerID == followeeID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "cannot follow yourself")
		return
	}

	if err := h.store.AddFollow(req.FollowerID, followeeID); err != nil {
		slog.Error("failed to add follow", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.dispatcher.Enqueue(notify.Event{
		Kind:       notify.KindFollow,
		ActorID:    req.FollowerID,
		Recipients: []string{followeeID},
	})

	w.WriteHeader(http.StatusNoContent)
}

// Unfollow handles DELETE /profiles/{id}/follow
func (h *ProfileHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followeeID := r.PathValue("id")
	if followeeID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}
	followerID := r.URL.Query().Get("follower_id")
	if followerID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "follower_id is required")
		return
	}

	if err := h.store.RemoveFollow(followerID, followeeID); err != nil {
		slog.Error("failed to remove follow", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpsertProfile handles PUT /profiles/{id}: the identity service pushes
// display names here so public voters can be rendered without a network
// call on the read path.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.UpsertProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.DisplayName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name is required")
		return
	}

	if err := h.store.UpsertProfile(userID, req.DisplayName); err != nil {
		slog.Error("failed to upsert profile", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
