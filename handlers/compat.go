// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/sayso/compat"
	"github.com/danielhkuo/sayso/middleware"
)

// DefaultPairLimit caps common-ground and divergence lists when the client
// does not ask for a specific size.
const DefaultPairLimit = 10

type CompatHandler struct {
	engine *compat.Engine
}

func NewCompatHandler(engine *compat.Engine) *CompatHandler {
	return &CompatHandler{engine: engine}
}

// GetCompatibility handles GET /compat/{a}/{b}
func (h *CompatHandler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userA, userB, ok := pairParams(w, r)
	if !ok {
		return
	}

	result, err := h.engine.Compute(userA, userB)
	if err != nil {
		slog.Error("failed to compute compatibility", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, result)
}

// GetCommonGround handles GET /compat/{a}/{b}/common-ground
func (h *CompatHandler) GetCommonGround(w http.ResponseWriter, r *http.Request) {
	userA, userB, ok := pairParams(w, r)
	if !ok {
		return
	}

	items, err := h.engine.CommonGround(userA, userB, limitParam(r))
	if err != nil {
		slog.Error("failed to compute common ground", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, items)
}

// GetDivergence handles GET /compat/{a}/{b}/divergence
func (h *CompatHandler) GetDivergence(w http.ResponseWriter, r *http.Request) {
	userA, userB, ok := pairParams(w, r)
	if !ok {
		return
	}

	items, err := h.engine.Divergence(userA, userB, limitParam(r))
	if err != nil {
		slog.Error("failed to compute divergence", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, items)
}

func pairParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userA := r.PathValue("a")
	userB := r.PathValue("b")
	if userA == "" || userB == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "both user ids are required")
		return "", "", false
	}
	return userA, userB, true
}

func limitParam(r *http.Request) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return DefaultPairLimit
}
