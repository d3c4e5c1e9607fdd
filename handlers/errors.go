// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/sayso/middleware"
	"github.com/danielhkuo/sayso/models"
)

// writeDomainError maps core sentinel errors onto HTTP status and API error
// codes. Anything unrecognized is a 500 with no detail leaked.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrQuestionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
	case errors.Is(err, models.ErrExpiredPoll):
		middleware.ErrorResponseCode(w, http.StatusConflict, models.CodeExpiredPoll, "Question is closed")
	case errors.Is(err, models.ErrAnonymityConflict):
		middleware.ErrorResponseCode(w, http.StatusBadRequest, models.CodeAnonymityConflict, err.Error())
	case errors.Is(err, models.ErrInvalidValue), errors.Is(err, models.ErrInvalidKind),
		errors.Is(err, models.ErrQuestionTooLong):
		middleware.ErrorResponseCode(w, http.StatusBadRequest, models.CodeInvalidValue, err.Error())
	case errors.Is(err, models.ErrNotCreator):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrConflict):
		// The vote did not commit; the client should try again
		middleware.ErrorResponseCode(w, http.StatusServiceUnavailable, models.CodeConflict, "Try again")
	default:
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
