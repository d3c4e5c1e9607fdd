// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

// Sentinel errors for the vote path. Handlers map these to HTTP status codes
// and the API error codes below.
var (
	ErrInvalidValue      = errors.New("invalid vote value")
	ErrInvalidKind       = errors.New("invalid voter kind")
	ErrAnonymityConflict = errors.New("ai votes cannot be anonymous")
	ErrExpiredPoll       = errors.New("question has expired")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrQuestionTooLong   = errors.New("question text exceeds 280 code points")
	ErrNotCreator        = errors.New("only the creator may delete a question")
	ErrConflict          = errors.New("aggregate adjustment conflict, retries exhausted")
)

// API error codes surfaced in ErrorResponse.Code.
const (
	CodeInvalidValue      = "INVALID_VALUE"
	CodeAnonymityConflict = "VOTER_KIND_ANONYMITY_CONFLICT"
	CodeExpiredPoll       = "EXPIRED_POLL"
	CodeConflict          = "CONFLICT"
)
