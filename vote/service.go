// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/sayso/models"
	"github.com/danielhkuo/sayso/notify"
	"github.com/danielhkuo/sayso/store"
)

// Service is the public vote entry point. Per (voter, question, kind) the
// state machine is NoVote -> Voted(v) -> Voted(v') on revote, and
// Voted(v) -> NoVote when v is resubmitted (toggle) or explicitly retracted.
type Service struct {
	store      *store.Store
	dispatcher *notify.Dispatcher
	aiID       string
}

func NewService(st *store.Store, d *notify.Dispatcher, aiPersonaID string) *Service {
	return &Service{store: st, dispatcher: d, aiID: aiPersonaID}
}

// Cast validates and applies one vote request, returning the updated
// aggregate. Validation failures and expired questions reject synchronously;
// the first-vote notification fan-out is enqueued only after the transition
// has committed and can never roll it back.
func (s *Service) Cast(questionID string, req models.CastVoteRequest) (models.CastVoteResponse, error) {
	if req.VoterID == "" {
		return models.CastVoteResponse{}, fmt.Errorf("%w: voter_id is required", models.ErrInvalidValue)
	}
	if !models.ValidKind(req.VoterKind) {
		return models.CastVoteResponse{}, fmt.Errorf("%w: %q", models.ErrInvalidKind, req.VoterKind)
	}
	if !models.ValidValue(req.Value) {
		return models.CastVoteResponse{}, fmt.Errorf("%w: %q", models.ErrInvalidValue, req.Value)
	}
	if req.VoterKind == models.KindAI && req.IsAnonymous {
		return models.CastVoteResponse{}, models.ErrAnonymityConflict
	}

	// Reasoning belongs to AI votes only
	reasoning := req.Reasoning
	if req.VoterKind != models.KindAI {
		reasoning = nil
	}

	q, err := s.store.GetQuestion(questionID)
	if err != nil {
		return models.CastVoteResponse{}, err
	}
	if expired(q) {
		return models.CastVoteResponse{}, models.ErrExpiredPoll
	}

	outcome, err := s.store.ApplyVote(req.VoterID, questionID, req.VoterKind, req.Value, req.IsAnonymous, reasoning)
	if err != nil {
		return models.CastVoteResponse{}, err
	}

	if outcome.FirstVote {
		s.notifyFirstVote(q, req.VoterID, req.IsAnonymous)
	}

	return models.CastVoteResponse{
		Accepted:  true,
		Retracted: outcome.Retracted,
		Aggregate: outcome.Aggregate,
	}, nil
}

// Retract deletes the voter's current vote. Retracting on an expired
// question is rejected the same way casting is: the tally is frozen once
// the question closes.
func (s *Service) Retract(questionID, voterID, voterKind string) (models.RetractVoteResponse, error) {
	if voterID == "" {
		return models.RetractVoteResponse{}, fmt.Errorf("%w: voter_id is required", models.ErrInvalidValue)
	}
	if !models.ValidKind(voterKind) {
		return models.RetractVoteResponse{}, fmt.Errorf("%w: %q", models.ErrInvalidKind, voterKind)
	}

	q, err := s.store.GetQuestion(questionID)
	if err != nil {
		return models.RetractVoteResponse{}, err
	}
	if expired(q) {
		return models.RetractVoteResponse{}, models.ErrExpiredPoll
	}

	outcome, err := s.store.RetractVote(voterID, questionID, voterKind)
	if err != nil {
		return models.RetractVoteResponse{}, err
	}
	return models.RetractVoteResponse{Aggregate: outcome.Aggregate}, nil
}

// notifyFirstVote fans out to the question's author and the voter's
// followers. Skipped entirely for anonymous votes and when the author is
// the voter. Fire-and-forget: a failed lookup only logs.
func (s *Service) notifyFirstVote(q models.Question, voterID string, isAnonymous bool) {
	if isAnonymous {
		return
	}
	if q.CreatorID != nil && *q.CreatorID == voterID {
		return
	}

	var recipients []string
	if q.CreatorID != nil {
		recipients = append(recipients, *q.CreatorID)
	}

	followers, err := s.store.ListFollowers(voterID)
	if err != nil {
		slog.Warn("failed to list followers for fan-out", "voter_id", voterID, "error", err)
	}
	for _, f := range followers {
		if q.CreatorID != nil && f == *q.CreatorID {
			continue
		}
		if f == voterID {
			continue
		}
		recipients = append(recipients, f)
	}

	s.dispatcher.Enqueue(notify.Event{
		Kind:       notify.KindFirstVote,
		QuestionID: q.ID,
		ActorID:    voterID,
		Recipients: recipients,
	})
}

func expired(q models.Question) bool {
	return q.ExpiresAt != nil && time.Now().After(*q.ExpiresAt)
}
