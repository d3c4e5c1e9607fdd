// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package visibility

import (
	"github.com/danielhkuo/sayso/models"
)

// Directory resolves a user id to a public display name. The store's profile
// projection implements it in production; tests substitute a map.
type Directory interface {
	DisplayName(userID string) string
}

// Identity is the viewer-specific rendering of one vote's voter.
type Identity struct {
	VoterID     string
	DisplayName string
	Anonymous   bool // the "anonymous" badge shown on a self-view
}

// Resolver applies the anonymity rules for every read path that surfaces
// voter identities. Anonymity is a property of the vote, not of the UI: a
// vote hidden from a viewer here must also be absent from any derived view
// (voter lists, compatibility sets) rendered for that viewer.
type Resolver struct {
	dir    Directory
	aiID   string
	aiName string
}

func NewResolver(dir Directory, aiID, aiName string) *Resolver {
	return &Resolver{dir: dir, aiID: aiID, aiName: aiName}
}

// Resolve returns the identity to display for a vote and whether the viewer
// may see it at all. Rules, in order: AI votes are always the persona and
// never anonymous; public votes show the voter's profile; anonymous votes
// are disclosed only to their own voter, badged; everyone else sees nothing
// beyond the per-option anonymous count.
func (r *Resolver) Resolve(vote models.Vote, viewerID string) (Identity, bool) {
	if vote.VoterKind == models.KindAI {
		return Identity{VoterID: vote.VoterID, DisplayName: r.aiName}, true
	}
	if !vote.IsAnonymous {
		return Identity{VoterID: vote.VoterID, DisplayName: r.dir.DisplayName(vote.VoterID)}, true
	}
	if viewerID == vote.VoterID {
		return Identity{VoterID: vote.VoterID, DisplayName: r.dir.DisplayName(vote.VoterID), Anonymous: true}, true
	}
	return Identity{}, false
}

// VisibleVoters folds a question's votes into the named list and anonymous
// counts the given viewer is allowed to see.
func (r *Resolver) VisibleVoters(votes []models.Vote, viewerID string) models.VotersResponse {
	resp := models.VotersResponse{NamedVoters: []models.NamedVoter{}}
	for _, v := range votes {
		id, disclosed := r.Resolve(v, viewerID)
		if !disclosed {
			switch v.Value {
			case models.VoteYes:
				resp.AnonymousCounts.Yes++
			case models.VoteNo:
				resp.AnonymousCounts.No++
			case models.VoteUnsure:
				resp.AnonymousCounts.Unsure++
			}
			continue
		}
		resp.NamedVoters = append(resp.NamedVoters, models.NamedVoter{
			VoterID:     v.VoterID,
			DisplayName: id.DisplayName,
			VoterKind:   v.VoterKind,
			Value:       v.Value,
			Reasoning:   v.Reasoning,
			Anonymous:   id.Anonymous,
		})
	}
	return resp
}
