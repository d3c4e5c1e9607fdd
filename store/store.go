// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/danielhkuo/sayso/models"
)

// MaxQuestionRunes is the upper bound on question text length, counted in
// code points rather than bytes.
const MaxQuestionRunes = 280

// Store wraps the durable tables: questions with their denormalized
// aggregate, current votes, the append-only transition log, the follow
// graph, and the profile projection.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateQuestion inserts a new question with a zeroed aggregate.
func (s *Store) CreateQuestion(req models.CreateQuestionRequest) (models.Question, error) {
	text := req.Text
	if text == "" {
		return models.Question{}, fmt.Errorf("%w: text is required", models.ErrInvalidValue)
	}
	if utf8.RuneCountInString(text) > MaxQuestionRunes {
		return models.Question{}, models.ErrQuestionTooLong
	}

	q := models.Question{
		ID:              uuid.NewString(),
		Text:            text,
		CreatorID:       req.CreatorID,
		AuthorAnonymous: req.AuthorAnonymous,
		ExpiresAt:       req.ExpiresAt,
		CreatedAt:       time.Now().UTC(),
	}

	_, err := s.db.Exec(`
		INSERT INTO question (id, text, creator_id, author_anonymous, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, q.ID, q.Text, q.CreatorID, q.AuthorAnonymous, q.ExpiresAt, q.CreatedAt)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to insert question: %w", err)
	}

	return q, nil
}

// GetQuestion loads a question including its aggregate.
// Returns models.ErrQuestionNotFound when no row exists.
func (s *Store) GetQuestion(questionID string) (models.Question, error) {
	var q models.Question
	err := s.db.QueryRow(`
		SELECT id, text, creator_id, author_anonymous, expires_at, created_at,
		       yes_count, no_count, unsure_count, total_votes, yes_pct, no_pct, unsure_pct
		FROM question WHERE id = $1
	`, questionID).Scan(
		&q.ID, &q.Text, &q.CreatorID, &q.AuthorAnonymous, &q.ExpiresAt, &q.CreatedAt,
		&q.Aggregate.YesCount, &q.Aggregate.NoCount, &q.Aggregate.UnsureCount,
		&q.Aggregate.TotalVotes, &q.Aggregate.YesPct, &q.Aggregate.NoPct, &q.Aggregate.UnsurePct,
	)
	if err == sql.ErrNoRows {
		return models.Question{}, models.ErrQuestionNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question: %w", err)
	}
	return q, nil
}

// GetAggregate loads just the denormalized tally for a question.
func (s *Store) GetAggregate(questionID string) (models.Aggregate, error) {
	var a models.Aggregate
	err := s.db.QueryRow(`
		SELECT yes_count, no_count, unsure_count, total_votes, yes_pct, no_pct, unsure_pct
		FROM question WHERE id = $1
	`, questionID).Scan(
		&a.YesCount, &a.NoCount, &a.UnsureCount, &a.TotalVotes,
		&a.YesPct, &a.NoPct, &a.UnsurePct,
	)
	if err == sql.ErrNoRows {
		return models.Aggregate{}, models.ErrQuestionNotFound
	}
	if err != nil {
		return models.Aggregate{}, fmt.Errorf("failed to query aggregate: %w", err)
	}
	return a, nil
}

// DeleteQuestion removes a question and (via cascade) its votes. Only the
// creator may delete; system-authored questions have no creator and cannot
// be deleted through this path.
func (s *Store) DeleteQuestion(questionID, requesterID string) error {
	q, err := s.GetQuestion(questionID)
	if err != nil {
		return err
	}
	if q.CreatorID == nil || *q.CreatorID != requesterID {
		return models.ErrNotCreator
	}

	if _, err := s.db.Exec(`DELETE FROM question WHERE id = $1`, questionID); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

// GetVote returns the voter's current vote on a question, or nil when the
// voter has no current vote.
func (s *Store) GetVote(voterID, questionID, voterKind string) (*models.Vote, error) {
	var v models.Vote
	err := s.db.QueryRow(`
		SELECT voter_id, question_id, voter_kind, value, is_anonymous, reasoning, updated_at
		FROM vote WHERE voter_id = $1 AND question_id = $2 AND voter_kind = $3
	`, voterID, questionID, voterKind).Scan(
		&v.VoterID, &v.QuestionID, &v.VoterKind, &v.Value, &v.IsAnonymous, &v.Reasoning, &v.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vote: %w", err)
	}
	return &v, nil
}

// ListVotesForQuestion returns all current votes on a question, newest first.
func (s *Store) ListVotesForQuestion(questionID string) ([]models.Vote, error) {
	rows, err := s.db.Query(`
		SELECT voter_id, question_id, voter_kind, value, is_anonymous, reasoning, updated_at
		FROM vote WHERE question_id = $1
		ORDER BY updated_at DESC
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	var votes []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.VoterID, &v.QuestionID, &v.VoterKind, &v.Value, &v.IsAnonymous, &v.Reasoning, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// Follow graph

func (s *Store) AddFollow(followerID, followeeID string) error {
	_, err := s.db.Exec(`
		INSERT INTO follow (follower_id, followee_id, created_at)
		VALUES ($1, $2, $3)
	`, followerID, followeeID, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return nil // already following
		}
		return fmt.Errorf("failed to insert follow: %w", err)
	}
	return nil
}

func (s *Store) RemoveFollow(followerID, followeeID string) error {
	_, err := s.db.Exec(`
		DELETE FROM follow WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

// ListFollowers returns the ids of users following the given user.
func (s *Store) ListFollowers(userID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT follower_id FROM follow WHERE followee_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query followers: %w", err)
	}
	defer rows.Close()

	var followers []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan follower: %w", err)
		}
		followers = append(followers, id)
	}
	return followers, rows.Err()
}

// Profile projection

// UpsertProfile records a display name pushed from the identity service.
func (s *Store) UpsertProfile(userID, displayName string) error {
	res, err := s.db.Exec(`
		UPDATE profile SET display_name = $1 WHERE user_id = $2
	`, displayName, userID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err = s.db.Exec(`
		INSERT INTO profile (user_id, display_name) VALUES ($1, $2)
	`, userID, displayName)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// DisplayName implements visibility.Directory. Unknown users fall back to
// their id so a missing profile sync never hides a public vote.
func (s *Store) DisplayName(userID string) string {
	var name string
	err := s.db.QueryRow(`
		SELECT display_name FROM profile WHERE user_id = $1
	`, userID).Scan(&name)
	if err != nil {
		return userID
	}
	return name
}
