// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"time"

	"github.com/danielhkuo/sayso/models"
)

// ListHistory returns a voter's transition log, newest first, capped at
// limit entries.
func (s *Store) ListHistory(voterID string, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, voter_id, question_id, previous_value, new_value, changed_at
		FROM vote_history
		WHERE voter_id = $1
		ORDER BY changed_at DESC
		LIMIT $2
	`, voterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.VoterID, &e.QuestionID, &e.PreviousValue, &e.NewValue, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListPublicHistory is ListHistory restricted to questions where the voter's
// current vote is public. Served to viewers other than the voter so an
// anonymous position never leaks through the timeline.
func (s *Store) ListPublicHistory(voterID string, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT h.id, h.voter_id, h.question_id, h.previous_value, h.new_value, h.changed_at
		FROM vote_history h
		JOIN vote v ON v.voter_id = h.voter_id AND v.question_id = h.question_id
		WHERE h.voter_id = $1 AND v.is_anonymous = FALSE
		ORDER BY h.changed_at DESC
		LIMIT $2
	`, voterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query public history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.VoterID, &e.QuestionID, &e.PreviousValue, &e.NewValue, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MindChanges counts genuine revotes: transitions with both a previous and a
// new value. Initial votes and retractions are excluded.
func (s *Store) MindChanges(voterID string) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM vote_history
		WHERE voter_id = $1 AND previous_value IS NOT NULL AND new_value IS NOT NULL
	`, voterID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count mind changes: %w", err)
	}
	return n, nil
}

// Streak computes the voter's consecutive-day voting streak at the day
// boundary of loc. Any history entry counts as activity for its day. A day
// with no activity ends the streak; a streak whose last activity is before
// yesterday is 0.
func (s *Store) Streak(voterID string, now time.Time, loc *time.Location) (int, error) {
	rows, err := s.db.Query(`
		SELECT changed_at FROM vote_history
		WHERE voter_id = $1
		ORDER BY changed_at DESC
	`, voterID)
	if err != nil {
		return 0, fmt.Errorf("failed to query history for streak: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return 0, fmt.Errorf("failed to scan history timestamp: %w", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	return ComputeStreak(times, now, loc), nil
}

// ComputeStreak reduces activity timestamps to a consecutive-day streak
// ending today or yesterday in loc.
func ComputeStreak(activity []time.Time, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}

	days := make(map[time.Time]bool, len(activity))
	for _, t := range activity {
		days[dayOf(t, loc)] = true
	}
	if len(days) == 0 {
		return 0
	}

	day := dayOf(now, loc)
	if !days[day] {
		// A streak survives until the end of the day after its last activity.
		day = day.AddDate(0, 0, -1)
		if !days[day] {
			return 0
		}
	}

	streak := 0
	for days[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
