package models

import "time"

// Vote value constants
const (
	VoteYes    = "yes"
	VoteNo     = "no"
	VoteUnsure = "unsure"
)

// Voter kind constants
const (
	KindHuman = "human"
	KindAI    = "ai"
)

// ValidValue reports whether v is one of the three vote values.
func ValidValue(v string) bool {
	return v == VoteYes || v == VoteNo || v == VoteUnsure
}

// ValidKind reports whether k is a known voter kind.
func ValidKind(k string) bool {
	return k == KindHuman || k == KindAI
}

// Request types

type CreateQuestionRequest struct {
	Text            string     `json:"text"`
	CreatorID       *string    `json:"creator_id,omitempty"`
	AuthorAnonymous bool       `json:"author_anonymous"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

type CastVoteRequest struct {
	VoterID     string  `json:"voter_id"`
	VoterKind   string  `json:"voter_kind"`
	Value       string  `json:"value"`
	IsAnonymous bool    `json:"is_anonymous"`
	Reasoning   *string `json:"reasoning,omitempty"`
}

type FollowRequest struct {
	FollowerID string `json:"follower_id"`
}

type UpsertProfileRequest struct {
	DisplayName string `json:"display_name"`
}

// Response types

type CreateQuestionResponse struct {
	QuestionID string `json:"question_id"`
}

type CastVoteResponse struct {
	Accepted  bool      `json:"accepted"`
	Retracted bool      `json:"retracted"`
	Aggregate Aggregate `json:"aggregate"`
}

type RetractVoteResponse struct {
	Aggregate Aggregate `json:"aggregate"`
}

type VotersResponse struct {
	NamedVoters     []NamedVoter `json:"named_voters"`
	AnonymousCounts OptionCounts `json:"anonymous_counts"`
}

type StatsResponse struct {
	MindChanges int `json:"mind_changes"`
	StreakDays  int `json:"streak_days"`
}

type TimelineEntry struct {
	QuestionID    string  `json:"question_id"`
	PreviousValue *string `json:"previous_value,omitempty"`
	NewValue      *string `json:"new_value,omitempty"`
	ChangedAt     string  `json:"changed_at"`
	When          string  `json:"when"`
}

type TimelineResponse struct {
	Entries []TimelineEntry `json:"entries"`
}

// Domain types

// Aggregate is the denormalized per-question tally. The three counts always
// sum to TotalVotes, and the three percentages sum to exactly 100 whenever
// TotalVotes > 0 (the remainder of rounding lands on UnsurePct).
type Aggregate struct {
	YesCount    int `json:"yes_count"`
	NoCount     int `json:"no_count"`
	UnsureCount int `json:"unsure_count"`
	TotalVotes  int `json:"total_votes"`
	YesPct      int `json:"yes_pct"`
	NoPct       int `json:"no_pct"`
	UnsurePct   int `json:"unsure_pct"`
}

type Question struct {
	ID              string     `json:"id"`
	Text            string     `json:"text"`
	CreatorID       *string    `json:"creator_id,omitempty"`
	AuthorAnonymous bool       `json:"author_anonymous"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	Aggregate       Aggregate  `json:"aggregate"`
}

// Vote is one voter's current position on one question. At most one row
// exists per (voter_id, question_id, voter_kind); a revote replaces the row
// and a retraction deletes it.
type Vote struct {
	VoterID     string    `json:"voter_id"`
	QuestionID  string    `json:"question_id"`
	VoterKind   string    `json:"voter_kind"`
	Value       string    `json:"value"`
	IsAnonymous bool      `json:"is_anonymous"`
	Reasoning   *string   `json:"reasoning,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HistoryEntry is one vote transition. PreviousValue is nil for an initial
// vote; NewValue is nil for a retraction.
type HistoryEntry struct {
	ID            string    `json:"id"`
	VoterID       string    `json:"voter_id"`
	QuestionID    string    `json:"question_id"`
	PreviousValue *string   `json:"previous_value,omitempty"`
	NewValue      *string   `json:"new_value,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

// NamedVoter is a voter whose identity is disclosed to the current viewer.
type NamedVoter struct {
	VoterID     string  `json:"voter_id"`
	DisplayName string  `json:"display_name"`
	VoterKind   string  `json:"voter_kind"`
	Value       string  `json:"value"`
	Reasoning   *string `json:"reasoning,omitempty"`
	Anonymous   bool    `json:"anonymous"` // self-view badge on an anonymous vote
}

// OptionCounts is a per-value tally of undisclosed voters.
type OptionCounts struct {
	Yes    int `json:"yes"`
	No     int `json:"no"`
	Unsure int `json:"unsure"`
}

// CompatibilityResult is derived on demand for a pair of users. A score of 0
// with CommonQuestions == 0 means "no overlap", not "total disagreement".
type CompatibilityResult struct {
	CompatibilityScore int `json:"compatibility_score"`
	Agreements         int `json:"agreements"`
	Disagreements      int `json:"disagreements"`
	CommonQuestions    int `json:"common_questions"`
}

type CommonGroundItem struct {
	QuestionID  string `json:"question_id"`
	Text        string `json:"text"`
	SharedVote  string `json:"shared_vote"`
	Controversy int    `json:"controversy"` // 0 (unanimous) to 100 (even split)
}

type DivergenceItem struct {
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
	VoteA      string `json:"vote_a"`
	VoteB      string `json:"vote_b"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
