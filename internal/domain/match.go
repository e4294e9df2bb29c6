package domain

import (
	"time"

	"github.com/google/uuid"
)

// Match statuses. The matching core writes StatusPending on insert only;
// later transitions (recruiter actions) belong to the external web layer
// and are never overwritten by a re-match.
const (
	StatusPending     = "pending"
	StatusShortlisted = "shortlisted"
	StatusRejected    = "rejected"
	StatusInterviewed = "interviewed"
)

// Match is a persisted resume-to-job match, uniquely identified by the
// (CandidateID, JobID, ResumeID) triple.
type Match struct {
	CandidateID    uuid.UUID
	JobID          uuid.UUID
	ResumeID       uuid.UUID
	MatchScore     float64 // 0..100
	MatchingSkills string  // comma-joined, sorted
	SkillGaps      string  // comma-joined, sorted
	Recommendation string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ScoredJob is one ranked entry of a find-matches result.
type ScoredJob struct {
	JobID          uuid.UUID
	Title          string
	MatchScore     float64
	MatchingSkills string
	SkillGaps      string
	Recommendation string
}
