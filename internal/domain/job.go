package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Job is a job posting record, read-only to the matching core.
// Only postings with IsActive=true participate in matching.
type Job struct {
	ID             uuid.UUID
	Title          string
	Description    string
	SkillsRequired string // comma-separated
	Requirements   string
	IsActive       bool
}

// Text combines the posting fields into the text that gets embedded.
// Missing fields contribute an empty string, matching the resume side
// where absent sections simply do not appear.
func (j *Job) Text() string {
	return strings.Join([]string{j.Title, j.Description, j.SkillsRequired, j.Requirements}, " ")
}
