package domain

import "github.com/google/uuid"

// Resume is a candidate resume record. The record itself is owned by the
// external web layer; the core reads it and writes back parsed fields only.
type Resume struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	FilePath string

	ParsedText          string
	ExtractedSkills     string // comma-joined lowercase tokens
	ExtractedEducation  string // up to 3 sentences joined by " | "
	ExtractedExperience string
	EmbeddingVector     string // JSON-encoded float array, "" until parsed
	EmbeddingModel      string // model that produced EmbeddingVector
	IsParsed            bool
}

// ParseResult is the outcome of parsing one resume document.
// Note carries a human-readable degradation diagnostic ("" when clean):
// extraction and embedding failures degrade into placeholder output
// instead of aborting the parse.
type ParseResult struct {
	Text       string
	Skills     []string
	Education  string
	Experience string
	Embedding  []float32 // nil when embedding generation failed
	Note       string
}
