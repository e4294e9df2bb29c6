package domain

import "errors"

var (
	// ErrResumeNotFound signals a missing resume record.
	ErrResumeNotFound = errors.New("resume not found")
	// ErrResumeNotParsed signals a resume that has not completed parsing.
	ErrResumeNotParsed = errors.New("resume not parsed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrStorageUnavailable signals a storage-layer infrastructure failure.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
