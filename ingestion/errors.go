package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a record repository is not provided.
	ErrRepositoryRequired = errors.New("record repository required")

	// ErrRebuilderRequired is returned when a rebuilder is not provided.
	ErrRebuilderRequired = errors.New("rebuilder required")

	// ErrNilRecord is returned when an ingest batch contains a nil record.
	ErrNilRecord = errors.New("record cannot be nil")

	// ErrPipelineClosed is returned when using a pipeline after Close.
	ErrPipelineClosed = errors.New("pipeline is closed")
)
