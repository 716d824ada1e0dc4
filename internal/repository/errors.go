package repository

import "errors"

var (
	// ErrConnectionUnavailable signals that no pooled database connection
	// could be acquired. Fatal to the run that hits it.
	ErrConnectionUnavailable = errors.New("database connection unavailable")

	// ErrQueryFailed signals a failed statement (constraint violation,
	// syntax error, timeout). Recoverable per record, fatal if it escapes
	// the per-record boundary.
	ErrQueryFailed = errors.New("database query failed")

	// ErrTagConflict signals that a tag uniqueness race could not be
	// resolved after the retry lookup.
	ErrTagConflict = errors.New("tag creation conflict")

	// ErrMissingQuestionID signals a record with neither an explicit
	// question id nor a URL to derive one from.
	ErrMissingQuestionID = errors.New("record has no question id and no url to derive it from")

	// ErrEmptyBatch signals an archive request with no records.
	ErrEmptyBatch = errors.New("no questions to archive")

	// ErrRunInProgress signals that another run currently holds the run lock.
	ErrRunInProgress = errors.New("a harvest run is already in progress")
)
