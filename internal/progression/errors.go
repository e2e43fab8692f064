package progression

import "errors"

var (
	// ErrUnknownLearner is returned when a learner id has no profile
	ErrUnknownLearner = errors.New("unknown learner")

	// ErrLearnerExists is returned when signing up an id that is already taken
	ErrLearnerExists = errors.New("learner already exists")

	// ErrMalformedInput is returned for missing or invalid request fields.
	// It is usually wrapped with the offending field.
	ErrMalformedInput = errors.New("malformed input")

	// ErrPersistence wraps durable store failures. In-memory state stays
	// authoritative when it occurs.
	ErrPersistence = errors.New("persistence failure")
)
