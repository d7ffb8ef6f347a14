package analyze

import "errors"

var (
	// ErrLogNotFound indicates the near-miss log file does not exist yet.
	ErrLogNotFound = errors.New("near miss log not found")
)
