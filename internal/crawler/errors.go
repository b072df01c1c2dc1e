package crawler

import "errors"

var (
	// ErrInterrupted wraps the context error of a cancelled run.
	ErrInterrupted = errors.New("crawl interrupted")

	// ErrUnexpected wraps a panic recovered during a run.
	ErrUnexpected = errors.New("unexpected crawl failure")
)
