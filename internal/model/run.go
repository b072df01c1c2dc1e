package model

import "time"

// Outcome describes how a crawl run ended.
type Outcome string

const (
	// OutcomeExhausted means the API returned an empty page.
	OutcomeExhausted Outcome = "exhausted"

	// OutcomeThreshold means an item below the popularity threshold was seen.
	OutcomeThreshold Outcome = "threshold"

	// OutcomePageLimit means the page ceiling was reached.
	OutcomePageLimit Outcome = "page_limit"

	// OutcomeInterrupted means the run was cancelled by the operator.
	OutcomeInterrupted Outcome = "interrupted"

	// OutcomeFailed means the run was aborted by an error.
	OutcomeFailed Outcome = "failed"
)

// Success reports whether the outcome is a normal completion.
func (o Outcome) Success() bool {
	switch o {
	case OutcomeExhausted, OutcomeThreshold, OutcomePageLimit:
		return true
	default:
		return false
	}
}

// Description returns a short human-readable explanation of the outcome.
func (o Outcome) Description() string {
	switch o {
	case OutcomeExhausted:
		return "end of collection"
	case OutcomeThreshold:
		return "popularity threshold reached"
	case OutcomePageLimit:
		return "page limit reached"
	case OutcomeInterrupted:
		return "interrupted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunResult records what a single crawl run did.
// It is filled in by the crawler and consumed by reports and the history DB.
type RunResult struct {
	// ID is the history database row ID. Zero until saved.
	ID int64 `json:"id,omitempty"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Endpoint is the API endpoint crawled.
	Endpoint string `json:"endpoint"`

	// Output is the artifact path.
	Output string `json:"output"`

	// Outcome is how the run ended.
	Outcome Outcome `json:"outcome"`

	// MinPostCount is the popularity threshold used.
	MinPostCount int64 `json:"min_post_count"`

	// Categories are the categories that were enabled.
	Categories []Category `json:"categories,omitempty"`

	// PagesFetched counts pages whose body was received and decoded.
	PagesFetched int `json:"pages_fetched"`

	// LastPage is the last page number requested.
	LastPage int `json:"last_page"`

	// Examined counts items compared against the threshold.
	Examined int `json:"examined"`

	// Written counts lines written to the artifact.
	Written int `json:"written"`

	// ByCategory counts written lines per category.
	ByCategory map[Category]int `json:"by_category,omitempty"`

	// Checksum is the SHA3-256 hex digest of the artifact contents.
	Checksum string `json:"checksum,omitempty"`

	// Error is the error message for failed runs.
	Error string `json:"error,omitempty"`
}

// NewRunResult creates a RunResult for a run starting now.
func NewRunResult(endpoint, output string) *RunResult {
	return &RunResult{
		StartedAt:  time.Now(),
		Endpoint:   endpoint,
		Output:     output,
		ByCategory: make(map[Category]int),
	}
}

// Duration returns how long the run took. Zero if it has not finished.
func (r *RunResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Finish stamps the finish time and outcome. A non-nil err sets Error.
func (r *RunResult) Finish(outcome Outcome, err error) {
	r.FinishedAt = time.Now()
	r.Outcome = outcome
	if err != nil {
		r.Error = err.Error()
	}
}
