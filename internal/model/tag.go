package model

// MissingPostCount is the post count assigned to an item whose post_count
// field is absent or not an integer. It is below every valid threshold, so
// such an item ends the crawl.
const MissingPostCount = -1

// Tag is one item of an API page.
type Tag struct {
	// Name is the remote identifier, e.g. "hatsune_miku_(vocaloid)".
	Name string `json:"name"`

	// Category is the tag category. CategoryUnknown when missing.
	Category Category `json:"category"`

	// PostCount is the popularity metric. MissingPostCount when missing.
	PostCount int64 `json:"post_count"`
}

// Below reports whether the tag's post count is strictly below threshold.
func (t Tag) Below(threshold int64) bool {
	return t.PostCount < threshold
}
