package config

import "github.com/nao1215/tagcrawl/internal/model"

// Filter selects and normalizes the tags written to the artifact.
// It is read-only for the duration of a run and passed by value.
type Filter struct {
	// MinPostCount is the popularity threshold. Tags with fewer posts are
	// not written, and the first such tag ends the crawl.
	MinPostCount int64 `yaml:"minPostCount"`

	// General enables general tags.
	General bool `yaml:"general"`

	// Artist exists for completeness with the API's category list.
	// It must stay false; artist tags are always excluded.
	Artist bool `yaml:"artist"`

	// Copyright enables copyright (series) tags.
	Copyright bool `yaml:"copyright"`

	// Character enables character tags.
	Character bool `yaml:"character"`

	// Meta enables meta tags.
	Meta bool `yaml:"meta"`

	// KeepUnderscore keeps underscores in tag names. When false they become spaces.
	KeepUnderscore bool `yaml:"keepUnderscore"`

	// EscapeBrackets backslash-escapes "(" and ")" in tag names.
	EscapeBrackets bool `yaml:"escapeBrackets"`
}

// DefaultFilter returns the filter used when nothing else is configured.
func DefaultFilter() Filter {
	return Filter{
		MinPostCount:   DefaultMinPostCount,
		General:        true,
		Copyright:      true,
		Character:      true,
		Meta:           false,
		KeepUnderscore: false,
		EscapeBrackets: true,
	}
}

// Enabled reports whether tags of category c are written.
// Artist and unknown categories are never enabled.
func (f Filter) Enabled(c model.Category) bool {
	switch c {
	case model.CategoryGeneral:
		return f.General
	case model.CategoryCopyright:
		return f.Copyright
	case model.CategoryCharacter:
		return f.Character
	case model.CategoryMeta:
		return f.Meta
	default:
		return false
	}
}

// EnabledCategories returns the writable categories that are switched on.
func (f Filter) EnabledCategories() []model.Category {
	enabled := make([]model.Category, 0, len(model.WritableCategories))
	for _, c := range model.WritableCategories {
		if f.Enabled(c) {
			enabled = append(enabled, c)
		}
	}
	return enabled
}

// Validate checks the filter for values the crawler cannot honor.
func (f Filter) Validate() error {
	if f.MinPostCount < 0 {
		return ErrInvalidMinPostCount
	}
	if f.Artist {
		return ErrArtistNotSupported
	}
	if len(f.EnabledCategories()) == 0 {
		return ErrNoCategoryEnabled
	}
	return nil
}
