package model

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is the Danbooru tag category code as returned by the API.
type Category int

const (
	// CategoryUnknown marks a missing or non-integer category field.
	CategoryUnknown Category = -1

	// CategoryGeneral is a general descriptive term.
	CategoryGeneral Category = 0

	// CategoryArtist names an artist. Artist tags are never written to the
	// artifact, whatever the configuration says.
	CategoryArtist Category = 1

	// CategoryCopyright names a series or franchise.
	CategoryCopyright Category = 3

	// CategoryCharacter names a character.
	CategoryCharacter Category = 4

	// CategoryMeta is an administrative or meta tag.
	CategoryMeta Category = 5
)

// WritableCategories lists the categories that can be enabled for output,
// in the order reports present them.
var WritableCategories = []Category{
	CategoryGeneral,
	CategoryCopyright,
	CategoryCharacter,
	CategoryMeta,
}

// String returns the lowercase identifier used in config files and JSON.
func (c Category) String() string {
	switch c {
	case CategoryGeneral:
		return "general"
	case CategoryArtist:
		return "artist"
	case CategoryCopyright:
		return "copyright"
	case CategoryCharacter:
		return "character"
	case CategoryMeta:
		return "meta"
	default:
		return "unknown"
	}
}

// Label returns a display label such as "Copyright".
func (c Category) Label() string {
	return cases.Title(language.English).String(c.String())
}

// Known reports whether c is one of the category codes the crawler acts upon.
// Artist is known but never writable.
func (c Category) Known() bool {
	switch c {
	case CategoryGeneral, CategoryArtist, CategoryCopyright, CategoryCharacter, CategoryMeta:
		return true
	default:
		return false
	}
}

// ParseCategory converts an identifier produced by String back to a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "general":
		return CategoryGeneral, nil
	case "artist":
		return CategoryArtist, nil
	case "copyright":
		return CategoryCopyright, nil
	case "character":
		return CategoryCharacter, nil
	case "meta":
		return CategoryMeta, nil
	case "unknown":
		return CategoryUnknown, nil
	default:
		return CategoryUnknown, fmt.Errorf("unknown category %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so that categories appear
// by name in JSON reports and map keys.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
