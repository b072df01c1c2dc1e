package model

import (
	"encoding/json"
	"testing"
)

// TestCategoryString tests the String method of Category.
func TestCategoryString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		category Category
		expected string
	}{
		{CategoryGeneral, "general"},
		{CategoryArtist, "artist"},
		{CategoryCopyright, "copyright"},
		{CategoryCharacter, "character"},
		{CategoryMeta, "meta"},
		{CategoryUnknown, "unknown"},
		{Category(2), "unknown"},
		{Category(999), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.category.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.category.String(), tc.expected)
			}
		})
	}
}

// TestCategoryLabel tests the title-cased display label.
func TestCategoryLabel(t *testing.T) {
	t.Parallel()

	if got := CategoryCopyright.Label(); got != "Copyright" {
		t.Errorf("expected 'Copyright', got %q", got)
	}
	if got := CategoryMeta.Label(); got != "Meta" {
		t.Errorf("expected 'Meta', got %q", got)
	}
}

// TestCategoryKnown tests which codes are recognized.
func TestCategoryKnown(t *testing.T) {
	t.Parallel()

	for _, c := range []Category{CategoryGeneral, CategoryArtist, CategoryCopyright, CategoryCharacter, CategoryMeta} {
		if !c.Known() {
			t.Errorf("expected %v to be known", c)
		}
	}
	for _, c := range []Category{CategoryUnknown, Category(2), Category(6)} {
		if c.Known() {
			t.Errorf("expected %d to be unknown", int(c))
		}
	}
}

// TestParseCategory tests parsing category identifiers.
func TestParseCategory(t *testing.T) {
	t.Parallel()

	t.Run("round trips every writable category", func(t *testing.T) {
		t.Parallel()
		for _, c := range WritableCategories {
			parsed, err := ParseCategory(c.String())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if parsed != c {
				t.Errorf("expected %v, got %v", c, parsed)
			}
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseCategory("species"); err == nil {
			t.Error("expected error for unknown category name")
		}
	})
}

// TestCategoryJSONMapKeys tests that ByCategory serializes with names.
func TestCategoryJSONMapKeys(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(map[Category]int{CategoryCharacter: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"character":2}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded map[Category]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded[CategoryCharacter] != 2 {
		t.Errorf("expected character count 2, got %v", decoded)
	}
}
