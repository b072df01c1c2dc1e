package crawler

import (
	"strings"

	"github.com/nao1215/tagcrawl/internal/config"
)

// Normalize renders a tag name the way the autocomplete extension expects.
// Underscores become spaces unless KeepUnderscore is set, then every
// bracket is backslash-escaped if EscapeBrackets is set. It is meant for
// raw API names; escaping its own output escapes the brackets again.
func Normalize(name string, f config.Filter) string {
	if !f.KeepUnderscore {
		name = strings.ReplaceAll(name, "_", " ")
	}
	if f.EscapeBrackets {
		name = bracketEscaper.Replace(name)
	}
	return name
}

var bracketEscaper = strings.NewReplacer("(", `\(`, ")", `\)`)
