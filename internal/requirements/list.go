// Package requirements turns free text into ordered, deduplicated lists of
// technical terms (skills, tools, languages, frameworks).
package requirements

import (
	"strings"
	"unicode/utf8"
)

// List is an ordered sequence of requirement strings. Elements keep the
// casing they had in the source; comparisons go through Normalize.
type List []string

// Normalize returns the comparison form of a term: trimmed and lowercased.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FromStrings builds a List from arbitrary items, trimming each one, dropping
// empty entries and keeping only the first of case-insensitive duplicates.
func FromStrings(items ...string) List {
	return collect(items, 0)
}

// SplitComma splits a comma-separated string into a List.
func SplitComma(s string) List {
	return collect(strings.Split(s, ","), 0)
}

// Contains reports whether the list holds s, compared case-insensitively.
func (l List) Contains(s string) bool {
	needle := Normalize(s)
	for _, item := range l {
		if Normalize(item) == needle {
			return true
		}
	}
	return false
}

// Len returns the number of elements.
func (l List) Len() int {
	return len(l)
}

// String joins the list with ", " for display.
func (l List) String() string {
	return strings.Join(l, ", ")
}

// collect trims pieces, drops those with minRunes or fewer runes and
// dedups on the normalized form, first occurrence wins.
func collect(pieces []string, minRunes int) List {
	out := make(List, 0, len(pieces))
	seen := make(map[string]struct{}, len(pieces))

	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" || utf8.RuneCountInString(piece) <= minRunes {
			continue
		}

		key := strings.ToLower(piece)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, piece)
	}

	return out
}
