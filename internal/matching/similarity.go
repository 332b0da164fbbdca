package matching

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the Ratcliff/Obershelp similarity of a and b in [0,1]:
// twice the number of runes in matching blocks divided by the total number
// of runes in both strings. Runes appearing in more than 1% of a b of 200
// runes or longer are treated as junk when searching for blocks. Two empty
// strings are identical.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

// runes splits s into one element per rune, the unit the matcher compares.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
