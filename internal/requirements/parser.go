package requirements

import (
	"strings"
)

// Label is the marker a text-generation completion is asked to prefix the
// skill list with.
const Label = "skills:"

// strategy extracts a List from text. The boolean is false when the strategy
// found nothing it could use, in which case the next strategy is tried.
type strategy func(text string) (List, bool)

var strategies = []strategy{
	labeledLine,
	commaSeparated,
}

// Parse converts a block of free text into a List. It first looks for a line
// starting with the "skills:" label and, when none exists, treats the whole
// text as one comma-separated list. An empty List means nothing could be
// extracted; it is not an error.
func Parse(text string) List {
	for _, try := range strategies {
		if list, ok := try(text); ok {
			return list
		}
	}
	return List{}
}

// labeledLine returns the items of the first line that starts with Label.
// A labeled line ends the search even when nothing follows the colon.
func labeledLine(text string) (List, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < len(Label) || !strings.EqualFold(line[:len(Label)], Label) {
			continue
		}
		return collect(strings.Split(line[len(Label):], ","), 0), true
	}
	return nil, false
}

// commaSeparated splits the whole text on commas. Single-rune pieces are
// dropped as stray punctuation.
func commaSeparated(text string) (List, bool) {
	list := collect(strings.Split(text, ","), 1)
	if len(list) == 0 {
		return nil, false
	}
	return list, true
}
