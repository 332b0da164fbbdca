package matching

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SupportedVariationsVersion is the only artifact version this build reads.
const SupportedVariationsVersion = 1

//go:embed variations.yaml
var defaultVariations []byte

// VariationTable maps canonical skill keys to sets of interchangeable
// surface forms. It is read-only after construction.
type VariationTable struct {
	version int
	sets    map[string]map[string]struct{}
	// groups indexes every surface form to the canonical keys listing it.
	groups map[string][]string
}

type variationsFile struct {
	Version    int                 `yaml:"version"`
	Variations map[string][]string `yaml:"variations"`
}

// DefaultVariations returns the table embedded in the binary.
func DefaultVariations() *VariationTable {
	table, err := ParseVariations(defaultVariations)
	if err != nil {
		panic(fmt.Sprintf("embedded variations table is invalid: %v", err))
	}
	return table
}

// LoadVariations reads a variation table artifact from a YAML file.
func LoadVariations(path string) (*VariationTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading variations file %q: %w", path, err)
	}

	table, err := ParseVariations(data)
	if err != nil {
		return nil, fmt.Errorf("variations file %q: %w", path, err)
	}

	return table, nil
}

// ParseVariations decodes a YAML variation table artifact.
func ParseVariations(data []byte) (*VariationTable, error) {
	var file variationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse variations: %w", err)
	}

	if file.Version != SupportedVariationsVersion {
		return nil, fmt.Errorf("unsupported variations version %d (want %d)", file.Version, SupportedVariationsVersion)
	}

	return NewVariationTable(file.Version, file.Variations)
}

// NewVariationTable builds a table from canonical keys and their forms.
// Keys and forms are compared lowercased and trimmed.
func NewVariationTable(version int, variations map[string][]string) (*VariationTable, error) {
	t := &VariationTable{
		version: version,
		sets:    make(map[string]map[string]struct{}, len(variations)),
		groups:  make(map[string][]string),
	}

	for key, forms := range variations {
		canonical := normalize(key)
		if canonical == "" {
			return nil, errors.New("variation set with empty canonical key")
		}

		set, ok := t.sets[canonical]
		if !ok {
			set = make(map[string]struct{}, len(forms))
			t.sets[canonical] = set
		}

		for _, form := range forms {
			form = normalize(form)
			if form == "" {
				continue
			}
			if _, dup := set[form]; dup {
				continue
			}
			set[form] = struct{}{}
			t.groups[form] = append(t.groups[form], canonical)
		}
	}

	return t, nil
}

// Equivalent reports whether a and b both belong to the same variation set.
// Equivalence is a single lookup: forms sharing a set with a common third
// form but not with each other are not equivalent.
func (t *VariationTable) Equivalent(a, b string) bool {
	if t == nil {
		return false
	}

	keys := t.groups[normalize(a)]
	if len(keys) == 0 {
		return false
	}

	b = normalize(b)
	for _, key := range keys {
		if _, ok := t.sets[key][b]; ok {
			return true
		}
	}
	return false
}

// Version returns the artifact version the table was loaded from.
func (t *VariationTable) Version() int {
	if t == nil {
		return 0
	}
	return t.version
}

// Len returns the number of canonical keys.
func (t *VariationTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.sets)
}

// Keys returns the canonical keys in sorted order.
func (t *VariationTable) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.sets))
	for key := range t.sets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
