// Package catalog loads the job postings the candidate is ranked against.
//
// A Catalog is an immutable handle: it is loaded once, passed to the
// workflow that needs it and replaced through Reload when the source file
// changes. Nothing is cached behind the caller's back.
package catalog

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Catalog is a loaded, read-only collection of jobs.
type Catalog struct {
	source   string
	loadedAt time.Time
	jobs     []Job
}

// Open loads the catalog stored at path. The format is chosen by extension:
// .xlsx (first sheet) or .csv. The first row holds the column headers.
func Open(path string) (*Catalog, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	jobs, err := decodeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("decoding catalog %q: %w", path, err)
	}

	return &Catalog{
		source:   path,
		loadedAt: time.Now().UTC(),
		jobs:     jobs,
	}, nil
}

// New builds a catalog from jobs already in memory. Indexes are reassigned
// to follow the slice order.
func New(source string, jobs []Job) *Catalog {
	copied := make([]Job, len(jobs))
	for i, job := range jobs {
		job.Index = i
		job.normalize()
		copied[i] = job
	}
	return &Catalog{source: source, loadedAt: time.Now().UTC(), jobs: copied}
}

// Reload reads the source file again and returns a new handle. The receiver
// is left untouched.
func (c *Catalog) Reload() (*Catalog, error) {
	if c.source == "" {
		return nil, fmt.Errorf("catalog has no source file to reload")
	}
	return Open(c.source)
}

func (c *Catalog) Source() string { return c.source }

func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

func (c *Catalog) Len() int { return len(c.jobs) }

// Jobs returns a working set over copies of the catalog jobs, so filters
// can narrow it without touching the catalog.
func (c *Catalog) Jobs() *Jobs {
	items := make([]*Job, len(c.jobs))
	for i := range c.jobs {
		job := c.jobs[i]
		items[i] = &job
	}
	return &Jobs{Items: items}
}

// Locations returns the distinct locations in sorted order.
func (c *Catalog) Locations() []string { return c.distinct(JobLocationField) }

// RoleLevels returns the distinct role levels in sorted order.
func (c *Catalog) RoleLevels() []string { return c.distinct(JobRoleLevelField) }

// Sizes returns the distinct company sizes in sorted order.
func (c *Catalog) Sizes() []string { return c.distinct(JobSizeField) }

// Industries returns the distinct industries in sorted order.
func (c *Catalog) Industries() []string { return c.distinct(JobIndustryField) }

func (c *Catalog) distinct(field string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for i := range c.jobs {
		value := c.jobs[i].GetStringField(field)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

func readRows(path string) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
}
