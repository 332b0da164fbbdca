package catalog

import (
	"encoding/json"
	"os"
	"strings"
)

// Jobs is a working set of catalog jobs, narrowed by filters.
type Jobs struct {
	Items []*Job
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

// Keep retains the jobs for which keep returns true, preserving catalog
// order, and returns the indexes of the dropped jobs.
func (j *Jobs) Keep(keep func(*Job) bool) []int {
	var dropped []int
	kept := j.Items[:0]
	for _, job := range j.Items {
		if keep(job) {
			kept = append(kept, job)
			continue
		}
		dropped = append(dropped, job.Index)
	}
	clear(j.Items[len(kept):])
	j.Items = kept
	return dropped
}

// ExcludeNotIn drops jobs whose field value is not one of allowed, compared
// case-insensitively. An empty allowed list keeps everything.
func (j *Jobs) ExcludeNotIn(field string, allowed []string) []int {
	if len(allowed) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(allowed))
	for _, value := range allowed {
		set[strings.ToLower(strings.TrimSpace(value))] = struct{}{}
	}

	return j.Keep(func(job *Job) bool {
		_, ok := set[strings.ToLower(job.GetStringField(field))]
		return ok
	})
}

// FindByIndex returns the job with the given catalog index.
func (j *Jobs) FindByIndex(index int) *Job {
	for _, job := range j.Items {
		if job.Index == index {
			return job
		}
	}
	return nil
}

// DumpToTmpFile writes the jobs as indented JSON into a new temp file.
func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j.Items); err != nil {
		return "", err
	}
	return file.Name(), nil
}
