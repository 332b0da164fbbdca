package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xuri/excelize/v2"
)

const tagName = "catalog"

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %q: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("catalog %q has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %q: %w", sheets[0], path, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %q: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading catalog %q: %w", path, err)
	}
	return rows, nil
}

// decodeRows maps every data row onto a Job using the header row as keys.
// Blank rows are skipped; they do not consume an index.
func decodeRows(rows [][]string) ([]Job, error) {
	if len(rows) == 0 {
		return nil, errors.New("catalog is empty")
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
	}

	jobs := make([]Job, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		record := make(map[string]any, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			record[name] = value
		}

		var job Job
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          tagName,
			WeaklyTypedInput: true,
			Result:           &job,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(record); err != nil {
			// +2: one for the header, one for 1-based row numbers
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		job.Index = len(jobs)
		job.normalize()
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
