package matching

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVariations(t *testing.T) {
	t.Parallel()

	table := DefaultVariations()
	assert.Equal(t, SupportedVariationsVersion, table.Version())
	assert.Equal(t, []string{"data analysis", "data visualization", "machine learning", "python", "sql"}, table.Keys())
	assert.Equal(t, 5, table.Len())

	assert.True(t, table.Equivalent("SQL", "relational database"))
	assert.True(t, table.Equivalent(" ML ", "deep learning"))
	assert.True(t, table.Equivalent("tableau", "visualization"))
	assert.False(t, table.Equivalent("go", "golang"))
	assert.False(t, table.Equivalent("sql", "python"))
	assert.False(t, table.Equivalent("unknown", "unknown"))
}

func TestParseVariations(t *testing.T) {
	t.Parallel()

	data := []byte(`
version: 1
variations:
  Kubernetes: [" K8s ", kubernetes, KUBE]
  go: [go, golang]
`)

	table, err := ParseVariations(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "kubernetes"}, table.Keys())
	assert.True(t, table.Equivalent("kube", "k8s"))
	assert.True(t, table.Equivalent("Golang", "GO"))
	assert.False(t, table.Equivalent("go", "k8s"))
}

func TestParseVariationsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "missing version", data: "variations:\n  sql: [sql]\n"},
		{name: "future version", data: "version: 2\nvariations:\n  sql: [sql]\n"},
		{name: "empty key", data: "version: 1\nvariations:\n  \" \": [sql]\n"},
		{name: "malformed yaml", data: "version: [1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseVariations([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadVariations(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "variations.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nvariations:\n  js: [js, javascript]\n"), 0o600))

	table, err := LoadVariations(path)
	require.NoError(t, err)
	assert.True(t, table.Equivalent("JavaScript", "js"))

	_, err = LoadVariations(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestNilVariationTable(t *testing.T) {
	t.Parallel()

	var table *VariationTable
	assert.False(t, table.Equivalent("a", "a"))
	assert.Zero(t, table.Len())
	assert.Zero(t, table.Version())
	assert.Nil(t, table.Keys())
}
