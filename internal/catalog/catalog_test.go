package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spigell/skillmatch/internal/requirements"
)

const sampleCSV = `Job Title,Company Name,Location,Technical Skills,Tools,Experience Required,Role Level,Salary Estimate,Industry,Size,Job Description,Ignored
Data Analyst,Acme,Toronto,"Python, SQL","Tableau, Excel",2 years,Junior,$60k,Finance,Large,Analyse data,x
ML Engineer,Globex,Vancouver,"Python, Machine Learning",Docker,5+ years,,$120k,Tech,Medium,Build models,y
,,,,,,,,,,,
BI Developer,Initech,Toronto,SQL,"Power BI, sql",not stated,Senior,,Finance,Small,,z
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestOpenCSV(t *testing.T) {
	t.Parallel()

	cat, err := Open(writeCSV(t, sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 3, cat.Len())

	jobs := cat.Jobs()
	require.Equal(t, 3, jobs.Len())

	first := jobs.Items[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "Data Analyst", first.Title)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, requirements.List{"Python", "SQL", "Tableau", "Excel"}, first.Requirements())

	second := jobs.Items[1]
	assert.Equal(t, "Not Specified", second.RoleLevel)
	_, ok := second.ExperienceYears()
	assert.False(t, ok, "open-ended experience is not a number")

	third := jobs.Items[2]
	assert.Equal(t, 2, third.Index, "blank rows do not consume an index")
	assert.Equal(t, requirements.List{"SQL", "Power BI"}, third.Requirements())
	_, ok = third.ExperienceYears()
	assert.False(t, ok)

	assert.Equal(t, []string{"Toronto", "Vancouver"}, cat.Locations())
	assert.Equal(t, []string{"Junior", "Not Specified", "Senior"}, cat.RoleLevels())
	assert.Equal(t, []string{"Large", "Medium", "Small"}, cat.Sizes())
	assert.Equal(t, []string{"Finance", "Tech"}, cat.Industries())
}

func TestOpenXLSX(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jobs.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Job Title", "Company Name", "Location", "Technical Skills", "Tools", "Experience Required"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Analyst", "Acme", "Remote", "SQL, Python", "Excel", 3}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Engineer", "Globex", "Berlin", "Go"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cat, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())

	jobs := cat.Jobs()
	assert.Equal(t, requirements.List{"SQL", "Python", "Excel"}, jobs.Items[0].Requirements())
	years, ok := jobs.Items[0].ExperienceYears()
	assert.True(t, ok)
	assert.Equal(t, 3.0, years)

	// short rows leave the trailing columns empty
	assert.Equal(t, requirements.List{"Go"}, jobs.Items[1].Requirements())
	assert.Equal(t, "Not Specified", jobs.Items[1].RoleLevel)
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "jobs.json"))
	assert.ErrorContains(t, err, "unsupported catalog format")

	_, err = Open(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = Open(writeCSV(t, ""))
	assert.ErrorContains(t, err, "catalog is empty")
}

func TestReloadReturnsNewHandle(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, sampleCSV)
	cat, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("Job Title,Technical Skills\nOnly,Go\n"), 0o600))

	reloaded, err := cat.Reload()
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
	assert.Equal(t, 3, cat.Len(), "original handle must not change")

	_, err = New("", nil).Reload()
	assert.Error(t, err)
}

func TestJobsDoNotAliasCatalog(t *testing.T) {
	t.Parallel()

	cat := New("memory", []Job{{Title: "A", Location: "X"}, {Title: "B", Location: "Y"}})

	jobs := cat.Jobs()
	jobs.Items[0].Title = "changed"
	jobs.ExcludeNotIn(JobLocationField, []string{"y"})

	again := cat.Jobs()
	require.Equal(t, 2, again.Len())
	assert.Equal(t, "A", again.Items[0].Title)
	assert.Equal(t, 1, again.Items[1].Index)
}

func TestJobsKeepPreservesOrder(t *testing.T) {
	t.Parallel()

	cat := New("memory", []Job{
		{Title: "a", Industry: "Tech"},
		{Title: "b", Industry: "Finance"},
		{Title: "c", Industry: "tech"},
		{Title: "d", Industry: "Retail"},
	})

	jobs := cat.Jobs()
	dropped := jobs.ExcludeNotIn(JobIndustryField, []string{" TECH "})
	assert.Equal(t, []int{1, 3}, dropped)
	require.Equal(t, 2, jobs.Len())
	assert.Equal(t, "a", jobs.Items[0].Title)
	assert.Equal(t, "c", jobs.Items[1].Title)
	assert.Equal(t, jobs.Items[1], jobs.FindByIndex(2))
	assert.Nil(t, jobs.FindByIndex(1))

	assert.Nil(t, jobs.ExcludeNotIn(JobIndustryField, nil))
	assert.Equal(t, 2, jobs.Len())
}

func TestDumpToTmpFile(t *testing.T) {
	cat := New("memory", []Job{{Title: "a"}})

	name, err := cat.Jobs().DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "a"`)
}
