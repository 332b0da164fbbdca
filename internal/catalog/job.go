package catalog

import (
	"strconv"
	"strings"

	"github.com/spigell/skillmatch/internal/requirements"
)

const (
	JobLocationField  = "Location"
	JobRoleLevelField = "RoleLevel"
	JobSizeField      = "Size"
	JobIndustryField  = "Industry"

	defaultRoleLevel = "Not Specified"
)

// Job is a single posting of the catalog. Column names of the source sheet
// are mapped with the catalog tag.
type Job struct {
	// Index is the position of the job in the catalog, starting at 0.
	Index int `catalog:"-" json:"index"`

	Title           string `catalog:"Job Title" json:"title,omitempty"`
	Company         string `catalog:"Company Name" json:"company,omitempty"`
	Location        string `catalog:"Location" json:"location,omitempty"`
	TechnicalSkills string `catalog:"Technical Skills" json:"technical_skills,omitempty"`
	Tools           string `catalog:"Tools" json:"tools,omitempty"`
	Experience      string `catalog:"Experience Required" json:"experience,omitempty"`
	RoleLevel       string `catalog:"Role Level" json:"role_level,omitempty"`
	Salary          string `catalog:"Salary Estimate" json:"salary,omitempty"`
	Industry        string `catalog:"Industry" json:"industry,omitempty"`
	Size            string `catalog:"Size" json:"size,omitempty"`
	Description     string `catalog:"Job Description" json:"description,omitempty"`
}

// Requirements joins the technical skills and tools columns into one list.
func (j *Job) Requirements() requirements.List {
	return requirements.SplitComma(j.TechnicalSkills + "," + j.Tools)
}

// ExperienceYears parses the first word of the experience column as a
// number, e.g. "3 years" or "2.5 yrs". The boolean is false when that word
// is not a plain number ("5+", "not stated"); such jobs are never filtered
// on experience.
func (j *Job) ExperienceYears() (float64, bool) {
	fields := strings.Fields(j.Experience)
	if len(fields) == 0 {
		return 0, false
	}

	years, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return years, true
}

// GetStringField returns the value of a filterable column.
func (j *Job) GetStringField(name string) string {
	switch name {
	case JobLocationField:
		return j.Location
	case JobRoleLevelField:
		return j.RoleLevel
	case JobSizeField:
		return j.Size
	case JobIndustryField:
		return j.Industry
	default:
		return ""
	}
}

func (j *Job) normalize() {
	j.Title = strings.TrimSpace(j.Title)
	j.Company = strings.TrimSpace(j.Company)
	j.Location = strings.TrimSpace(j.Location)
	j.RoleLevel = strings.TrimSpace(j.RoleLevel)
	if j.RoleLevel == "" {
		j.RoleLevel = defaultRoleLevel
	}
	j.Industry = strings.TrimSpace(j.Industry)
	j.Size = strings.TrimSpace(j.Size)
}
