package types

// ExperienceType classifies how an experience entry was acquired.
type ExperienceType string

const (
	// ExperienceEmployment is regular paid employment (the default).
	ExperienceEmployment ExperienceType = "employment"
	// ExperienceClinicalPlacement is a supervised clinical placement or rotation.
	ExperienceClinicalPlacement ExperienceType = "clinical_placement"
	// ExperienceOJT is on-the-job training or an internship.
	ExperienceOJT ExperienceType = "ojt"
	// ExperienceVolunteer is unpaid volunteer work.
	ExperienceVolunteer ExperienceType = "volunteer"
)

// ValidExperienceTypes is the closed set accepted at the persistence boundary.
var ValidExperienceTypes = map[ExperienceType]bool{
	ExperienceEmployment:        true,
	ExperienceClinicalPlacement: true,
	ExperienceOJT:               true,
	ExperienceVolunteer:         true,
}

// ExperienceEntry is one work/placement/training engagement.
// Dates are "Month Year" or "Year" strings at this layer; "Present" and
// "Current" are preserved verbatim as end dates.
type ExperienceEntry struct {
	Employer    *string        `json:"employer,omitempty"`
	Position    *string        `json:"position,omitempty"`
	Type        ExperienceType `json:"type"`
	Department  *string        `json:"department,omitempty"`
	StartDate   *string        `json:"start_date,omitempty"`
	EndDate     *string        `json:"end_date,omitempty"`
	Description *string        `json:"description,omitempty"`
	Location    *string        `json:"location,omitempty"`
}

// EducationEntry is one degree or program.
type EducationEntry struct {
	Institution         *string `json:"institution,omitempty"`
	Degree              *string `json:"degree,omitempty"`
	FieldOfStudy        *string `json:"field_of_study,omitempty"`
	Year                *int    `json:"year,omitempty"`
	InstitutionLocation *string `json:"institution_location,omitempty"`
	StartDate           *string `json:"start_date,omitempty"`
	EndDate             *string `json:"end_date,omitempty"`
	Status              *string `json:"status,omitempty"`
}

// Certification is one license or credential.
type Certification struct {
	Type   string  `json:"type"`
	Number *string `json:"number,omitempty"`
	Score  *string `json:"score,omitempty"`
}

// ParsedResume is the structured record distilled from one résumé. The JSON
// shape is stable: both the LLM extractor and the persistence layer depend on
// these exact field names. Nil pointers mean "not found", which is distinct
// from an empty string.
type ParsedResume struct {
	Summary           *string           `json:"summary,omitempty"`
	Address           *string           `json:"address,omitempty"`
	GraduationYear    *int              `json:"graduation_year,omitempty"`
	YearsOfExperience *int              `json:"years_of_experience,omitempty"`
	Salary            *string           `json:"salary,omitempty"`
	Hospitals         []string          `json:"hospitals,omitempty"`
	Skills            []string          `json:"skills,omitempty"`
	Certifications    []Certification   `json:"certifications,omitempty"`
	Experience        []ExperienceEntry `json:"experience,omitempty"`
	Education         []EducationEntry  `json:"education,omitempty"`
}

// IsEmpty reports whether nothing at all was extracted.
func (r *ParsedResume) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Summary == nil && r.Address == nil && r.GraduationYear == nil &&
		r.YearsOfExperience == nil && r.Salary == nil &&
		len(r.Hospitals) == 0 && len(r.Skills) == 0 &&
		len(r.Certifications) == 0 && len(r.Experience) == 0 && len(r.Education) == 0
}

// StrPtr returns a pointer to s. Convenience for building records.
func StrPtr(s string) *string { return &s }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }
