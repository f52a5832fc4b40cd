package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nurse-ats-go/internal/types"
)

const sampleResume = `MARIA CLARA SANTOS, RN
maria.santos@example.com
+63 917 123 4567
123 Mabini Street, Quezon City, Philippines

PROFESSIONAL SUMMARY
Registered nurse with five years of medical-surgical experience in tertiary hospitals.

WORK EXPERIENCE
Staff Nurse | May 2019 - Present
Makati Medical Center, Manila
• Administered IV medications to post-op patients
• Supervised four nursing aides per shift

Staff Nurse
June 2015 - May 2017
Emergency Room
St. Luke's Medical Center, Quezon City

EDUCATIONAL BACKGROUND
University of Santo Tomas, Manila
Bachelor of Science in Nursing
Graduated: May 2016

CLINICAL SKILLS
IV Therapy, Wound Care, Triage

LICENSES AND CERTIFICATIONS
PRC License No. 0123456
BLS and ACLS certified

CHARACTER REFERENCES
Dr. Juan Dela Cruz, Chief Nurse, available 2015 - 2020
`

var extractNow = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func TestExtractResumeFullDocument(t *testing.T) {
	record := extractResumeAt(sampleResume, extractNow)

	require.NotNil(t, record.Summary)
	assert.Equal(t, "Registered nurse with five years of medical-surgical experience in tertiary hospitals.", *record.Summary)

	require.NotNil(t, record.Address)
	assert.Equal(t, "123 Mabini Street, Quezon City, Philippines", *record.Address)

	require.NotNil(t, record.GraduationYear)
	assert.Equal(t, 2016, *record.GraduationYear)

	assert.Nil(t, record.Salary)

	assert.Contains(t, record.Hospitals, "Makati Medical Center")
	assert.Contains(t, record.Hospitals, "St. Luke's Medical Center")

	assert.Contains(t, record.Skills, "IV Therapy")
	assert.Contains(t, record.Skills, "Wound Care")
	assert.Contains(t, record.Skills, "Triage")

	certTypes := make([]string, 0, len(record.Certifications))
	for _, c := range record.Certifications {
		certTypes = append(certTypes, c.Type)
	}
	assert.Contains(t, certTypes, "PRC License")
	assert.Contains(t, certTypes, "BLS")
	assert.Contains(t, certTypes, "ACLS")

	require.Len(t, record.Experience, 2, "the references line must not produce a third entry")

	first := record.Experience[0]
	require.NotNil(t, first.Position)
	assert.Equal(t, "Staff Nurse", *first.Position)
	require.NotNil(t, first.Employer)
	assert.Equal(t, "Makati Medical Center", *first.Employer)
	require.NotNil(t, first.EndDate)
	assert.Equal(t, "Present", *first.EndDate)
	require.NotNil(t, first.Description)
	assert.Contains(t, *first.Description, "Administered IV medications")

	second := record.Experience[1]
	require.NotNil(t, second.Employer)
	assert.Equal(t, "St. Luke's Medical Center", *second.Employer)
	require.NotNil(t, second.Department)
	assert.Equal(t, "Emergency Room", *second.Department)

	require.Len(t, record.Education, 1)
	edu := record.Education[0]
	require.NotNil(t, edu.Degree)
	assert.Equal(t, "Bachelor of Science in Nursing", *edu.Degree)
	require.NotNil(t, edu.Institution)
	assert.Equal(t, "University of Santo Tomas", *edu.Institution)
	require.NotNil(t, edu.Year)
	assert.Equal(t, 2016, *edu.Year)

	require.NotNil(t, record.YearsOfExperience)
	assert.Equal(t, 7, *record.YearsOfExperience)
}

func TestExtractResumeFullDocumentScoresHigh(t *testing.T) {
	record := extractResumeAt(sampleResume, extractNow)
	assert.Equal(t, 100, ScoreConfidence(record, sampleResume))
}

func TestExtractResumeEmptyText(t *testing.T) {
	record := extractResumeAt("", extractNow)
	assert.True(t, record.IsEmpty())

	record = extractResumeAt("   \n\n  ", extractNow)
	assert.True(t, record.IsEmpty())
}

func TestExtractResumeCRLFNormalised(t *testing.T) {
	text := strings.ReplaceAll(sampleResume, "\n", "\r\n")
	record := extractResumeAt(text, extractNow)
	require.Len(t, record.Experience, 2)
	require.NotNil(t, record.Summary)
}

func TestExtractResumeDeterministic(t *testing.T) {
	a := extractResumeAt(sampleResume, extractNow)
	b := extractResumeAt(sampleResume, extractNow)
	assert.Equal(t, a, b)
}

func TestExtractResumeNoExperienceLeavesYearsNil(t *testing.T) {
	record := extractResumeAt("EDUCATION\nCebu Doctors' University\nBSN, 2018\n", extractNow)
	assert.Empty(t, record.Experience)
	assert.Nil(t, record.YearsOfExperience)
}

func TestExtractResumeIsEmptyHelper(t *testing.T) {
	var nilRecord *types.ParsedResume
	assert.True(t, nilRecord.IsEmpty())
	assert.False(t, extractResumeAt(sampleResume, extractNow).IsEmpty())
}
