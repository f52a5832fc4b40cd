package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nurse-ats-go/internal/types"
)

func extractExperienceFromLines(lines []string) []types.ExperienceEntry {
	mask := buildExclusionMask(lines)
	return extractExperience(lines, mask)
}

func TestExtractExperienceSameLinePosition(t *testing.T) {
	lines := []string{
		"WORK EXPERIENCE",
		"Staff Nurse | May 2019 - Present",
		"Makati Medical Center, Manila",
		"• Administered IV medications to post-op patients",
	}
	entries := extractExperienceFromLines(lines)
	require.Len(t, entries, 1)

	e := entries[0]
	require.NotNil(t, e.Position)
	assert.Equal(t, "Staff Nurse", *e.Position)
	require.NotNil(t, e.Employer)
	assert.Equal(t, "Makati Medical Center", *e.Employer)
	require.NotNil(t, e.Location)
	assert.Equal(t, "Manila", *e.Location)
	require.NotNil(t, e.StartDate)
	assert.Equal(t, "May 2019", *e.StartDate)
	require.NotNil(t, e.EndDate)
	assert.Equal(t, "Present", *e.EndDate)
	require.NotNil(t, e.Description)
	assert.Equal(t, "• Administered IV medications to post-op patients", *e.Description)
}

func TestExtractExperiencePositionAboveEmployerBelow(t *testing.T) {
	lines := []string{
		"WORK EXPERIENCE",
		"Staff Nurse",
		"June 2015 - May 2017",
		"Emergency Room",
		"St. Luke's Medical Center, Quezon City",
	}
	entries := extractExperienceFromLines(lines)
	require.Len(t, entries, 1)

	e := entries[0]
	require.NotNil(t, e.Position)
	assert.Equal(t, "Staff Nurse", *e.Position)
	require.NotNil(t, e.Employer)
	assert.Equal(t, "St. Luke's Medical Center", *e.Employer)
	require.NotNil(t, e.Department)
	assert.Equal(t, "Emergency Room", *e.Department, "short line between anchor and employer is the unit")
	require.NotNil(t, e.Location)
	assert.Equal(t, "Quezon City", *e.Location)
}

func TestExtractExperienceEmbeddedAtForm(t *testing.T) {
	lines := []string{
		"Nurse Volunteer at Philippine Red Cross",
		"2018 - 2019",
	}
	entries := extractExperienceFromLines(lines)
	require.Len(t, entries, 1)

	e := entries[0]
	require.NotNil(t, e.Position)
	assert.Equal(t, "Nurse Volunteer", *e.Position)
	require.NotNil(t, e.Employer)
	assert.Equal(t, "Philippine Red Cross", *e.Employer)
}

func TestExtractExperienceDashSuffixBecomesDepartment(t *testing.T) {
	lines := []string{
		"WORK EXPERIENCE",
		"Staff Nurse – Medical Oncology",
		"Jan 2020 - Present",
		"The Medical City, Pasig",
	}
	entries := extractExperienceFromLines(lines)
	require.Len(t, entries, 1)

	e := entries[0]
	require.NotNil(t, e.Position)
	assert.Equal(t, "Staff Nurse", *e.Position)
	require.NotNil(t, e.Department)
	assert.Equal(t, "Medical Oncology", *e.Department)
	require.NotNil(t, e.Employer)
	assert.Equal(t, "The Medical City", *e.Employer)
}

func TestExtractExperienceEducationRegionIsMasked(t *testing.T) {
	lines := []string{
		"EDUCATIONAL BACKGROUND",
		"University of the Philippines, 2011 - 2015",
	}
	assert.Empty(t, extractExperienceFromLines(lines),
		"education year spans must not become experience entries")
}

func TestExtractExperienceBulletYearsAreNotAnchors(t *testing.T) {
	lines := []string{
		"WORK EXPERIENCE",
		"• Attended annual skills fairs 2019 - 2020",
	}
	assert.Empty(t, extractExperienceFromLines(lines))
}

func TestExtractExperienceBulletsEndBeforeWindow(t *testing.T) {
	lines := []string{
		"• Supervised four nursing aides per shift",
		"Staff Nurse",
		"June 2015 - May 2017",
	}
	entries := extractExperienceFromLines(lines)
	require.Len(t, entries, 1)
	e := entries[0]
	require.NotNil(t, e.Position)
	assert.Equal(t, "Staff Nurse", *e.Position)
	assert.Nil(t, e.Employer, "a previous entry's bullet must not be promoted to employer")
}

func TestSplitEmployerLocation(t *testing.T) {
	emp, loc := splitEmployerLocation("Makati Medical Center | Makati City")
	assert.Equal(t, "Makati Medical Center", emp)
	assert.Equal(t, "Makati City", loc)

	emp, loc = splitEmployerLocation("Cedars-Sinai Medical Center, Los Angeles, California")
	assert.Equal(t, "Cedars-Sinai Medical Center", emp)
	assert.Equal(t, "Los Angeles, California", loc)

	emp, loc = splitEmployerLocation("Manila Doctors Hospital, Manila")
	assert.Equal(t, "Manila Doctors Hospital", emp)
	assert.Equal(t, "Manila", loc)

	emp, loc = splitEmployerLocation("Chong Hua Hospital")
	assert.Equal(t, "Chong Hua Hospital", emp)
	assert.Empty(t, loc)
}

func TestTrimEdges(t *testing.T) {
	assert.Equal(t, "Staff Nurse", trimEdges(" | Staff Nurse, "))
	assert.Equal(t, "Ward 5", trimEdges("• Ward 5 –"))
}
