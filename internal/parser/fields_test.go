package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSummary(t *testing.T) {
	lines := []string{
		"CAREER OBJECTIVE",
		"To deliver safe, compassionate bedside care",
		"in a tertiary hospital setting.",
		"",
		"WORK EXPERIENCE",
	}
	got := extractSummary(lines)
	require.NotNil(t, got)
	assert.Equal(t, "To deliver safe, compassionate bedside care in a tertiary hospital setting.", *got)
}

func TestExtractSummaryStopsAtNextHeader(t *testing.T) {
	lines := []string{
		"PROFESSIONAL SUMMARY",
		"Registered nurse with five years of medical-surgical experience.",
		"WORK EXPERIENCE",
		"Staff Nurse, Makati Medical Center",
	}
	got := extractSummary(lines)
	require.NotNil(t, got)
	assert.NotContains(t, *got, "Makati", "summary must not bleed into the next section")
}

func TestExtractSummaryAbsentOrTooShort(t *testing.T) {
	assert.Nil(t, extractSummary([]string{"WORK EXPERIENCE", "Staff Nurse"}))
	assert.Nil(t, extractSummary([]string{"SUMMARY", "Nurse."}), "below the minimum length")
}

func TestExtractGraduationYearFromEducationLine(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	lines := []string{
		"Bachelor of Science in Nursing, 2015",
		"Licensure: PRC 0123456",
	}
	got := extractGraduationYear(lines, now)
	require.NotNil(t, got)
	assert.Equal(t, 2015, *got)
}

func TestExtractGraduationYearNeighbouringLineFallback(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	lines := []string{
		"University of Santo Tomas",
		"Graduated",
		"May 2016",
	}
	got := extractGraduationYear(lines, now)
	require.NotNil(t, got)
	assert.Equal(t, 2016, *got)
}

func TestExtractGraduationYearRejectsImplausibleYears(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, extractGraduationYear([]string{"Graduated 2090"}, now))
	assert.Nil(t, extractGraduationYear([]string{"degree conferred 1950"}, now))
	assert.Nil(t, extractGraduationYear([]string{"no schooling mentioned"}, now))
}

func TestExtractSalary(t *testing.T) {
	got := extractSalary("Expected Salary: PHP 45,000 monthly")
	require.NotNil(t, got)
	assert.Equal(t, "PHP 45,000", *got)

	got = extractSalary("compensation of $75,000.50 per year")
	require.NotNil(t, got)
	assert.Equal(t, "$75,000.50", *got)

	assert.Nil(t, extractSalary("no pay details here"))
}

func TestExtractAddress(t *testing.T) {
	text := strings.Join([]string{
		"MARIA CLARA SANTOS, RN",
		"maria.santos@example.com",
		"+63 917 123 4567",
		"123 Mabini Street, Quezon City, Philippines",
		"PROFESSIONAL SUMMARY",
	}, "\n")
	got := extractAddress(text)
	require.NotNil(t, got)
	assert.Equal(t, "123 Mabini Street, Quezon City, Philippines", *got)
}

func TestExtractAddressSkipsContactAndSchoolLines(t *testing.T) {
	text := strings.Join([]string{
		"maria.santos@example.com",
		"linkedin.com/in/mariasantos",
		"University of the Philippines Manila",
		"Quezon City, Metro Manila",
	}, "\n")
	got := extractAddress(text)
	require.NotNil(t, got)
	assert.Equal(t, "Quezon City, Metro Manila", *got)
}

func TestExtractAddressAbsent(t *testing.T) {
	assert.Nil(t, extractAddress("Staff Nurse\nWOUND CARE CHAMPION\n2015 - 2018"))
}
