package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHospitalsCuratedAndPhrase(t *testing.T) {
	text := "Worked at St. Luke's Medical Center, then moved to Riverside Community Hospital."
	got := extractHospitals(text)
	assert.Contains(t, got, "St. Luke's Medical Center")
	assert.Contains(t, got, "Riverside Community Hospital")
}

func TestExtractHospitalsCanonicalCasing(t *testing.T) {
	got := extractHospitals("staff nurse at MAKATI MEDICAL CENTER for three years")
	assert.Contains(t, got, "Makati Medical Center", "curated entries come back with lexicon casing")
}

func TestExtractHospitalsDeduplicates(t *testing.T) {
	text := "The Medical City. Later rejoined The Medical City as charge nurse."
	got := extractHospitals(text)
	count := 0
	for _, h := range got {
		if h == "The Medical City" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractHospitalsEmpty(t *testing.T) {
	assert.Empty(t, extractHospitals("no facilities named here"))
}

func TestExtractSkillsThreePasses(t *testing.T) {
	lines := []string{
		"CLINICAL SKILLS",
		"iv therapy, wound care; triage",
		"Able to work under pressure in any environment or shift",
		"WORK EXPERIENCE",
		"Charted daily in Epic EHR and Microsoft Excel",
	}
	text := strings.Join(lines, "\n")
	got := extractSkills(text, lines)

	assert.Contains(t, got, "IV Therapy", "curated casing wins over the section casing")
	assert.Contains(t, got, "Wound Care")
	assert.Contains(t, got, "Triage")
	assert.Contains(t, got, "Epic")
	assert.Contains(t, got, "Microsoft Excel")

	assert.NotContains(t, got, "iv therapy", "case-insensitive dedup")
	assert.NotContains(t, got, "Able to work under pressure in any environment or shift",
		"prose lines are not skill tokens")
}

func TestExtractSkillsLabelledLineKeepsValueSide(t *testing.T) {
	lines := []string{
		"SKILLS",
		"Languages: English, Tagalog",
	}
	got := extractSkills(strings.Join(lines, "\n"), lines)
	assert.Contains(t, got, "English")
	assert.Contains(t, got, "Tagalog")
	assert.NotContains(t, got, "Languages")
}

func TestExtractSkillsWithoutSection(t *testing.T) {
	lines := []string{"Administered medication administration and monitored vital signs."}
	got := extractSkills(lines[0], lines)
	assert.Contains(t, got, "Medication Administration")
	assert.Contains(t, got, "Vital Signs")
}
