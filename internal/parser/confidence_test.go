package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nurse-ats-go/internal/types"
)

func strongExperience() types.ExperienceEntry {
	return types.ExperienceEntry{
		Position:  types.StrPtr("Staff Nurse"),
		Employer:  types.StrPtr("Makati Medical Center"),
		Type:      types.ExperienceEmployment,
		StartDate: types.StrPtr("May 2019"),
	}
}

func TestScoreConfidenceNilAndEmpty(t *testing.T) {
	assert.Equal(t, 0, ScoreConfidence(nil, ""))
	assert.Equal(t, 0, ScoreConfidence(&types.ParsedResume{}, ""))
}

func TestScoreConfidenceCompleteEntry(t *testing.T) {
	record := &types.ParsedResume{Experience: []types.ExperienceEntry{strongExperience()}}
	assert.Equal(t, 30, ScoreConfidence(record, ""))
}

func TestScoreConfidenceWeakEducationOnly(t *testing.T) {
	record := &types.ParsedResume{
		Education: []types.EducationEntry{{Degree: types.StrPtr("BSN")}},
	}
	assert.Equal(t, 8, ScoreConfidence(record, ""), "degree without institution is a weak signal")
}

func TestScoreConfidenceStrongEducation(t *testing.T) {
	record := &types.ParsedResume{
		Education: []types.EducationEntry{{
			Degree:      types.StrPtr("Bachelor of Science in Nursing"),
			Institution: types.StrPtr("University of Santo Tomas"),
		}},
	}
	assert.Equal(t, 25, ScoreConfidence(record, ""))
}

func TestScoreConfidenceCapsAtHundred(t *testing.T) {
	exp := strongExperience()
	exp.Description = types.StrPtr("• Administered IV medications")
	record := &types.ParsedResume{
		Summary: types.StrPtr("Registered nurse with five years of med-surg experience."),
		Address: types.StrPtr("Quezon City, Philippines"),
		Skills:  []string{"IV Therapy", "Triage", "Wound Care"},
		Certifications: []types.Certification{
			{Type: "PRC License"},
		},
		Experience: []types.ExperienceEntry{exp},
		Education: []types.EducationEntry{{
			Degree:      types.StrPtr("Bachelor of Science in Nursing"),
			Institution: types.StrPtr("University of Santo Tomas"),
		}},
	}
	assert.Equal(t, 100, ScoreConfidence(record, ""))
}

func TestScoreConfidenceInsaneEmployerShapeNotCredited(t *testing.T) {
	exp := strongExperience()
	exp.Employer = types.StrPtr("responsible for assisting doctors with ward duties and all daily patient rounds.")
	record := &types.ParsedResume{Experience: []types.ExperienceEntry{exp}}
	assert.Equal(t, 5, ScoreConfidence(record, ""), "a sentence-shaped employer only earns the base signal")
}

func TestScoreConfidenceMajorityIncompletePenalty(t *testing.T) {
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{
			{Position: types.StrPtr("Staff Nurse"), StartDate: types.StrPtr("2019")},
		},
	}
	assert.Equal(t, 0, ScoreConfidence(record, ""), "mostly incomplete entries drag the signal below zero")
}

func TestScoreConfidenceWorkHistoryPenalty(t *testing.T) {
	record := &types.ParsedResume{
		Education: []types.EducationEntry{{
			Degree:      types.StrPtr("Bachelor of Science in Nursing"),
			Institution: types.StrPtr("University of Santo Tomas"),
		}},
	}
	raw := "WORK EXPERIENCE\nStaff Nurse at a hospital for years"
	assert.Equal(t, 10, ScoreConfidence(record, raw),
		"work history in the text with no extracted entries costs 15")
}

func TestScoreConfidenceClinicalPlacementPenalty(t *testing.T) {
	record := &types.ParsedResume{Experience: []types.ExperienceEntry{strongExperience()}}
	raw := "CLINICAL PLACEMENT\nMedical Ward, Philippine General Hospital"
	assert.Equal(t, 15, ScoreConfidence(record, raw))

	clinical := strongExperience()
	clinical.Type = types.ExperienceClinicalPlacement
	record = &types.ParsedResume{Experience: []types.ExperienceEntry{clinical}}
	assert.Equal(t, 30, ScoreConfidence(record, raw),
		"no penalty once a clinical entry was actually extracted")
}

func TestScoreConfidenceLLMPathSkipsTextPenalties(t *testing.T) {
	record := &types.ParsedResume{Experience: []types.ExperienceEntry{strongExperience()}}
	raw := "CLINICAL PLACEMENT rotation notes"
	assert.Less(t, ScoreConfidence(record, raw), ScoreConfidence(record, ""),
		"an empty rawText disables the targeted penalties")
}
