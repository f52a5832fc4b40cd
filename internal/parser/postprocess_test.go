package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nurse-ats-go/internal/types"
)

func TestPostProcessNilRecord(t *testing.T) {
	assert.NotPanics(t, func() { PostProcess(nil, "some text") })
}

func TestInferExperienceTypesFromWording(t *testing.T) {
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{
			{Position: types.StrPtr("Student Nurse"), Type: types.ExperienceEmployment},
			{Position: types.StrPtr("Volunteer Nurse"), Type: types.ExperienceEmployment},
			{Position: types.StrPtr("OJT Nursing Aide"), Type: types.ExperienceEmployment},
			{Position: types.StrPtr("Staff Nurse"), Type: types.ExperienceEmployment},
		},
	}
	PostProcess(record, "")

	assert.Equal(t, types.ExperienceClinicalPlacement, record.Experience[0].Type)
	assert.Equal(t, types.ExperienceVolunteer, record.Experience[1].Type)
	assert.Equal(t, types.ExperienceOJT, record.Experience[2].Type)
	assert.Equal(t, types.ExperienceEmployment, record.Experience[3].Type)
}

func TestInferExperienceTypesFromSection(t *testing.T) {
	rawText := strings.Join([]string{
		"CLINICAL PLACEMENTS",
		"Philippine General Hospital, Medical Ward",
		"VOLUNTEER EXPERIENCE",
		"Philippine Red Cross chapter drives",
		"WORK EXPERIENCE",
		"Makati Medical Center",
	}, "\n")

	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{
			{Employer: types.StrPtr("Philippine General Hospital"), Type: types.ExperienceEmployment},
			{Employer: types.StrPtr("Philippine Red Cross"), Type: types.ExperienceEmployment},
			{Employer: types.StrPtr("Makati Medical Center"), Type: types.ExperienceEmployment},
		},
	}
	PostProcess(record, rawText)

	assert.Equal(t, types.ExperienceClinicalPlacement, record.Experience[0].Type)
	assert.Equal(t, types.ExperienceVolunteer, record.Experience[1].Type)
	assert.Equal(t, types.ExperienceEmployment, record.Experience[2].Type)
}

func TestInferExperienceTypesKeepsExplicitType(t *testing.T) {
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{
			{Position: types.StrPtr("Student Nurse"), Type: types.ExperienceVolunteer},
		},
	}
	PostProcess(record, "")
	assert.Equal(t, types.ExperienceVolunteer, record.Experience[0].Type,
		"an already classified entry is never reclassified")
}

func TestInferExperienceTypesDefaultsEmptyType(t *testing.T) {
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{
			{Position: types.StrPtr("Charge Sister")},
		},
	}
	PostProcess(record, "")
	assert.Equal(t, types.ExperienceEmployment, record.Experience[0].Type)
}

func TestRepairEmployerFromDescription(t *testing.T) {
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{{
			Position:    types.StrPtr("Staff Nurse"),
			Type:        types.ExperienceEmployment,
			Description: types.StrPtr("• Makati Medical Center\n• Cared for patients in the medical ward"),
		}},
	}
	PostProcess(record, "")

	e := record.Experience[0]
	require.NotNil(t, e.Employer)
	assert.Equal(t, "Makati Medical Center", *e.Employer)
	require.NotNil(t, e.Description)
	assert.Equal(t, "• Cared for patients in the medical ward", *e.Description)
}

func TestRepairEmployerSkipsSentences(t *testing.T) {
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{{
			Position:    types.StrPtr("Staff Nurse"),
			Type:        types.ExperienceEmployment,
			Description: types.StrPtr("• Provided bedside care in the hospital wing daily."),
		}},
	}
	PostProcess(record, "")
	assert.Nil(t, record.Experience[0].Employer, "sentence-shaped lines are never promoted")
}

func TestRepairEmployerConsumesSoleDescriptionLine(t *testing.T) {
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{{
			Type:        types.ExperienceEmployment,
			Description: types.StrPtr("• Chong Hua Hospital"),
		}},
	}
	PostProcess(record, "")
	e := record.Experience[0]
	require.NotNil(t, e.Employer)
	assert.Equal(t, "Chong Hua Hospital", *e.Employer)
	assert.Nil(t, e.Description)
}

func TestRepairEmployerDemotesUnitToDepartment(t *testing.T) {
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{{
			Position:    types.StrPtr("Staff Nurse"),
			Employer:    types.StrPtr("Dietary Unit"),
			Type:        types.ExperienceEmployment,
			Description: types.StrPtr("• Makati Medical Center | Makati, Metro Manila\n• Prepared therapeutic meal plans for patients"),
		}},
	}
	PostProcess(record, "")

	e := record.Experience[0]
	require.NotNil(t, e.Employer)
	assert.Equal(t, "Makati Medical Center", *e.Employer)
	require.NotNil(t, e.Department)
	assert.Equal(t, "Dietary Unit", *e.Department, "the displaced unit becomes the department")
	require.NotNil(t, e.Location)
	assert.Equal(t, "Makati, Metro Manila", *e.Location)
	require.NotNil(t, e.Description)
	assert.Equal(t, "• Prepared therapeutic meal plans for patients", *e.Description)
}

func TestRepairEmployerScansAllBullets(t *testing.T) {
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{{
			Position:    types.StrPtr("Staff Nurse"),
			Type:        types.ExperienceEmployment,
			Description: types.StrPtr("• Handled admissions and discharges\n• Chong Hua Hospital"),
		}},
	}
	PostProcess(record, "")

	e := record.Experience[0]
	require.NotNil(t, e.Employer)
	assert.Equal(t, "Chong Hua Hospital", *e.Employer)
	require.NotNil(t, e.Description)
	assert.Equal(t, "• Handled admissions and discharges", *e.Description)
}

func TestSanitizeDescriptionsDropsEchoes(t *testing.T) {
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{{
			Position:    types.StrPtr("Staff Nurse"),
			Employer:    types.StrPtr("Makati Medical Center"),
			Type:        types.ExperienceEmployment,
			Description: types.StrPtr("Staff Nurse\nMakati Medical Center branch\nAssisted in minor surgical procedures"),
		}},
	}
	PostProcess(record, "")

	e := record.Experience[0]
	require.NotNil(t, e.Description)
	assert.Equal(t, "• Assisted in minor surgical procedures", *e.Description)
}

func TestSanitizeDescriptionsDropsEmployerMentions(t *testing.T) {
	short := "Provided bedside care at Makati Medical Center every single day"
	long := "Worked closely with the interdisciplinary team at Makati Medical Center to coordinate long term rehabilitation plans for chronic stroke patients"
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{{
			Employer:    types.StrPtr("Makati Medical Center"),
			Type:        types.ExperienceEmployment,
			Description: types.StrPtr("• " + short + "\n• " + long),
		}},
	}
	PostProcess(record, "")

	e := record.Experience[0]
	require.NotNil(t, e.Description)
	assert.NotContains(t, *e.Description, short,
		"employer-mentioning bullets under 120 chars are decoration")
	assert.Equal(t, "• "+long, *e.Description,
		"long duty lines keep their employer mention")
}

func TestSanitizeDescriptionsKeepsLongBlocks(t *testing.T) {
	first := "Monitored vital signs, administered prescribed medication, and documented patient responses across a forty bed medical surgical ward during night shifts"
	second := "Coordinated discharge planning with social workers, physical therapists, and family members to reduce readmission rates for chronic care patients"
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{{
			Type:        types.ExperienceEmployment,
			Description: types.StrPtr(first + "\n" + second),
		}},
	}
	PostProcess(record, "")

	e := record.Experience[0]
	require.NotNil(t, e.Description)
	assert.Equal(t, "• "+first+"\n• "+second, *e.Description,
		"multi-bullet blocks are never cut mid-bullet")
	assert.Greater(t, len(*e.Description), 300)
}

func TestSanitizeDescriptionsDropsTooShort(t *testing.T) {
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{{
			Type:        types.ExperienceEmployment,
			Description: types.StrPtr("• ok"),
		}},
	}
	PostProcess(record, "")
	assert.Nil(t, record.Experience[0].Description)
}

func TestPostProcessIdempotent(t *testing.T) {
	record := &types.ParsedResume{
		Experience: []types.ExperienceEntry{{
			Position:    types.StrPtr("Student Nurse"),
			Type:        types.ExperienceEmployment,
			Description: types.StrPtr("• Makati Medical Center\n• Cared for patients in the medical ward"),
		}},
	}
	PostProcess(record, "")
	once := record.Experience[0]
	PostProcess(record, "")
	assert.Equal(t, once, record.Experience[0])
}
