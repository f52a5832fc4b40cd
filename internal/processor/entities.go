package processor

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"nurse-ats-go/internal/parser"
	"nurse-ats-go/internal/storage/models"
	"nurse-ats-go/internal/types"
)

// Conversion from the extraction record to relational rows. The sentinel
// start date keeps the not-null start_date column honest when a resume gave
// an entry no dates at all.
const experienceStartSentinel = "1900-01-01"

const maxEmployerWords = 8

// buildEntitySet maps a parsed record onto the per-profile row set.
func buildEntitySet(profileID string, record *types.ParsedResume) *models.ExtractedEntities {
	entities := &models.ExtractedEntities{}
	if record == nil {
		return entities
	}

	for _, entry := range record.Experience {
		row := models.NurseExperience{
			ProfileID:  profileID,
			Position:   deref(entry.Position),
			Type:       string(entry.Type),
			Department: deref(entry.Department),
			Location:   deref(entry.Location),
		}
		if row.Type == "" {
			row.Type = string(types.ExperienceEmployment)
		}
		if entry.Employer != nil && !employerLooksLikeSentence(*entry.Employer) {
			row.Employer = *entry.Employer
		}
		if entry.Description != nil {
			row.Description = *entry.Description
		}

		row.StartDate = toSQLDate(parser.ToDateString(deref(entry.StartDate)))
		if row.StartDate == nil {
			sentinel := experienceStartSentinel
			row.StartDate = toSQLDate(&sentinel)
		}
		// "Present" maps to nil here, which is exactly the open-ended row.
		row.EndDate = toSQLDate(parser.ToDateString(deref(entry.EndDate)))

		if row.Employer == "" && row.Position == "" {
			continue
		}
		entities.Experience = append(entities.Experience, row)
	}

	for _, entry := range record.Education {
		row := models.NurseEducation{
			ProfileID:           profileID,
			Institution:         deref(entry.Institution),
			Degree:              deref(entry.Degree),
			FieldOfStudy:        deref(entry.FieldOfStudy),
			Year:                entry.Year,
			InstitutionLocation: deref(entry.InstitutionLocation),
			Status:              deref(entry.Status),
		}
		row.StartDate = toSQLDate(parser.ToDateString(deref(entry.StartDate)))
		row.EndDate = toSQLDate(parser.ToDateString(deref(entry.EndDate)))

		if row.Institution == "" && row.Degree == "" {
			continue
		}
		entities.Education = append(entities.Education, row)
	}

	for _, skill := range record.Skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		entities.Skills = append(entities.Skills, models.NurseSkill{
			ProfileID: profileID,
			Name:      truncate(skill, 255),
		})
	}

	for _, cert := range record.Certifications {
		entities.Certifications = append(entities.Certifications, models.NurseCertification{
			ProfileID: profileID,
			Type:      cert.Type,
			Number:    deref(cert.Number),
			Score:     deref(cert.Score),
		})
	}
	return entities
}

// employerLooksLikeSentence rejects prose that slipped through extraction:
// too many words, subordinating prose patterns, or sentence punctuation at
// the end.
func employerLooksLikeSentence(employer string) bool {
	employer = strings.TrimSpace(employer)
	if len(strings.Fields(employer)) > maxEmployerWords {
		return true
	}
	if parser.ContainsSubordinatingProse(employer) {
		return true
	}
	return strings.HasSuffix(employer, ".") || strings.HasSuffix(employer, "!")
}

func toSQLDate(iso *string) *datatypes.Date {
	if iso == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *iso)
	if err != nil {
		return nil
	}
	d := datatypes.Date(t)
	return &d
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
