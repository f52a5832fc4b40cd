package parser

import (
	"strings"
	"time"

	"nurse-ats-go/internal/types"
)

// ExtractResume is the rule-based extraction facade: pure, deterministic,
// no I/O. It splits text into lines once and hands the same view to every
// stage.
func ExtractResume(text string) *types.ParsedResume {
	return extractResumeAt(text, time.Now())
}

// extractResumeAt fixes "now" so year bounds and tenure are testable.
func extractResumeAt(text string, now time.Time) *types.ParsedResume {
	record := &types.ParsedResume{}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return record
	}
	lines := strings.Split(text, "\n")

	record.Summary = extractSummary(lines)
	record.Address = extractAddress(text)
	record.GraduationYear = extractGraduationYear(lines, now)
	record.Salary = extractSalary(text)
	record.Hospitals = extractHospitals(text)
	record.Skills = extractSkills(text, lines)
	record.Certifications = extractCertifications(text)

	mask := buildExclusionMask(lines)
	record.Experience = extractExperience(lines, mask)
	record.Education = extractEducation(lines, now)

	if len(record.Experience) > 0 {
		years := ComputeYearsOfExperience(record.Experience, now)
		record.YearsOfExperience = &years
	}
	return record
}
