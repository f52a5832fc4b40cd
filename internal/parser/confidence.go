package parser

import (
	"regexp"
	"strings"

	"nurse-ats-go/internal/types"
)

// Confidence scoring for a parsed record, 0–100. The raw text, when given,
// contributes targeted penalties for known failure modes (work history in the
// text but no extracted entries, clinical-placement sections that produced no
// clinical entries). Scoring is pure: same inputs, same score.

var (
	workKeywordsRe        = regexp.MustCompile(`(?i)\b(?:work\s+experience|employment|professional\s+experience|work\s+history|job\s+history)\b`)
	clinicalSectionTextRe = regexp.MustCompile(`(?i)\bclinical\s+(?:placement|rotation|consolidation\s+hours?)\b`)
)

const (
	maxConfidence = 100

	saneEmployerMaxWords = 8
	sanePositionMaxLen   = 60
)

// ScoreConfidence rates record against the signal table above. rawText may be
// empty (the LLM path is scored without raw-text penalties).
func ScoreConfidence(record *types.ParsedResume, rawText string) int {
	if record == nil {
		return 0
	}
	score := 0

	score += scoreExperienceSignals(record.Experience)

	if hasStrongEducation(record.Education) {
		score += 25
	} else if len(record.Education) > 0 {
		score += 8
	}

	if record.Summary != nil && len(*record.Summary) > 30 {
		score += 10
	}
	if len(record.Certifications) >= 1 {
		score += 10
	}
	if len(record.Skills) >= 3 {
		score += 10
	}
	if record.Address != nil {
		score += 5
	}
	for _, e := range record.Experience {
		if e.Description != nil {
			score += 10
			break
		}
	}

	if rawText != "" {
		if workKeywordsRe.MatchString(rawText) && len(record.Experience) == 0 {
			score -= 15
		}
		if clinicalSectionTextRe.MatchString(rawText) && !hasClinicalEntry(record.Experience) {
			score -= 15
		}
	}

	if score < 0 {
		score = 0
	}
	if score > maxConfidence {
		score = maxConfidence
	}
	return score
}

func scoreExperienceSignals(entries []types.ExperienceEntry) int {
	if len(entries) == 0 {
		return 0
	}

	score := 5
	for _, e := range entries {
		if e.Position != nil && e.Employer != nil && e.StartDate != nil && hasSaneShape(e) {
			score = 30
			break
		}
	}

	incomplete := 0
	for _, e := range entries {
		if e.Position == nil || e.Employer == nil {
			incomplete++
		}
	}
	if incomplete*2 > len(entries) {
		score -= 15
	}
	return score
}

// hasSaneShape guards against prose masquerading as an entry: a short
// position, an employer of at most eight words, and no sentence punctuation
// ending the employer.
func hasSaneShape(e types.ExperienceEntry) bool {
	if e.Position == nil || len(*e.Position) >= sanePositionMaxLen {
		return false
	}
	if e.Employer == nil {
		return false
	}
	if len(strings.Fields(*e.Employer)) > saneEmployerMaxWords {
		return false
	}
	return !endsWithStop(*e.Employer)
}

func hasStrongEducation(entries []types.EducationEntry) bool {
	for _, e := range entries {
		if e.Degree != nil && e.Institution != nil && len(*e.Institution) < 80 {
			return true
		}
	}
	return false
}

func hasClinicalEntry(entries []types.ExperienceEntry) bool {
	for _, e := range entries {
		if e.Type == types.ExperienceClinicalPlacement {
			return true
		}
	}
	return false
}
