package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"nurse-ats-go/internal/types"
)

// Degree-anchored education extraction, restricted to the education window.
// Degree patterns run most-specific-first; the two-letter abbreviations
// require periods so prose words ("as", "ma") cannot anchor an entry.

var degreePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:Bachelor|Master|Doctor)\s+of\s+(?:Science|Arts|Philosophy|Education|Business\s+Administration)(?:\s+in\s+[A-Za-z][A-Za-z &\-]{2,60})?`),
	regexp.MustCompile(`(?i)\b(?:Bachelor|Master)\s+of\s+[A-Z][A-Za-z]{2,30}(?:\s+in\s+[A-Za-z][A-Za-z &\-]{2,60})?`),
	regexp.MustCompile(`\bBSN\b`),
	regexp.MustCompile(`(?i)\b(?:Chemical|Mechanical|Electrical|Civil)\s+Engineering\s+Technology\b`),
	regexp.MustCompile(`\bB\.S\.(?:\s*(?:in\s+)?[A-Z][A-Za-z &\-]{2,50})?`),
	regexp.MustCompile(`\bB\.A\.(?:\s*(?:in\s+)?[A-Z][A-Za-z &\-]{2,50})?`),
	regexp.MustCompile(`\bM\.S\.(?:\s*(?:in\s+)?[A-Z][A-Za-z &\-]{2,50})?`),
	regexp.MustCompile(`\bM\.A\.(?:\s*(?:in\s+)?[A-Z][A-Za-z &\-]{2,50})?`),
	regexp.MustCompile(`\bMBA\b`),
	regexp.MustCompile(`\bPh\.?D\.?\b`),
	regexp.MustCompile(`(?i)\bAssociate(?:'s)?\s+(?:Degree|of\s+[A-Za-z][A-Za-z &\-]{2,40}|in\s+[A-Za-z][A-Za-z &\-]{2,40})`),
}

var (
	fieldOfStudyRe = regexp.MustCompile(`(?i)^\s*(?:Focus\s+on|Major\s+in|Specializ(?:ation|ing\s+in)|Concentration(?:\s+in)?|Emphasis(?:\s+on|in)?)[:\s]+(.+)$`)
	statusRe       = regexp.MustCompile(`(?i)\b(?:(?:1st|2nd|3rd|4th|5th)\s+Year\s+Student|(?:Freshman|Sophomore|Junior|Senior)\s+Year|Graduated|Graduate|Undergraduate)\b`)

	graduatedDateRe = regexp.MustCompile(`(?i)\bGraduated[:\s]+(?:(` + monthAlt + `)\.?\s+)?(\d{4})\b`)
	eduYearRangeRe  = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\s*(?:–|—|‑|-|to)\s*((?:19|20)\d{2}|Present|Current)\b`)
	bareYearCtxRe   = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

	eduSubLabelRe   = regexp.MustCompile(`(?i)^\s*(?:Graduate\s+Studies|Undergraduate|Tertiary|Secondary|Primary|College|Vocational)\s*:\s*`)
	trailingYearsRe = regexp.MustCompile(`[\s,(-]*(?:19|20)\d{2}(?:\s*(?:–|—|‑|-|to)\s*(?:(?:19|20)\d{2}|Present|Current))?[\s,)-]*$`)
)

const (
	institutionSearchRadius = 3
	institutionMaxLen       = 150
	eduDateLookahead        = 5
	eduLocationBack         = 2
	eduLocationForward      = 6
)

// extractEducation emits one entry per matched degree line inside the
// education window.
func extractEducation(lines []string, now time.Time) []types.EducationEntry {
	start, end := findEducationWindow(lines)
	if start < 0 {
		return nil
	}
	window := lines[start:end]

	var entries []types.EducationEntry
	usedLines := map[int]bool{}

	for i, line := range window {
		if usedLines[i] {
			continue
		}
		degree := matchDegree(line)
		if degree == "" {
			continue
		}
		usedLines[i] = true
		entries = append(entries, buildEducationEntry(window, i, degree, now))
	}
	return entries
}

func matchDegree(line string) string {
	for _, re := range degreePatterns {
		if m := re.FindString(line); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func buildEducationEntry(window []string, degreeIdx int, degree string, now time.Time) types.EducationEntry {
	entry := types.EducationEntry{Degree: types.StrPtr(degree)}

	// Field of study within the next two lines.
	for j := degreeIdx + 1; j <= degreeIdx+2 && j < len(window); j++ {
		if m := fieldOfStudyRe.FindStringSubmatch(window[j]); m != nil {
			entry.FieldOfStudy = types.StrPtr(strings.TrimSpace(m[1]))
			break
		}
	}

	// Status within the next three lines. A "Graduated: May 2016" line is a
	// date, not a status.
	for j := degreeIdx; j <= degreeIdx+3 && j < len(window); j++ {
		if graduatedDateRe.MatchString(window[j]) {
			continue
		}
		if m := statusRe.FindString(window[j]); m != "" {
			entry.Status = types.StrPtr(strings.TrimSpace(m))
			break
		}
	}

	// Institution: three lines back, then three lines forward.
	instIdx := -1
	for d := 1; d <= institutionSearchRadius && instIdx < 0; d++ {
		if j := degreeIdx - d; j >= 0 && isInstitutionLine(window[j]) {
			instIdx = j
		}
	}
	for d := 1; d <= institutionSearchRadius && instIdx < 0; d++ {
		if j := degreeIdx + d; j < len(window) && isInstitutionLine(window[j]) {
			instIdx = j
		}
	}
	if instIdx >= 0 {
		institution, location := cleanInstitution(window[instIdx])
		if institution != "" {
			entry.Institution = types.StrPtr(institution)
		}
		if location != "" {
			entry.InstitutionLocation = types.StrPtr(location)
		}
	}

	resolveEducationDates(&entry, window, degreeIdx, now)

	// Location from the neighbourhood when the institution line had none.
	if entry.InstitutionLocation == nil {
		lo := degreeIdx - eduLocationBack
		if lo < 0 {
			lo = 0
		}
		hi := degreeIdx + eduLocationForward
		if hi >= len(window) {
			hi = len(window) - 1
		}
		for j := lo; j <= hi; j++ {
			text := strings.TrimSpace(window[j])
			if isLocationShape(text) && containsRegionKeyword(text) {
				entry.InstitutionLocation = types.StrPtr(text)
				break
			}
		}
	}
	return entry
}

func isInstitutionLine(line string) bool {
	text := strings.TrimSpace(line)
	if text == "" || len(text) >= institutionMaxLen {
		return false
	}
	if isAllCapsHeader(text, minHeaderLen) {
		return false
	}
	return institutionRe.MatchString(text)
}

// cleanInstitution strips education sub-labels, trailing year spans, and a
// trailing location segment. Pipe-separated lines split directly.
func cleanInstitution(line string) (string, string) {
	text := strings.TrimSpace(line)
	text = eduSubLabelRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(trailingYearsRe.ReplaceAllString(text, ""))

	if strings.Contains(text, "|") {
		parts := strings.SplitN(text, "|", 2)
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}

	// "University of the Philippines, Manila": peel a short trailing
	// location segment.
	if idx := strings.LastIndex(text, ","); idx > 0 {
		head := strings.TrimSpace(text[:idx])
		tail := strings.TrimSpace(text[idx+1:])
		if tail != "" && len(tail) < 40 && !institutionRe.MatchString(tail) {
			return head, tail
		}
	}
	return text, ""
}

func resolveEducationDates(entry *types.EducationEntry, window []string, degreeIdx int, now time.Time) {
	ceiling := now.Year() + 6

	// The degree line itself: "Graduated: May 2016".
	if m := graduatedDateRe.FindStringSubmatch(window[degreeIdx]); m != nil {
		if year := parseBoundedYear(m[2], ceiling); year != nil {
			entry.Year = year
			if m[1] != "" {
				entry.EndDate = types.StrPtr(m[1] + " " + m[2])
			}
			return
		}
	}

	// Next five lines: range first, then a bare year in education context.
	hi := degreeIdx + eduDateLookahead
	if hi >= len(window) {
		hi = len(window) - 1
	}
	for j := degreeIdx; j <= hi; j++ {
		line := window[j]
		if m := graduatedDateRe.FindStringSubmatch(line); m != nil {
			if year := parseBoundedYear(m[2], ceiling); year != nil {
				entry.Year = year
				if m[1] != "" {
					entry.EndDate = types.StrPtr(m[1] + " " + m[2])
				}
				return
			}
		}
		if m := eduYearRangeRe.FindStringSubmatch(line); m != nil {
			entry.StartDate = types.StrPtr(m[1])
			if isPresentToken(m[2]) {
				entry.EndDate = types.StrPtr(normalizeDateToken(m[2]))
				// Still enrolled: no graduation year.
				return
			}
			entry.EndDate = types.StrPtr(m[2])
			entry.Year = parseBoundedYear(m[2], ceiling)
			return
		}
	}
	for j := degreeIdx; j <= hi; j++ {
		line := window[j]
		if !educationKeywordRe.MatchString(line) && j != degreeIdx {
			continue
		}
		if m := bareYearCtxRe.FindStringSubmatch(line); m != nil {
			if year := parseBoundedYear(m[1], ceiling); year != nil {
				entry.Year = year
				return
			}
		}
	}
}

func parseBoundedYear(s string, ceiling int) *int {
	year, err := strconv.Atoi(s)
	if err != nil || year < graduationYearFloor || year > ceiling {
		return nil
	}
	return &year
}
