package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// Section headers are ALL-CAPS lines of sufficient length, optionally suffixed
// with ":". The experience extractor additionally masks every region opened by
// a disqualifying header so academic terms, seminars, references and the like
// can never produce experience entries.

const (
	// minHeaderLen is the shortest line treated as a section header when
	// closing a masked region.
	minHeaderLen = 8
	// minEducationTerminatorLen is the (stricter) minimum for the header that
	// terminates the education window.
	minEducationTerminatorLen = 10
	// headerUppercaseRatio is the share of letters that must be uppercase.
	headerUppercaseRatio = 0.7
)

// excludedSectionPatterns open regions that must not yield experience entries.
var excludedSectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*EDUCATION`),
	regexp.MustCompile(`(?i)^\s*HONORS?\s*(?:&|AND)\s*AWARDS?\b`),
	regexp.MustCompile(`(?i)^\s*SEMINARS?\s*(?:/|&|AND)?\s*TRAININGS?(?:\s+ATTENDED)?\b`),
	regexp.MustCompile(`(?i)^\s*TRAININGS?\s*(?:/|&|AND)?\s*SEMINARS?(?:\s+ATTENDED)?\b`),
	regexp.MustCompile(`(?i)^\s*CLINICAL\s+INTERNSHIP`),
	regexp.MustCompile(`(?i)^\s*PERSONAL\s+INFORMATION`),
	regexp.MustCompile(`(?i)^\s*CHARACTER\s+REFERENCES?`),
	regexp.MustCompile(`(?i)^\s*MEMBERSHIPS?\b`),
	regexp.MustCompile(`(?i)^\s*LICENSES?\s*(?:&|AND)\s*CERTIFICATIONS?\b`),
	regexp.MustCompile(`(?i)^\s*CONTINUING\s+EDUCATION`),
	regexp.MustCompile(`(?i)^\s*ADDITIONAL\s+INFORMATION`),
}

// educationHeaderPatterns locate the education window, longest pattern first
// so "EDUCATIONAL BACKGROUND" is not cut short by a bare "EDUCATION" match.
var educationHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*EDUCATIONAL\s+BACKGROUND\b`),
	regexp.MustCompile(`(?i)^\s*EDUCATIONAL\s+ATTAINMENT\b`),
	regexp.MustCompile(`(?i)^\s*ACADEMIC\s+BACKGROUND\b`),
	regexp.MustCompile(`(?i)^\s*ACADEMIC\s+QUALIFICATIONS\b`),
	regexp.MustCompile(`(?i)^\s*EDUCATION\s*&\s*CERTIFICATIONS\b`),
	regexp.MustCompile(`(?i)^\s*EDUCATION\b`),
}

// skillsHeaderRe locates a skills section for the second skills pass.
var skillsHeaderRe = regexp.MustCompile(`(?i)^\s*(?:TECHNICAL\s+SKILLS|PROFESSIONAL\s+SKILLS|CLINICAL\s+SKILLS|KEY\s+SKILLS|CORE\s+COMPETENCIES|COMPETENCIES|SKILLS|EXPERTISE|PROFICIENCIES|TECHNOLOGIES)\s*:?\s*$`)

// clinicalPlacementHeaderRe and volunteerHeaderRe are consulted by the
// experience-type post-processor.
var (
	clinicalPlacementHeaderRe = regexp.MustCompile(`(?i)^\s*CLINICAL\s+(?:PLACEMENTS?|ROTATIONS?|EXPERIENCE|EXPOSURES?|PRACTICUM)`)
	volunteerHeaderRe         = regexp.MustCompile(`(?i)^\s*VOLUNTEER\s+(?:EXPERIENCE|WORK|ACTIVITIES)`)
)

// isAllCapsHeader reports whether line is a section header of at least minLen
// characters: mostly-uppercase letters, an optional trailing colon, and no
// date range (date lines in all caps are entry anchors, not headers).
func isAllCapsHeader(line string, minLen int) bool {
	s := strings.TrimSpace(line)
	s = strings.TrimSuffix(s, ":")
	s = strings.TrimSpace(s)
	if len(s) < minLen {
		return false
	}

	letters, uppers := 0, 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	if letters == 0 {
		return false
	}
	if float64(uppers)/float64(letters) <= headerUppercaseRatio {
		return false
	}
	// A dated line is an anchor even when fully capitalised.
	return findDateRange(line) == nil
}

// buildExclusionMask marks every line inside a disqualified region. A region
// runs from its header to the next ALL-CAPS header of at least minHeaderLen
// characters.
func buildExclusionMask(lines []string) []bool {
	mask := make([]bool, len(lines))
	inExcluded := false

	for i, line := range lines {
		if isExcludedHeader(line) {
			inExcluded = true
			mask[i] = true
			continue
		}
		if inExcluded && isAllCapsHeader(line, minHeaderLen) {
			inExcluded = false
		}
		if inExcluded {
			mask[i] = true
		}
	}
	return mask
}

func isExcludedHeader(line string) bool {
	if !isAllCapsHeader(line, minHeaderLen) {
		return false
	}
	for _, re := range excludedSectionPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// findEducationWindow returns the half-open line range of the education
// section, or (-1, -1) when no education header exists.
func findEducationWindow(lines []string) (int, int) {
	start := -1
	for i, line := range lines {
		for _, re := range educationHeaderPatterns {
			if re.MatchString(line) && isAllCapsHeader(line, minHeaderLen) {
				start = i
				break
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return -1, -1
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if isAllCapsHeader(lines[i], minEducationTerminatorLen) {
			end = i
			break
		}
	}
	return start + 1, end
}

// findSkillsWindow returns the half-open line range below a skills header, or
// (-1, -1) when absent.
func findSkillsWindow(lines []string) (int, int) {
	start := -1
	for i, line := range lines {
		if skillsHeaderRe.MatchString(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return -1, -1
	}
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if isAllCapsHeader(lines[i], minHeaderLen) {
			end = i
			break
		}
	}
	return start + 1, end
}

// sectionSpan returns the body of the first section opened by headerRe,
// bounded by the next ALL-CAPS header. Used by the type post-processor to ask
// "does this employer appear under a CLINICAL PLACEMENT header".
func sectionSpan(lines []string, headerRe *regexp.Regexp) []string {
	for i, line := range lines {
		if headerRe.MatchString(line) {
			end := len(lines)
			for j := i + 1; j < len(lines); j++ {
				if isAllCapsHeader(lines[j], minHeaderLen) {
					end = j
					break
				}
			}
			return lines[i+1 : end]
		}
	}
	return nil
}
