package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Stateless extractors for the scalar fields: summary, address, graduation
// year, and salary.

var summaryHeaderRe = regexp.MustCompile(`(?i)^\s*(?:PROFESSIONAL\s+SUMMARY|CAREER\s+SUMMARY|EXECUTIVE\s+SUMMARY|SUMMARY|CAREER\s+OBJECTIVES?|OBJECTIVES?|ABOUT\s+ME|PROFESSIONAL\s+PROFILE|PROFILE|PERSONAL\s+STATEMENT|OVERVIEW)\s*:?\s*$`)

const (
	summaryMinLen    = 20
	summaryMaxLen    = 1500
	summaryScanLimit = 600
)

// extractSummary captures the block under a summary/objective header, up to
// the next ALL-CAPS header or 600 characters, joined with single spaces.
func extractSummary(lines []string) *string {
	start := -1
	for i, line := range lines {
		if summaryHeaderRe.MatchString(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var parts []string
	total := 0
	for i := start + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			if len(parts) > 0 {
				break
			}
			continue
		}
		if isAllCapsHeader(line, minHeaderLen) {
			break
		}
		parts = append(parts, line)
		total += len(line)
		if total >= summaryScanLimit {
			break
		}
	}

	summary := strings.Join(parts, " ")
	if len(summary) > summaryScanLimit {
		summary = strings.TrimSpace(summary[:summaryScanLimit])
	}
	if len(summary) < summaryMinLen || len(summary) > summaryMaxLen {
		return nil
	}
	return &summary
}

var (
	educationKeywordRe = regexp.MustCompile(`(?i)graduat|Bachelor|Master|Doctorate|Ph\.?D|degree|diploma|university|college|B\.S|M\.S|MBA|B\.A|M\.A`)
	fourDigitYearRe    = regexp.MustCompile(`\b(19[6-9]\d|20\d{2})\b`)
	graduateTokenRe    = regexp.MustCompile(`(?i)graduat`)
)

const graduationYearFloor = 1960

// extractGraduationYear scans education-flavoured lines for a plausible year,
// falling back to a 4-line window around any "graduat" token.
func extractGraduationYear(lines []string, now time.Time) *int {
	ceiling := now.Year() + 6

	for _, line := range lines {
		if !educationKeywordRe.MatchString(line) {
			continue
		}
		if y := findYearInRange(line, ceiling); y != nil {
			return y
		}
	}

	// Fallback: the year often sits on a neighbouring line.
	for i, line := range lines {
		if !graduateTokenRe.MatchString(line) {
			continue
		}
		lo, hi := i-2, i+2
		if lo < 0 {
			lo = 0
		}
		if hi >= len(lines) {
			hi = len(lines) - 1
		}
		for j := lo; j <= hi; j++ {
			if y := findYearInRange(lines[j], ceiling); y != nil {
				return y
			}
		}
	}
	return nil
}

func findYearInRange(line string, ceiling int) *int {
	for _, m := range fourDigitYearRe.FindAllString(line, -1) {
		year, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if year >= graduationYearFloor && year <= ceiling {
			return &year
		}
	}
	return nil
}

var salaryRe = regexp.MustCompile(`(?i)(?:(?:salary|compensation|pay|wage)[^\n]{0,20}?)?((?:PHP|₱|\$|USD)\s?\d[\d,]*(?:\.\d+)?(?:\s*k)?)`)

// extractSalary returns the first currency-prefixed amount, raw.
func extractSalary(text string) *string {
	m := salaryRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	s := strings.TrimSpace(m[1])
	return &s
}

var (
	phoneLikeRe   = regexp.MustCompile(`(?:\+?\d[\d\s().-]{6,}\d)`)
	emailLikeRe   = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.]+`)
	urlLikeRe     = regexp.MustCompile(`(?i)(?:https?://|www\.|linkedin\.com)`)
	cityRegionRe  = regexp.MustCompile(`^[A-Z][A-Za-zñÑ'. -]+,\s*[A-Z][A-Za-zñÑ'. -]+(?:,\s*[A-Z][A-Za-zñÑ'. -]+)?$`)
	institutionRe = regexp.MustCompile(`(?i)\b(?:University|College|Institute|School|Academy|Polytechnic)\b`)
)

const (
	addressScanLimit = 1500
	addressMinLen    = 10
	addressMaxLen    = 150
)

// extractAddress picks the first header-area line that looks like a postal
// line and not like contact details, a section header, or a school name.
func extractAddress(text string) *string {
	header := text
	if len(header) > addressScanLimit {
		header = header[:addressScanLimit]
	}

	for _, raw := range strings.Split(header, "\n") {
		line := strings.TrimSpace(raw)
		if len(line) < addressMinLen || len(line) > addressMaxLen {
			continue
		}
		if emailLikeRe.MatchString(line) || urlLikeRe.MatchString(line) {
			continue
		}
		if phoneLikeRe.MatchString(line) && !containsRegionKeyword(line) {
			continue
		}
		if isAllCapsHeader(line, minHeaderLen) {
			continue
		}
		if institutionRe.MatchString(line) {
			continue
		}
		if findDateRange(line) != nil {
			continue
		}
		if cityRegionRe.MatchString(line) || containsRegionKeyword(line) {
			return &line
		}
	}
	return nil
}
