package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"nurse-ats-go/internal/types"
)

// Date handling for the extraction boundary. Ranges are normalised to
// "Month Year" / "Year" strings here; the persistence boundary converts to
// ISO via ToDateString.

const monthAlt = `Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?`

// The en dash, em dash, hyphen, non-breaking hyphen, and the literal "to" all
// separate range halves in the wild.
const rangeSep = `\s*(?:–|—|‑|-|\bto\b)\s*`

var (
	// "July 2009 – Jan 2010", "Jan 2020 - Present"
	monthYearRangeRe = regexp.MustCompile(`(?i)\b((?:` + monthAlt + `)\.?\s+\d{4})` + rangeSep + `((?:` + monthAlt + `)\.?\s+\d{4}|Present|Current)\b`)

	// "March 15, 2018 to March 18, 2018"
	fullDateRangeRe = regexp.MustCompile(`(?i)\b((?:` + monthAlt + `)\.?\s+\d{1,2},?\s*\d{4})` + rangeSep + `((?:` + monthAlt + `)\.?\s+\d{1,2},?\s*\d{4}|Present|Current)\b`)

	// "2015 – 2018", "2019 - Present"
	yearRangeRe = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})` + rangeSep + `((?:19|20)\d{2}|Present|Current)\b`)

	// Guards against false anchors.
	semesterRe     = regexp.MustCompile(`(?i)\b(?:1st|2nd|3rd|4th)\s+Semester\b`)
	quotedTitleRe  = regexp.MustCompile(`^\s*[:\-–—]?\s*["“”'][^"“”']{4,}["“”']\s*$`)
	bulletPrefixRe = regexp.MustCompile(`^\s*(?:[•◦▪●‣·*]|-\s)`)

	presentRe = regexp.MustCompile(`(?i)^(?:present|current)$`)

	monthDayRe = regexp.MustCompile(`(?i)\b(` + monthAlt + `)\.?\s+\d{1,2},?\s*(\d{4})\b`)

	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthYearRe = regexp.MustCompile(`(?i)^(` + monthAlt + `)\.?\s+(\d{4})$`)
	bareYearRe  = regexp.MustCompile(`^(?:19|20)\d{2}$`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// dateRange is one matched anchor: normalised start/end strings plus the
// matched span inside the line.
type dateRange struct {
	Start    string // "Month Year" or "Year"
	End      string // same, or "Present"/"Current"
	StartIdx int
	EndIdx   int
}

// findDateRange scans line for any supported range shape. It is a clean scan
// per call; no cursor survives between invocations.
func findDateRange(line string) *dateRange {
	// Most specific first so "March 15, 2018 to March 18, 2018" is not read
	// as a month-year range with trailing noise.
	if loc := fullDateRangeRe.FindStringSubmatchIndex(line); loc != nil {
		return &dateRange{
			Start:    normalizeDateToken(line[loc[2]:loc[3]]),
			End:      normalizeDateToken(line[loc[4]:loc[5]]),
			StartIdx: loc[0],
			EndIdx:   loc[1],
		}
	}
	if loc := monthYearRangeRe.FindStringSubmatchIndex(line); loc != nil {
		return &dateRange{
			Start:    normalizeDateToken(line[loc[2]:loc[3]]),
			End:      normalizeDateToken(line[loc[4]:loc[5]]),
			StartIdx: loc[0],
			EndIdx:   loc[1],
		}
	}
	if loc := yearRangeRe.FindStringSubmatchIndex(line); loc != nil {
		return &dateRange{
			Start:    strings.TrimSpace(line[loc[2]:loc[3]]),
			End:      strings.TrimSpace(line[loc[4]:loc[5]]),
			StartIdx: loc[0],
			EndIdx:   loc[1],
		}
	}
	return nil
}

// findExperienceAnchor is findDateRange plus the false-anchor guards:
// academic semesters, seminar entries with a quoted title, and bullet lines
// (whose year spans belong to description text).
func findExperienceAnchor(line string) *dateRange {
	if bulletPrefixRe.MatchString(line) {
		return nil
	}
	if semesterRe.MatchString(line) {
		return nil
	}
	dr := findDateRange(line)
	if dr == nil {
		return nil
	}
	if quotedTitleRe.MatchString(line[dr.EndIdx:]) {
		return nil
	}
	return dr
}

// normalizeDateToken reduces a matched half-range to "Month Year", "Year",
// "Present" or "Current". Day components are dropped.
func normalizeDateToken(tok string) string {
	tok = strings.TrimSpace(tok)
	if presentRe.MatchString(tok) {
		// Preserve the original capitalisation convention.
		if strings.EqualFold(tok, "current") {
			return "Current"
		}
		return "Present"
	}
	if m := monthDayRe.FindStringSubmatch(tok); m != nil {
		return m[1] + " " + m[2]
	}
	// Strip a trailing period from abbreviated months ("Jan. 2020").
	tok = strings.Replace(tok, ".", "", 1)
	return strings.Join(strings.Fields(tok), " ")
}

// isPresentToken reports whether s means "still ongoing".
func isPresentToken(s string) bool {
	return presentRe.MatchString(strings.TrimSpace(s))
}

// parseFlexibleDate turns "Month Year" or "Year" into a time anchored at the
// first of the month/year.
func parseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		month, ok := monthNumbers[strings.ToLower(m[1])[:3]]
		if !ok {
			return time.Time{}, false
		}
		year, err := strconv.Atoi(m[2])
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
	}
	if bareYearRe.MatchString(s) {
		year, _ := strconv.Atoi(s)
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}
	if isoDateRe.MatchString(s) {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// monthsBetween counts whole months from start to end, clamped at zero.
func monthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// ComputeTenureMonths sums the span of every entry whose start date parses.
// Missing or "Present"/"Current" end dates count up to now. Overlapping
// entries double-count; the tenure figure is a best-effort aggregate, not a
// calendar reconciliation.
func ComputeTenureMonths(entries []types.ExperienceEntry, now time.Time) int {
	total := 0
	for _, e := range entries {
		if e.StartDate == nil {
			continue
		}
		start, ok := parseFlexibleDate(*e.StartDate)
		if !ok {
			continue
		}
		end := now
		if e.EndDate != nil && !isPresentToken(*e.EndDate) {
			if parsed, ok := parseFlexibleDate(*e.EndDate); ok {
				end = parsed
			}
		}
		total += monthsBetween(start, end)
	}
	return total
}

// ComputeYearsOfExperience floors the aggregate tenure into whole years.
func ComputeYearsOfExperience(entries []types.ExperienceEntry, now time.Time) int {
	return YearsFromMonths(ComputeTenureMonths(entries, now))
}

// YearsFromMonths floors a month total into whole years.
func YearsFromMonths(months int) int {
	if months < 0 {
		return 0
	}
	return months / 12
}

// ToDateString maps an extraction-layer date to the persistence format:
// ISO input passes through, "Month Year" becomes "YYYY-MM-01", anything else
// (including bare years and "Present") maps to nil.
func ToDateString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if isoDateRe.MatchString(s) {
		return &s
	}
	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		month, ok := monthNumbers[strings.ToLower(m[1])[:3]]
		if !ok {
			return nil
		}
		iso := fmt.Sprintf("%s-%02d-01", m[2], month)
		return &iso
	}
	return nil
}
