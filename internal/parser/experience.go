package parser

import (
	"regexp"
	"strings"

	"nurse-ats-go/internal/types"
)

// Date-anchored experience extraction. Every line with a recognised date
// range (outside the exclusion mask, past the false-anchor guards) pivots one
// entry; position, employer, department and location are ranked out of the
// surrounding candidate windows.

const (
	beforeWindowSize = 3
	afterWindowSize  = 4

	sameLineFieldMin = 3
	sameLineFieldMax = 100

	descriptionMinLen = 10
	descriptionMaxLen = 300

	departmentMaxLen = 60
)

var (
	pageSeparatorRe = regexp.MustCompile(`^\s*-+\s*(?:Page\s+)?\d+\s*(?:of|/)\s*\d+\s*-+\s*$`)
	positionAtRe    = regexp.MustCompile(`(?i)^(.{3,80}?)\s+at\s+(.{3,100})$`)
	positionParenRe = regexp.MustCompile(`^(.{3,80}?)\s*\((.{3,100})\)$`)
	dashSplitRe     = regexp.MustCompile(`\s+[–—-]\s+`)
	edgeTrimRe      = regexp.MustCompile(`^[\s|,•·:;–—-]+|[\s|,•·:;–—-]+$`)
)

func trimEdges(s string) string {
	return edgeTrimRe.ReplaceAllString(s, "")
}

// extractExperience walks lines (with masked regions disabled) and emits one
// entry per surviving date anchor.
func extractExperience(lines []string, masked []bool) []types.ExperienceEntry {
	var entries []types.ExperienceEntry

	for i, line := range lines {
		if masked[i] {
			continue
		}
		anchor := findExperienceAnchor(line)
		if anchor == nil {
			continue
		}
		entry := buildEntry(lines, masked, i, anchor)
		if entry.StartDate != nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

func buildEntry(lines []string, masked []bool, anchorIdx int, anchor *dateRange) types.ExperienceEntry {
	line := lines[anchorIdx]
	entry := types.ExperienceEntry{
		Type:      types.ExperienceEmployment,
		StartDate: types.StrPtr(anchor.Start),
	}
	if anchor.End != "" {
		entry.EndDate = types.StrPtr(anchor.End)
	}

	var position, employer, department, location string
	positionLineIdx, employerLineIdx := -1, -1

	// 1. Same-line split around the date.
	beforeText := trimEdges(line[:anchor.StartIdx])
	afterText := trimEdges(line[anchor.EndIdx:])
	if n := len(beforeText); n >= sameLineFieldMin && n <= sameLineFieldMax && containsPositionKeyword(beforeText) {
		position = beforeText
		positionLineIdx = anchorIdx
	}
	if n := len(afterText); n >= sameLineFieldMin && n <= sameLineFieldMax {
		employer, location = splitEmployerLocation(afterText)
		employerLineIdx = anchorIdx
	}

	// 2. Candidate windows.
	before := collectBeforeWindow(lines, masked, anchorIdx)
	after := collectAfterWindow(lines, anchorIdx)

	// 3. Position ranking. A position found left of the date keeps priority
	// over any window candidate.
	if position == "" {
		if best, score, ok := bestPositionCandidate(before, after); ok && score > 0 {
			position = trimEdges(best.Text)
			positionLineIdx = best.LineIdx
		}
	}

	// 4. Employer ranking; fall back to a facility scan below the anchor.
	if employer == "" {
		beforeEmployer := filterCandidates(before, positionLineIdx)
		if best, score, ok := bestEmployerCandidate(beforeEmployer); ok && score > 0 {
			employer, location = splitEmployerLocationKeep(trimEdges(best.Text), location)
			employerLineIdx = best.LineIdx
		}
	}
	if employer == "" {
		for _, c := range after {
			if c.LineIdx == positionLineIdx {
				continue
			}
			text := trimEdges(c.Text)
			if isKnownFacility(text) || containsCompanyKeyword(text) {
				employer, location = splitEmployerLocationKeep(text, location)
				employerLineIdx = c.LineIdx
				break
			}
		}
	}

	// 5. Department: a short line stranded between the anchor and an
	// employer found below it.
	if employerLineIdx > anchorIdx {
		for j := anchorIdx + 1; j < employerLineIdx; j++ {
			text := strings.TrimSpace(lines[j])
			if text == "" || len(text) > departmentMaxLen {
				continue
			}
			if bulletPrefixRe.MatchString(lines[j]) || findDateRange(text) != nil {
				continue
			}
			if strings.EqualFold(text, position) || strings.EqualFold(text, employer) {
				continue
			}
			department = text
			break
		}
	}

	// Dash-suffixed positions carry the unit: "Staff Nurse – Medical
	// Oncology". A facility or company-shaped suffix is an employer instead.
	if position != "" {
		if parts := dashSplitRe.Split(position, 2); len(parts) == 2 {
			head, tail := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
			if head != "" && tail != "" {
				switch {
				case isKnownFacility(tail) || containsCompanyKeyword(tail):
					if employer == "" {
						employer = tail
						position = head
					}
				case department == "":
					department = tail
					position = head
				}
			}
		}
	}

	// 6. Remaining embedded forms.
	if position != "" && employer == "" {
		if m := positionParenRe.FindStringSubmatch(position); m != nil {
			position = strings.TrimSpace(m[1])
			employer, location = splitEmployerLocationKeep(strings.TrimSpace(m[2]), location)
		} else if m := positionAtRe.FindStringSubmatch(position); m != nil && containsPositionKeyword(m[1]) {
			position = strings.TrimSpace(m[1])
			employer, location = splitEmployerLocationKeep(strings.TrimSpace(m[2]), location)
		}
	}

	// 7. Location from the windows when no separator supplied one.
	if location == "" {
		location = findLocationLine(before)
	}
	if location == "" {
		location = findLocationLine(after)
	}

	// 8. Description bullets.
	description := collectDescription(lines, anchorIdx, position, employer, department, location)

	if position != "" {
		entry.Position = types.StrPtr(position)
	}
	if employer != "" {
		entry.Employer = types.StrPtr(employer)
	}
	if department != "" {
		entry.Department = types.StrPtr(department)
	}
	if location != "" {
		entry.Location = types.StrPtr(location)
	}
	if description != "" {
		entry.Description = types.StrPtr(description)
	}
	return entry
}

func collectBeforeWindow(lines []string, masked []bool, anchorIdx int) []candidate {
	var out []candidate
	for d := 1; d <= beforeWindowSize; d++ {
		j := anchorIdx - d
		if j < 0 {
			break
		}
		if masked[j] || isAllCapsHeader(lines[j], minHeaderLen) {
			// The lines above a header or mask belong to another section.
			break
		}
		if bulletPrefixRe.MatchString(lines[j]) {
			// Bullets are a previous entry's description.
			break
		}
		text := strings.TrimSpace(lines[j])
		if text == "" || findDateRange(text) != nil {
			continue
		}
		out = append(out, candidate{Text: text, LineIdx: j, Distance: d})
	}
	return out
}

func collectAfterWindow(lines []string, anchorIdx int) []candidate {
	var out []candidate
	for d := 1; d <= afterWindowSize; d++ {
		j := anchorIdx + d
		if j >= len(lines) {
			break
		}
		raw := lines[j]
		if bulletPrefixRe.MatchString(raw) || isAllCapsHeader(raw, minHeaderLen) || findExperienceAnchor(raw) != nil {
			break
		}
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		out = append(out, candidate{Text: text, LineIdx: j, Distance: d})
	}
	return out
}

func filterCandidates(cands []candidate, excludeIdx int) []candidate {
	if excludeIdx < 0 {
		return cands
	}
	out := cands[:0:0]
	for _, c := range cands {
		if c.LineIdx != excludeIdx {
			out = append(out, c)
		}
	}
	return out
}

func findLocationLine(cands []candidate) string {
	for _, c := range cands {
		text := strings.TrimSpace(c.Text)
		if len(text) < 80 && isLocationShape(text) {
			return text
		}
	}
	return ""
}

// splitEmployerLocation separates "Facility | City, State" shapes. Pipes and
// bullets split directly; otherwise a trailing comma segment ending in a
// known region peels off as the location.
func splitEmployerLocation(s string) (string, string) {
	for _, sep := range []string{"|", "•"} {
		if strings.Contains(s, sep) {
			parts := strings.SplitN(s, sep, 2)
			return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		}
	}

	parts := strings.Split(s, ",")
	if len(parts) >= 2 {
		last := strings.TrimSpace(parts[len(parts)-1])
		if containsRegionKeyword(last) {
			var locStart int
			if len(parts) >= 3 {
				locStart = len(parts) - 2
			} else {
				locStart = len(parts) - 1
			}
			employer := strings.TrimSpace(strings.Join(parts[:locStart], ","))
			location := strings.TrimSpace(strings.Join(parts[locStart:], ","))
			if employer != "" {
				return employer, location
			}
		}
	}
	return strings.TrimSpace(s), ""
}

// splitEmployerLocationKeep splits s but keeps an already-found location.
func splitEmployerLocationKeep(s, existing string) (string, string) {
	employer, location := splitEmployerLocation(s)
	if existing != "" {
		return employer, existing
	}
	return employer, location
}

// collectDescription gathers bullet lines below the anchor until a structural
// boundary, dropping decoration (the employer line, sole locations, repeats
// of the entry's own fields).
func collectDescription(lines []string, anchorIdx int, position, employer, department, location string) string {
	var bullets []string
	blanks := 0

	for j := anchorIdx + 1; j < len(lines); j++ {
		raw := lines[j]
		text := strings.TrimSpace(raw)

		if text == "" {
			blanks++
			if blanks >= 2 {
				break
			}
			continue
		}
		blanks = 0

		if pageSeparatorRe.MatchString(text) || isAllCapsHeader(text, minHeaderLen) {
			break
		}
		if findExperienceAnchor(raw) != nil {
			break
		}

		if equalsFold(text, position) || equalsFold(text, employer) ||
			equalsFold(text, location) || equalsFold(text, department) {
			continue
		}
		if employer != "" && len(text) < 120 && strings.Contains(strings.ToLower(text), strings.ToLower(employer)) {
			continue
		}
		if isLocationShape(text) {
			continue
		}

		if bulletPrefixRe.MatchString(raw) {
			bullet := strings.TrimSpace(bulletPrefixRe.ReplaceAllString(raw, ""))
			if bullet != "" {
				bullets = append(bullets, bullet)
			}
			continue
		}
		if n := len(text); n >= descriptionMinLen && n <= descriptionMaxLen {
			bullets = append(bullets, text)
		}
	}

	if len(bullets) == 0 {
		return ""
	}
	for i, b := range bullets {
		bullets[i] = "• " + b
	}
	return strings.Join(bullets, "\n")
}

func equalsFold(a, b string) bool {
	return b != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
