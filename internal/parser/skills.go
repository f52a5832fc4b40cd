package parser

import (
	"regexp"
	"strings"
)

// Skills and hospital extraction. Both de-duplicate case-insensitively while
// preserving the first-seen display casing (lexicon casing wins for curated
// entries).

// hospitalPhraseRe captures uncurated facility names: a run of capitalised
// words ending in a facility noun.
var hospitalPhraseRe = regexp.MustCompile(`(?:[A-Z][A-Za-z'’.\-]+\s+){1,6}(?:General\s+)?(?:Hospital|Medical\s+Center|Health\s+Center|Medical\s+Centre)\b`)

const (
	hospitalMinLen = 10
	hospitalMaxLen = 80
)

// extractHospitals canonicalises against the curated facility set first, then
// captures proper-noun facility phrases.
func extractHospitals(text string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(name string) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, name)
	}

	lower := strings.ToLower(text)
	for i, fl := range knownFacilityLower {
		if strings.Contains(lower, fl) {
			add(KnownFacilities[i])
		}
	}

	for _, m := range hospitalPhraseRe.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if len(m) < hospitalMinLen || len(m) > hospitalMaxLen {
			continue
		}
		// Canonical members were already added under their curated casing.
		if canonical := matchKnownFacility(m); canonical != "" {
			add(canonical)
			continue
		}
		add(m)
	}
	return out
}

var (
	skillSplitRe      = regexp.MustCompile(`[,;|]`)
	labelledSkillRe   = regexp.MustCompile(`^([^:]{2,40}):\s*(.+)$`)
	maxSkillLineWords = 6
)

// extractSkills runs three passes: curated-lexicon membership, a skills
// section split, and the global technical-skill patterns.
func extractSkills(text string, lines []string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(name string) {
		name = strings.TrimSpace(strings.Trim(name, "•-–·"))
		name = strings.TrimSpace(name)
		if name == "" || len(name) < 2 || len(name) > 60 {
			return
		}
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, name)
	}

	// Pass 1: curated lexicon, substring match (tolerant of concatenated
	// words from legacy DOC extractors).
	lower := strings.ToLower(text)
	for _, skill := range NursingSkills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			add(skill)
		}
	}

	// Pass 2: explicit skills section.
	start, end := findSkillsWindow(lines)
	if start >= 0 {
		for i := start; i < end; i++ {
			line := strings.TrimSpace(lines[i])
			if line == "" || isAllCapsHeader(line, minHeaderLen) {
				continue
			}
			// "Label: v1, v2" keeps only the value side.
			if m := labelledSkillRe.FindStringSubmatch(line); m != nil {
				line = m[2]
			}
			for _, piece := range skillSplitRe.Split(line, -1) {
				piece = strings.TrimSpace(piece)
				if piece == "" {
					continue
				}
				// Sentence-like lines are prose, not skill tokens.
				if len(strings.Fields(piece)) > maxSkillLineWords {
					continue
				}
				add(piece)
			}
		}
	}

	// Pass 3: technical skills matched globally.
	for _, ts := range TechnicalSkillPatterns {
		if ts.Pattern.MatchString(text) {
			add(ts.Name)
		}
	}

	return out
}
