package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// Feature scoring for experience candidates. The weights are contract:
// which candidate wins depends on their relative magnitudes, so changes
// here are behaviour changes.

const (
	weightPositionKeyword  = 40
	weightBeforeAnchor     = 20
	weightStartsCapital    = 10
	weightGoodLength       = 15
	weightAfterTiebreak    = 10
	penaltyUnknown         = -50
	penaltyCompanyShape    = -30
	penaltyLocationShape   = -30
	penaltyBadLength       = -20
	penaltyAllCaps         = -15
	weightKnownFacility    = 50
	weightCompanyKeyword   = 35
	penaltyPositionKeyword = -25
	penaltyLongSentence    = -40
	penaltyProse           = -50
	penaltyTrailingStop    = -30
)

// subordinatingProseRe flags sentence fragments masquerading as employers.
var subordinatingProseRe = regexp.MustCompile(`(?i)\b(?:because|although|though|which|while|whereas|so that|in order to|responsible for|duties included?|tasked with|assigned to)\b`)

// ContainsSubordinatingProse reports whether s reads like running prose
// rather than an organisation name. The persistence layer applies the same
// test before writing an employer column.
func ContainsSubordinatingProse(s string) bool {
	return subordinatingProseRe.MatchString(s)
}

func distanceBonus(distance int) int {
	switch distance {
	case 1:
		return 25
	case 2:
		return 15
	case 3:
		return 5
	default:
		return 0
	}
}

func startsWithCapital(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func isLocationShape(s string) bool {
	return cityRegionRe.MatchString(strings.TrimSpace(s))
}

func endsWithStop(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!")
}

// scorePositionBase rates how much text looks like a job title, independent
// of its placement relative to the anchor.
func scorePositionBase(text string) int {
	text = strings.TrimSpace(text)
	score := 0

	if containsPositionKeyword(text) {
		score += weightPositionKeyword
	}
	if startsWithCapital(text) {
		score += weightStartsCapital
	}
	if n := len(text); n > 10 && n < 60 {
		score += weightGoodLength
	}
	if strings.Contains(text, "Unknown") {
		score += penaltyUnknown
	}
	if containsCompanyKeyword(text) {
		score += penaltyCompanyShape
	}
	if isLocationShape(text) {
		score += penaltyLocationShape
	}
	if n := len(text); n < 5 || n > 80 {
		score += penaltyBadLength
	}
	if isAllCapsHeader(text, 1) {
		score += penaltyAllCaps
	}
	return score
}

// scoreEmployerBase rates how much text looks like an organisation name.
func scoreEmployerBase(text string) int {
	text = strings.TrimSpace(text)
	score := 0

	if isKnownFacility(text) {
		score += weightKnownFacility
	}
	if containsCompanyKeyword(text) {
		score += weightCompanyKeyword
	}
	if n := len(text); n > 10 && n < 60 {
		score += weightGoodLength
	}
	if strings.Contains(text, "Unknown") {
		score += penaltyUnknown
	}
	if isLocationShape(text) {
		score += penaltyLocationShape
	}
	if containsPositionKeyword(text) {
		score += penaltyPositionKeyword
	}
	if len(strings.Fields(text)) > 8 {
		score += penaltyLongSentence
	}
	if subordinatingProseRe.MatchString(text) {
		score += penaltyProse
	}
	if endsWithStop(text) {
		score += penaltyTrailingStop
	}
	return score
}

// candidate is a window line under consideration.
type candidate struct {
	Text     string
	LineIdx  int
	Distance int
}

// bestPositionCandidate compares the best before-window candidate (placement
// and distance bonuses) against the best after-window candidate (+10
// tiebreak) and returns the winner with its score.
func bestPositionCandidate(before, after []candidate) (candidate, int, bool) {
	best := candidate{}
	bestScore := 0
	found := false

	for _, c := range before {
		s := scorePositionBase(c.Text) + weightBeforeAnchor + distanceBonus(c.Distance)
		if s > bestScore {
			best, bestScore, found = c, s, true
		}
	}
	for _, c := range after {
		s := scorePositionBase(c.Text) + weightAfterTiebreak
		if s > bestScore {
			best, bestScore, found = c, s, true
		}
	}
	return best, bestScore, found
}

// bestEmployerCandidate ranks the before window only; the after window is
// handled by the facility scan in the extractor.
func bestEmployerCandidate(before []candidate) (candidate, int, bool) {
	best := candidate{}
	bestScore := 0
	found := false

	for _, c := range before {
		s := scoreEmployerBase(c.Text) + weightBeforeAnchor + distanceBonus(c.Distance)
		if s > bestScore {
			best, bestScore, found = c, s, true
		}
	}
	return best, bestScore, found
}
