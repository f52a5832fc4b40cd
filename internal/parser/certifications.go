package parser

import (
	"regexp"
	"strings"

	"nurse-ats-go/internal/types"
)

// Certification extraction. Each canonical credential is emitted at most once;
// numbers and scores are pulled from anchored contexts next to the credential
// mention, never from a global scan, so a PRC number can't leak into an NCLEX
// entry.

type certRule struct {
	Type     string
	Presence *regexp.Regexp
	Number   *regexp.Regexp // first submatch is the number
	Score    *regexp.Regexp // first submatch is the score
}

var certRules = []certRule{
	{
		Type:     "NCLEX",
		Presence: regexp.MustCompile(`(?i)\bNCLEX(?:-RN)?\b`),
		Number:   regexp.MustCompile(`(?i)\bNCLEX-RN\b[^\n]{0,40}?(?:license|lic\.?|no\.?|number|#)?\s*[:#]?\s*([A-Z]{0,2}\d{6,10})\b`),
	},
	{
		Type:     "IELTS",
		Presence: regexp.MustCompile(`(?i)\bIELTS\b`),
		Score:    regexp.MustCompile(`(?i)\bIELTS\b[^\n]{0,40}?(?:band|score|overall)?\s*[:#]?\s*(\d(?:\.\d)?)\b`),
	},
	{
		Type:     "PRC License",
		Presence: regexp.MustCompile(`(?i)\bPRC\b`),
		Number:   regexp.MustCompile(`(?i)\bPRC\b[^\n]{0,40}?(?:license|registration|reg\.?|no\.?|number|#)?\s*[:#]?\s*(\d{6,8})\b`),
	},
	{
		Type:     "BLS",
		Presence: regexp.MustCompile(`(?i)\bBLS\b|\bBasic\s+Life\s+Support\b`),
	},
	{
		Type:     "ACLS",
		Presence: regexp.MustCompile(`(?i)\bACLS\b|\bAdvanced\s+Cardiac\s+Life\s+Support\b`),
	},
	{
		Type:     "OSCE",
		Presence: regexp.MustCompile(`(?i)\bOSCE\b`),
	},
	{
		Type:     "NLE",
		Presence: regexp.MustCompile(`(?i)\bNLE\b|\bNurse\s+Licensure\s+Exam(?:ination)?\b`),
	},
	{
		Type:     "PALS",
		Presence: regexp.MustCompile(`(?i)\bPALS\b|\bPediatric\s+Advanced\s+Life\s+Support\b`),
	},
	{
		Type:     "TNCC",
		Presence: regexp.MustCompile(`(?i)\bTNCC\b`),
	},
	{
		Type:     "CCRN",
		Presence: regexp.MustCompile(`(?i)\bCCRN\b`),
		Number:   regexp.MustCompile(`(?i)\bCCRN\b[^\n]{0,40}?(?:cert(?:ification)?|no\.?|number|#)?\s*[:#]?\s*(\d{5,10})\b`),
	},
	{
		Type:     "NIH Stroke Scale",
		Presence: regexp.MustCompile(`(?i)\bNIH\s+Stroke\s+Scale\b|\bNIHSS\b`),
	},
	{
		Type:     "Chemotherapy & Biotherapy Provider",
		Presence: regexp.MustCompile(`(?i)\bChemotherapy\s*(?:&|and)\s*Biotherapy(?:\s+Provider)?\b`),
	},
	{
		Type:     "RN License",
		Presence: regexp.MustCompile(`\b[A-Z]{2}-RN-\d{4,8}\b|(?i)\bRN\s+License\b`),
		Number:   regexp.MustCompile(`\b([A-Z]{2}-RN-\d{4,8})\b`),
	},
	{
		Type:     "ENPC",
		Presence: regexp.MustCompile(`(?i)\bENPC\b`),
	},
	{
		Type:     "CEN",
		Presence: regexp.MustCompile(`\bCEN\b`),
	},
}

// extractCertifications walks the rule table over the whole body.
func extractCertifications(text string) []types.Certification {
	var out []types.Certification
	seen := map[string]bool{}

	for _, rule := range certRules {
		if !rule.Presence.MatchString(text) {
			continue
		}
		key := strings.ToLower(rule.Type)
		if seen[key] {
			continue
		}
		seen[key] = true

		cert := types.Certification{Type: rule.Type}
		if rule.Number != nil {
			if m := rule.Number.FindStringSubmatch(text); m != nil {
				cert.Number = types.StrPtr(m[1])
			}
		}
		if rule.Score != nil {
			if m := rule.Score.FindStringSubmatch(text); m != nil {
				cert.Score = types.StrPtr(m[1])
			}
		}
		out = append(out, cert)
	}
	return out
}
