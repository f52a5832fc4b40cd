package parser

import (
	"strings"

	"nurse-ats-go/internal/types"
)

// Post-processing runs over the winning record (rule-based or LLM) before
// persistence: experience-type inference, employer repair from description
// bullets, and description sanitisation. All three are idempotent.

var (
	clinicalPositionHints = []string{
		"student nurse", "nursing student", "clinical placement",
		"clinical rotation", "practicum", "clinical duty",
	}
	ojtHints       = []string{"ojt", "on-the-job", "on the job training", "intern", "internship"}
	volunteerHints = []string{"volunteer"}
)

// PostProcess normalises record in place. rawText may be empty (the LLM path
// has no line structure worth consulting); section-based inference is then
// skipped and only keyword inference runs.
func PostProcess(record *types.ParsedResume, rawText string) {
	if record == nil {
		return
	}
	inferExperienceTypes(record, rawText)
	repairEmployerFromDescription(record)
	sanitizeDescriptions(record)
}

// inferExperienceTypes upgrades entries still typed as employment when either
// their own wording or the section they came from says otherwise.
func inferExperienceTypes(record *types.ParsedResume, rawText string) {
	var clinicalBlob, volunteerBlob string
	if rawText != "" {
		lines := strings.Split(strings.ReplaceAll(rawText, "\r\n", "\n"), "\n")
		clinicalBlob = strings.ToLower(strings.Join(sectionSpan(lines, clinicalPlacementHeaderRe), "\n"))
		volunteerBlob = strings.ToLower(strings.Join(sectionSpan(lines, volunteerHeaderRe), "\n"))
	}

	for i := range record.Experience {
		entry := &record.Experience[i]
		if entry.Type != "" && entry.Type != types.ExperienceEmployment {
			continue
		}
		if entry.Type == "" {
			entry.Type = types.ExperienceEmployment
		}

		wording := strings.ToLower(joinedEntryText(entry))
		switch {
		case containsAny(wording, volunteerHints):
			entry.Type = types.ExperienceVolunteer
		case containsAny(wording, ojtHints):
			entry.Type = types.ExperienceOJT
		case containsAny(wording, clinicalPositionHints):
			entry.Type = types.ExperienceClinicalPlacement
		case entryInSection(entry, clinicalBlob):
			entry.Type = types.ExperienceClinicalPlacement
		case entryInSection(entry, volunteerBlob):
			entry.Type = types.ExperienceVolunteer
		}
	}
}

func joinedEntryText(entry *types.ExperienceEntry) string {
	var parts []string
	if entry.Position != nil {
		parts = append(parts, *entry.Position)
	}
	if entry.Employer != nil {
		parts = append(parts, *entry.Employer)
	}
	if entry.Department != nil {
		parts = append(parts, *entry.Department)
	}
	return strings.Join(parts, " ")
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// entryInSection matches the entry's employer or position against a lowered
// section blob.
func entryInSection(entry *types.ExperienceEntry, blob string) bool {
	if blob == "" {
		return false
	}
	if entry.Employer != nil && strings.Contains(blob, strings.ToLower(*entry.Employer)) {
		return true
	}
	if entry.Position != nil && strings.Contains(blob, strings.ToLower(*entry.Position)) {
		return true
	}
	return false
}

// repairEmployerFromDescription fixes entries whose employer slot holds a
// unit name, or nothing at all, while the real facility sits in a description
// bullet. The facility line is promoted, a separator-suffixed location is
// split off, and a displaced unit-like employer moves to the department slot.
func repairEmployerFromDescription(record *types.ParsedResume) {
	for i := range record.Experience {
		entry := &record.Experience[i]
		if entry.Description == nil {
			continue
		}
		if entry.Employer != nil && (isKnownFacility(*entry.Employer) || containsCompanyKeyword(*entry.Employer)) {
			continue
		}

		descLines := strings.Split(*entry.Description, "\n")
		promoted := -1
		var employer, location string
		for j, raw := range descLines {
			line := strings.TrimSpace(bulletPrefixRe.ReplaceAllString(raw, ""))
			if line == "" {
				continue
			}
			cand, loc := splitEmployerLocation(line)
			if cand == "" || len(strings.Fields(cand)) > 8 || endsWithStop(cand) {
				continue
			}
			if ContainsSubordinatingProse(cand) {
				continue
			}
			if !isKnownFacility(cand) && !containsCompanyKeyword(cand) {
				continue
			}
			promoted, employer, location = j, cand, loc
			break
		}
		if promoted < 0 {
			continue
		}

		if entry.Employer != nil && entry.Department == nil && !equalsFold(*entry.Employer, employer) {
			entry.Department = entry.Employer
		}
		entry.Employer = types.StrPtr(employer)
		if location != "" && entry.Location == nil {
			entry.Location = types.StrPtr(location)
		}

		rest := make([]string, 0, len(descLines)-1)
		rest = append(rest, descLines[:promoted]...)
		rest = append(rest, descLines[promoted+1:]...)
		joined := strings.TrimSpace(strings.Join(rest, "\n"))
		if joined == "" {
			entry.Description = nil
		} else {
			entry.Description = types.StrPtr(joined)
		}
	}
}

// sanitizeDescriptions re-applies the description contract to whichever
// extractor produced the record: bullet-prefixed lines and no echoes of the
// entry's own fields. Bullet length is bounded at collection time; the joined
// block itself is unbounded.
func sanitizeDescriptions(record *types.ParsedResume) {
	for i := range record.Experience {
		entry := &record.Experience[i]
		if entry.Description == nil {
			continue
		}

		var kept []string
		for _, raw := range strings.Split(*entry.Description, "\n") {
			line := strings.TrimSpace(bulletPrefixRe.ReplaceAllString(raw, ""))
			if line == "" {
				continue
			}
			if echoesEntryField(line, entry) {
				continue
			}
			kept = append(kept, "• "+line)
		}

		text := strings.Join(kept, "\n")
		if len(text) < descriptionMinLen {
			entry.Description = nil
			continue
		}
		entry.Description = types.StrPtr(text)
	}
}

func echoesEntryField(line string, entry *types.ExperienceEntry) bool {
	for _, field := range []*string{entry.Position, entry.Employer, entry.Department, entry.Location} {
		if field != nil && equalsFold(line, *field) {
			return true
		}
	}
	// A short line mentioning the employer is decoration, not a duty.
	if entry.Employer != nil && len(line) < 120 &&
		strings.Contains(strings.ToLower(line), strings.ToLower(*entry.Employer)) {
		return true
	}
	return false
}
