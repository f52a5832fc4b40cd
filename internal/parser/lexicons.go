package parser

import (
	"regexp"
	"strings"
)

// The lexicons in this file are part of the extraction contract. They are
// shipped as data so behaviour changes show up as data diffs, and the tests
// cover every entry.

// KnownFacilities is the curated set of hospital and health-system names the
// employer scorer treats as ground truth (+50). Philippine facilities first,
// then the US systems that show up in returning-nurse résumés.
var KnownFacilities = []string{
	// Philippines
	"Philippine General Hospital",
	"St. Luke's Medical Center",
	"Makati Medical Center",
	"The Medical City",
	"Asian Hospital and Medical Center",
	"Cardinal Santos Medical Center",
	"Chinese General Hospital",
	"Manila Doctors Hospital",
	"University of Santo Tomas Hospital",
	"East Avenue Medical Center",
	"Jose R. Reyes Memorial Medical Center",
	"Rizal Medical Center",
	"Quirino Memorial Medical Center",
	"Lung Center of the Philippines",
	"National Kidney and Transplant Institute",
	"Philippine Heart Center",
	"Philippine Children's Medical Center",
	"Dr. Jose Fabella Memorial Hospital",
	"San Lazaro Hospital",
	"Veterans Memorial Medical Center",
	"Quezon City General Hospital",
	"Ospital ng Maynila Medical Center",
	"Pasig City General Hospital",
	"Marikina Valley Medical Center",
	"Vicente Sotto Memorial Medical Center",
	"Cebu Doctors' University Hospital",
	"Chong Hua Hospital",
	"Perpetual Succour Hospital",
	"Southern Philippines Medical Center",
	"Davao Doctors Hospital",
	"Baguio General Hospital and Medical Center",
	"Batangas Medical Center",
	"Bicol Medical Center",
	"Western Visayas Medical Center",
	"Zamboanga City Medical Center",
	"Mary Mediatrix Medical Center",
	"De La Salle University Medical Center",
	"FEU-NRMF Medical Center",
	"Manila East Medical Center",
	"Medical Center Manila",
	// United States
	"Cedars-Sinai Medical Center",
	"Mayo Clinic",
	"Cleveland Clinic",
	"Johns Hopkins Hospital",
	"Massachusetts General Hospital",
	"NewYork-Presbyterian Hospital",
	"Mount Sinai Hospital",
	"UCLA Medical Center",
	"UCSF Medical Center",
	"Houston Methodist Hospital",
	"NYU Langone Health",
	"Kaiser Permanente",
	"HCA Healthcare",
	"AdventHealth Orlando",
	"Northwestern Memorial Hospital",
}

// NursingSkills is the curated clinical-skills lexicon. Matching is by
// case-insensitive substring, deliberately not word-bounded: legacy DOC
// extractors strip inter-word spaces and substring matching still hits.
var NursingSkills = []string{
	"Patient Care",
	"Patient Assessment",
	"Patient Education",
	"Patient Advocacy",
	"Patient Safety",
	"Medication Administration",
	"IV Therapy",
	"IV Insertion",
	"Intravenous Therapy",
	"Wound Care",
	"Wound Dressing",
	"Vital Signs",
	"Vital Signs Monitoring",
	"Blood Transfusion",
	"Phlebotomy",
	"Venipuncture",
	"Catheterization",
	"Foley Catheter",
	"Nasogastric Tube",
	"NGT Insertion",
	"Tracheostomy Care",
	"Ostomy Care",
	"Colostomy Care",
	"Suctioning",
	"Oxygen Therapy",
	"Nebulization",
	"ECG",
	"EKG",
	"Cardiac Monitoring",
	"Telemetry",
	"Triage",
	"Emergency Care",
	"Emergency Response",
	"Critical Care",
	"Intensive Care",
	"ICU Nursing",
	"Acute Care",
	"Post-Operative Care",
	"Pre-Operative Care",
	"Perioperative Nursing",
	"Operating Room",
	"Surgical Assistance",
	"Sterile Technique",
	"Aseptic Technique",
	"Infection Control",
	"Infection Prevention",
	"Hand Hygiene",
	"CPR",
	"Basic Life Support",
	"Advanced Cardiac Life Support",
	"First Aid",
	"Pain Management",
	"Palliative Care",
	"Hospice Care",
	"Geriatric Care",
	"Pediatric Care",
	"Neonatal Care",
	"Newborn Care",
	"Maternal and Child Health",
	"Labor and Delivery",
	"Postpartum Care",
	"Breastfeeding Support",
	"Immunization",
	"Vaccination",
	"Health Education",
	"Health Teaching",
	"Discharge Planning",
	"Care Planning",
	"Nursing Care Plan",
	"Charting",
	"Clinical Documentation",
	"Electronic Health Records",
	"Medical-Surgical Nursing",
	"Dialysis",
	"Hemodialysis",
	"Chemotherapy Administration",
	"Case Management",
	"Quality Improvement",
	"Glucose Monitoring",
	"Insulin Administration",
	"Specimen Collection",
	"Isolation Precautions",
	"Restraint Management",
	"Fall Prevention",
	"Pressure Ulcer Prevention",
	"Medication Reconciliation",
	"Team Leadership",
	"Interdisciplinary Collaboration",
	"Time Management",
	"Bedside Care",
}

// PositionKeywords flag a candidate line as a job title (+40 in the position
// scorer, −25 in the employer scorer).
var PositionKeywords = []string{
	"Nurse",
	"RN",
	"LPN",
	"LVN",
	"Nursing",
	"Midwife",
	"Caregiver",
	"Aide",
	"Attendant",
	"Manager",
	"Director",
	"Supervisor",
	"Coordinator",
	"Lead",
	"Head",
	"Chief",
	"Officer",
	"Specialist",
	"Practitioner",
	"Clinician",
	"Therapist",
	"Technician",
	"Technologist",
	"Engineer",
	"Analyst",
	"Assistant",
	"Associate",
	"Clerk",
	"Staff",
	"Intern",
	"Trainee",
	"Volunteer",
	"Preceptor",
	"Educator",
	"Instructor",
	"Consultant",
}

// CompanyKeywords mark a line as employer-shaped (+35 employer, −30 position).
var CompanyKeywords = []string{
	"Hospital",
	"Medical Center",
	"Medical Centre",
	"Health Center",
	"Healthcare",
	"Health System",
	"Health Services",
	"Clinic",
	"Infirmary",
	"Laboratory",
	"Pharmacy",
	"Nursing Home",
	"Home Care",
	"Hospice",
	"University",
	"College",
	"Institute",
	"Foundation",
	"Inc",
	"Incorporated",
	"Corp",
	"Corporation",
	"LLC",
	"Ltd",
	"Company",
	"Co.",
	"Group",
	"Agency",
	"Department of Health",
	"City Health Office",
}

// RegionKeywords anchor address/location shapes to the two markets the
// heuristics are tuned for.
var RegionKeywords = []string{
	"Philippines",
	"Metro Manila",
	"Manila",
	"Quezon City",
	"Makati",
	"Pasig",
	"Taguig",
	"Caloocan",
	"Cebu",
	"Davao",
	"Iloilo",
	"Baguio",
	"Batangas",
	"Cavite",
	"Laguna",
	"Bulacan",
	"Pampanga",
	"NCR",
	"Luzon",
	"Visayas",
	"Mindanao",
	"USA",
	"United States",
	"California",
	"Texas",
	"Florida",
	"New York",
	"New Jersey",
	"Illinois",
	"Arizona",
	"Nevada",
	"Washington",
	"Hawaii",
	"Guam",
}

// TechnicalSkillPatterns is the third skills pass: a small set of tools and
// languages matched globally with word boundaries.
var TechnicalSkillPatterns = []struct {
	Name    string
	Pattern *regexp.Regexp
}{
	{"Epic", regexp.MustCompile(`(?i)\bEpic\s*(?:EHR|EMR|Systems)?\b`)},
	{"Cerner", regexp.MustCompile(`(?i)\bCerner\b`)},
	{"Meditech", regexp.MustCompile(`(?i)\bMeditech\b`)},
	{"Microsoft Excel", regexp.MustCompile(`(?i)\b(?:Microsoft\s+)?Excel\b`)},
	{"Microsoft Word", regexp.MustCompile(`(?i)\bMicrosoft\s+Word\b`)},
	{"PowerPoint", regexp.MustCompile(`(?i)\bPowerPoint\b`)},
	{"Python", regexp.MustCompile(`(?i)\bPython\b`)},
	{"SQL", regexp.MustCompile(`(?i)\bSQL\b`)},
	{"Java", regexp.MustCompile(`\bJava\b`)},
	{"JavaScript", regexp.MustCompile(`(?i)\bJavaScript\b`)},
}

var (
	positionKeywordRe *regexp.Regexp
	companyKeywordRe  *regexp.Regexp
	regionKeywordRe   *regexp.Regexp

	knownFacilityLower []string
)

func init() {
	positionKeywordRe = regexp.MustCompile(`(?i)\b(` + joinAlternates(PositionKeywords) + `)\b`)
	companyKeywordRe = regexp.MustCompile(`(?i)\b(` + joinAlternates(CompanyKeywords) + `)\b`)
	regionKeywordRe = regexp.MustCompile(`(?i)\b(` + joinAlternates(RegionKeywords) + `)\b`)

	knownFacilityLower = make([]string, len(KnownFacilities))
	for i, f := range KnownFacilities {
		knownFacilityLower[i] = strings.ToLower(f)
	}
}

func joinAlternates(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

// containsPositionKeyword reports whether s looks like a job title.
func containsPositionKeyword(s string) bool {
	return positionKeywordRe.MatchString(s)
}

// containsCompanyKeyword reports whether s looks like an organisation name.
func containsCompanyKeyword(s string) bool {
	return companyKeywordRe.MatchString(s)
}

// containsRegionKeyword reports whether s mentions a known region.
func containsRegionKeyword(s string) bool {
	return regionKeywordRe.MatchString(s)
}

// matchKnownFacility returns the canonical facility name contained in s, or
// "" when none matches. Matching is case-insensitive substring in both
// directions so "Staff Nurse, Makati Medical Center, Manila" and a bare
// "Makati Medical Center" both canonicalise.
func matchKnownFacility(s string) string {
	ls := strings.ToLower(strings.TrimSpace(s))
	if ls == "" {
		return ""
	}
	for i, fl := range knownFacilityLower {
		if strings.Contains(ls, fl) {
			return KnownFacilities[i]
		}
	}
	return ""
}

// isKnownFacility reports whether s contains a curated facility name.
func isKnownFacility(s string) bool {
	return matchKnownFacility(s) != ""
}
