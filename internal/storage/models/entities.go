package models

// ExtractedEntities groups the per-profile rows derived from one parsed
// resume. They are replaced as a unit: clear-then-insert inside a single
// transaction.
type ExtractedEntities struct {
	Experience     []NurseExperience
	Education      []NurseEducation
	Skills         []NurseSkill
	Certifications []NurseCertification
}
