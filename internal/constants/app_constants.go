package constants

import "time"

const (
	// ParserVersion is recorded on every resume row so stored parses can be
	// re-run when the extraction heuristics change.
	ParserVersion = "rules-2.3"

	// ResumesBucket holds original uploads and their extracted text.
	ResumesBucket = "resumes"
	// ProfilePicturesBucket holds avatar images.
	ProfilePicturesBucket = "profile-pictures"
	// LegacyProfileImagesPrefix is the pre-migration avatar prefix kept as a
	// fallback inside the resumes bucket.
	LegacyProfileImagesPrefix = "profile-images"

	// MaxResumeSize caps resume uploads at the ingress layer.
	MaxResumeSize = 10 << 20
	// MaxPictureSize caps profile picture uploads.
	MaxPictureSize = 5 << 20

	// SignedURLTTL is how long resume download links stay valid.
	SignedURLTTL = 15 * time.Minute

	// ConfidenceThreshold is the rule-based score below which the hybrid
	// orchestrator consults the LLM extractor.
	ConfidenceThreshold = 55
)

// ValidResumeExtensions is the upload allow-list.
var ValidResumeExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
}

// ValidPictureExtensions is the avatar allow-list.
var ValidPictureExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}
