package processor

import (
	"context"
	"time"

	"nurse-ats-go/internal/storage/models"
	"nurse-ats-go/internal/types"
)

// The service depends on narrow interfaces so tests can run over in-memory
// fakes. Production wiring satisfies them with the MinIO, GORM, Redis and
// RabbitMQ clients from internal/storage.

// BlobStore stores raw resume files and profile pictures.
type BlobStore interface {
	// Upload writes data under bucket/objectName with the given content type.
	Upload(ctx context.Context, bucket, objectName string, data []byte, contentType string) error

	// Remove deletes a single object. Removing a missing object is not an
	// error.
	Remove(ctx context.Context, bucket, objectName string) error

	// ListPrefix returns the object names under prefix.
	ListPrefix(ctx context.Context, bucket, prefix string) ([]string, error)

	// PresignedGetURL returns a time-limited download URL.
	PresignedGetURL(ctx context.Context, bucket, objectName string, ttl time.Duration) (string, error)

	// PublicURL returns the stable public URL of an object.
	PublicURL(bucket, objectName string) string
}

// MetadataStore is the relational persistence surface of the pipeline.
type MetadataStore interface {
	// GetProfile loads a profile or returns ErrNotFound.
	GetProfile(ctx context.Context, profileID string) (*models.NurseProfile, error)

	// UpdateProfileFields applies a partial column update to a profile.
	UpdateProfileFields(ctx context.Context, profileID string, fields map[string]interface{}) error

	// ReplaceResume upserts the single active resume row of a profile and
	// returns the resume row it replaced, if any.
	ReplaceResume(ctx context.Context, resume *models.Resume) (*models.Resume, error)

	// GetResumeByProfile loads the active resume row or returns ErrNotFound.
	GetResumeByProfile(ctx context.Context, profileID string) (*models.Resume, error)

	// ReplaceExtractedEntities clears and re-inserts the experience,
	// education, skill and certification rows of a profile in one
	// transaction.
	ReplaceExtractedEntities(ctx context.Context, profileID string, entities *models.ExtractedEntities) error
}

// CachedParse is a previously computed extraction, keyed by file MD5. The
// decoded text is carried so a cache hit can still persist it.
type CachedParse struct {
	Record     *types.ParsedResume `json:"record"`
	Text       string              `json:"text"`
	Confidence int                 `json:"confidence"`
	Source     string              `json:"source"`
}

// DedupCache answers "have we parsed this exact file before" by raw-content
// MD5, and caches parsed records keyed by that MD5.
type DedupCache interface {
	// LookupParsed returns the cached parse for md5hex, or (nil, nil) on a
	// miss. Cache faults degrade to a miss.
	LookupParsed(ctx context.Context, md5hex string) (*CachedParse, error)

	// StoreParsed caches a parse result.
	StoreParsed(ctx context.Context, md5hex string, parse *CachedParse) error

	// RegisterFile records the MD5 in the profile's upload history.
	RegisterFile(ctx context.Context, profileID, md5hex string) error
}

// EventPublisher emits pipeline events to the message broker.
type EventPublisher interface {
	// PublishResumeParsed announces a completed parse. Delivery is
	// best-effort; failures are logged, not returned to the uploader.
	PublishResumeParsed(ctx context.Context, event *ResumeParsedEvent) error
}

// TextDecoder converts resume bytes into plain text.
type TextDecoder interface {
	Decode(ctx context.Context, data []byte, filename string) (string, error)
}

// LlmExtractor is the fallback structured extractor. Implementations must be
// best-effort: an empty record with a nil error on any fault.
type LlmExtractor interface {
	Extract(ctx context.Context, text string) (*types.ParsedResume, error)
}

// ResumeParsedEvent is the payload of the resume.parsed routing key.
type ResumeParsedEvent struct {
	EventID       string    `json:"event_id"`
	ProfileID     string    `json:"profile_id"`
	ResumeID      string    `json:"resume_id"`
	FileName      string    `json:"file_name"`
	FileMD5       string    `json:"file_md5"`
	Confidence    int       `json:"confidence"`
	Source        string    `json:"source"`
	ParserVersion string    `json:"parser_version"`
	ParsedAt      time.Time `json:"parsed_at"`
}
