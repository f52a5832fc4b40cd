package processor

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	googleuuid "github.com/google/uuid"

	"nurse-ats-go/internal/constants"
	"nurse-ats-go/internal/logger"
	"nurse-ats-go/internal/storage/models"
)

// ResumeService drives the whole upload pipeline: validate, store the blob,
// decode, extract, persist, announce. It is the only component that touches
// more than one backend.
type ResumeService struct {
	blob      BlobStore
	meta      MetadataStore
	cache     DedupCache
	events    EventPublisher
	decoder   TextDecoder
	extractor *HybridExtractor
}

// NewResumeService wires the pipeline. cache and events may be nil; the
// pipeline then skips deduplication and event publishing.
func NewResumeService(blob BlobStore, meta MetadataStore, cache DedupCache, events EventPublisher, decoder TextDecoder, extractor *HybridExtractor) *ResumeService {
	return &ResumeService{
		blob:      blob,
		meta:      meta,
		cache:     cache,
		events:    events,
		decoder:   decoder,
		extractor: extractor,
	}
}

// UploadResult is what the handler returns to the uploader.
type UploadResult struct {
	ResumeID      string   `json:"resume_id"`
	FileURL       string   `json:"file_url"`
	Confidence    int      `json:"confidence"`
	Source        string   `json:"source"`
	ParserVersion string   `json:"parser_version"`
	Warnings      []string `json:"warnings,omitempty"`
}

// UploadResume runs the full pipeline for one resume file.
func (s *ResumeService) UploadResume(ctx context.Context, profileID, fileName string, data []byte) (*UploadResult, error) {
	// Subject resolution comes first: an unknown subject is NotFound no
	// matter what it uploaded.
	if _, err := s.meta.GetProfile(ctx, profileID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NewNotFoundError(profileID, "profile does not exist")
		}
		return nil, NewPersistenceError(profileID, err.Error())
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if len(data) == 0 {
		return nil, NewBadRequestError(profileID, "empty file")
	}
	if len(data) > constants.MaxResumeSize {
		return nil, NewBadRequestError(profileID, fmt.Sprintf("file exceeds %d bytes", constants.MaxResumeSize))
	}
	if !constants.ValidResumeExtensions[ext] {
		return nil, NewFormatError(profileID, ext)
	}

	sum := md5.Sum(data)
	fileMD5 := hex.EncodeToString(sum[:])
	if s.cache != nil {
		if err := s.cache.RegisterFile(ctx, profileID, fileMD5); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("dedup set update failed")
		}
	}

	objectKey := fmt.Sprintf("%s/%d%s", profileID, time.Now().UnixMilli(), ext)
	if err := s.blob.Upload(ctx, constants.ResumesBucket, objectKey, data, contentTypeFor(ext)); err != nil {
		return nil, NewStorageError(profileID, err.Error())
	}

	var warnings []string
	extraction, text := s.extractFile(ctx, fileName, fileMD5, data, &warnings)

	resumeID, err := uuid.NewV7()
	if err != nil {
		return nil, NewPersistenceError(profileID, "uuid generation failed: "+err.Error())
	}

	parsedJSON, err := json.Marshal(extraction.Record)
	if err != nil {
		return nil, NewPersistenceError(profileID, "parsed record marshal failed: "+err.Error())
	}

	resume := &models.Resume{
		ResumeID:      resumeID.String(),
		ProfileID:     profileID,
		FileName:      fileName,
		ObjectKey:     objectKey,
		FileURL:       s.blob.PublicURL(constants.ResumesBucket, objectKey),
		FileMD5:       fileMD5,
		ContentType:   contentTypeFor(ext),
		FileSize:      int64(len(data)),
		ExtractedText: text,
		ParsedData:    parsedJSON,
		Confidence:    extraction.Confidence,
		Source:        extraction.Source,
		ParserVersion: constants.ParserVersion,
	}

	previous, err := s.meta.ReplaceResume(ctx, resume)
	if err != nil {
		return nil, err
	}
	if previous != nil && previous.ObjectKey != "" && previous.ObjectKey != objectKey {
		if err := s.blob.Remove(ctx, constants.ResumesBucket, previous.ObjectKey); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("object", previous.ObjectKey).Msg("failed to remove superseded resume blob")
		}
	}

	entities := buildEntitySet(profileID, extraction.Record)
	if err := s.meta.ReplaceExtractedEntities(ctx, profileID, entities); err != nil {
		return nil, err
	}

	s.fillEmptyProfileFields(ctx, profileID, extraction)
	s.publishParsed(ctx, profileID, resume)

	return &UploadResult{
		ResumeID:      resume.ResumeID,
		FileURL:       resume.FileURL,
		Confidence:    extraction.Confidence,
		Source:        extraction.Source,
		ParserVersion: constants.ParserVersion,
		Warnings:      warnings,
	}, nil
}

// extractFile decodes and extracts, consulting the MD5 cache first. It
// returns the extraction together with the decoded text, which is persisted
// on the resume row for reprocessing. Decode failures degrade to an empty
// record plus a warning; the blob is already stored at this point and the
// upload must survive.
func (s *ResumeService) extractFile(ctx context.Context, fileName, fileMD5 string, data []byte, warnings *[]string) (*ExtractionResult, string) {
	if s.cache != nil {
		cached, err := s.cache.LookupParsed(ctx, fileMD5)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("dedup cache lookup failed")
		} else if cached != nil && cached.Record != nil {
			logger.Ctx(ctx).Info().Str("md5", fileMD5).Msg("reusing cached parse for identical file")
			return &ExtractionResult{
				Record:     cached.Record,
				Confidence: cached.Confidence,
				Source:     cached.Source,
			}, cached.Text
		}
	}

	text, err := s.decoder.Decode(ctx, data, fileName)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("file", fileName).Msg("text extraction failed, storing file without parsed data")
		*warnings = append(*warnings, "text extraction failed")
		text = ""
	}

	extraction := s.extractor.Extract(ctx, text)

	if s.cache != nil && text != "" {
		parse := &CachedParse{
			Record:     extraction.Record,
			Text:       text,
			Confidence: extraction.Confidence,
			Source:     extraction.Source,
		}
		if err := s.cache.StoreParsed(ctx, fileMD5, parse); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("dedup cache store failed")
		}
	}

	return extraction, text
}

// fillEmptyProfileFields copies extracted facts onto profile columns that are
// still empty. Manual profile edits are never overwritten.
func (s *ResumeService) fillEmptyProfileFields(ctx context.Context, profileID string, extraction *ExtractionResult) {
	profile, err := s.meta.GetProfile(ctx, profileID)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("profile reload failed, skipping field backfill")
		return
	}

	record := extraction.Record
	fields := map[string]interface{}{}
	if profile.Bio == "" && record.Summary != nil {
		fields["bio"] = *record.Summary
	}
	if profile.Address == "" && record.Address != nil {
		fields["address"] = *record.Address
	}
	if profile.GraduationYear == nil && record.GraduationYear != nil {
		fields["graduation_year"] = *record.GraduationYear
	}
	if profile.YearsOfExperience == nil && record.YearsOfExperience != nil {
		fields["years_of_experience"] = *record.YearsOfExperience
	}
	if len(fields) == 0 {
		return
	}
	if err := s.meta.UpdateProfileFields(ctx, profileID, fields); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("profile field backfill failed")
	}
}

func (s *ResumeService) publishParsed(ctx context.Context, profileID string, resume *models.Resume) {
	if s.events == nil {
		return
	}
	event := &ResumeParsedEvent{
		EventID:       googleuuid.NewString(),
		ProfileID:     profileID,
		ResumeID:      resume.ResumeID,
		FileName:      resume.FileName,
		FileMD5:       resume.FileMD5,
		Confidence:    resume.Confidence,
		Source:        resume.Source,
		ParserVersion: resume.ParserVersion,
		ParsedAt:      time.Now().UTC(),
	}
	if err := s.events.PublishResumeParsed(ctx, event); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("resume_id", resume.ResumeID).Msg("resume.parsed publish failed")
	}
}

// GetCurrentResumeURL returns a time-limited download URL for the profile's
// active resume.
func (s *ResumeService) GetCurrentResumeURL(ctx context.Context, profileID string) (string, error) {
	resume, err := s.meta.GetResumeByProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", NewNotFoundError(profileID, "no resume on file")
		}
		return "", NewPersistenceError(profileID, err.Error())
	}
	url, err := s.blob.PresignedGetURL(ctx, constants.ResumesBucket, resume.ObjectKey, constants.SignedURLTTL)
	if err != nil {
		return "", NewStorageError(profileID, err.Error())
	}
	return url, nil
}

// UploadProfilePicture stores a picture, retires prior ones (including the
// legacy prefix in the resumes bucket), and returns a cache-busted public URL.
func (s *ResumeService) UploadProfilePicture(ctx context.Context, profileID, fileName string, data []byte) (string, error) {
	if _, err := s.meta.GetProfile(ctx, profileID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", NewNotFoundError(profileID, "profile does not exist")
		}
		return "", NewPersistenceError(profileID, err.Error())
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if len(data) == 0 {
		return "", NewBadRequestError(profileID, "empty file")
	}
	if len(data) > constants.MaxPictureSize {
		return "", NewBadRequestError(profileID, fmt.Sprintf("picture exceeds %d bytes", constants.MaxPictureSize))
	}
	if !constants.ValidPictureExtensions[ext] {
		return "", NewFormatError(profileID, ext)
	}

	objectKey := fmt.Sprintf("%s/%d%s", profileID, time.Now().UnixMilli(), ext)
	if err := s.blob.Upload(ctx, constants.ProfilePicturesBucket, objectKey, data, contentTypeFor(ext)); err != nil {
		return "", NewStorageError(profileID, err.Error())
	}

	s.removeStalePictures(ctx, profileID, objectKey)

	// Cache-busted so browsers pick up replacements at the same path.
	url := fmt.Sprintf("%s?t=%d", s.blob.PublicURL(constants.ProfilePicturesBucket, objectKey), time.Now().UnixMilli())
	if err := s.meta.UpdateProfileFields(ctx, profileID, map[string]interface{}{"profile_picture_url": url}); err != nil {
		return "", err
	}
	return url, nil
}

// removeStalePictures deletes superseded pictures, including ones written by
// the old layout that kept pictures under the resumes bucket.
func (s *ResumeService) removeStalePictures(ctx context.Context, profileID, keep string) {
	objects, err := s.blob.ListPrefix(ctx, constants.ProfilePicturesBucket, profileID+"/")
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("stale picture listing failed")
	} else {
		for _, obj := range objects {
			if obj == keep {
				continue
			}
			if err := s.blob.Remove(ctx, constants.ProfilePicturesBucket, obj); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Str("object", obj).Msg("stale picture removal failed")
			}
		}
	}

	legacyPrefix := constants.LegacyProfileImagesPrefix + "/" + profileID
	legacy, err := s.blob.ListPrefix(ctx, constants.ResumesBucket, legacyPrefix)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("legacy picture listing failed")
		return
	}
	for _, obj := range legacy {
		if err := s.blob.Remove(ctx, constants.ResumesBucket, obj); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("object", obj).Msg("legacy picture removal failed")
		}
	}
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
