package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"

	"nurse-ats-go/internal/logger"
	"nurse-ats-go/internal/types"
)

// LLMExtractor asks a JSON-constrained chat model for the same record shape
// the rule-based extractor produces. It is strictly best-effort: every fault
// (transport, timeout, malformed JSON) yields an empty record so the hybrid
// orchestrator can keep the rule-based result.

const llmSystemPrompt = `You are a resume parsing engine. Extract structured data from the resume text and respond with JSON only. No prose, no markdown fences.

Rules:
1. Respond with a single JSON object and nothing else.
2. Some resumes have words run together ("StaffNurseatMakatiMedical"); mentally re-insert the missing spaces before extracting.
3. Dates must be formatted "Month Year" (e.g. "Jan 2020") or "Present".
4. Each description must be a single string of bullet lines, every line prefixed with "• ".
5. When a unit such as "Medical Oncology" or "Emergency Department" is attached to the employer, put it in "department", not in "employer".
6. Include clinical placements, OJT, internships, and volunteer experience as experience entries with "type" set to "clinical_placement", "ojt", or "volunteer"; regular jobs use "employment".
7. Include every education level mentioned, not just the highest.
8. Extract US state RN license numbers such as "CA-RN-492817" as certifications of type "RN License".
9. Split "Facility | City, State" lines into "employer" and "location".

JSON shape:
{
  "summary": "", "address": "", "graduation_year": 0, "years_of_experience": 0,
  "salary": "", "hospitals": [""], "skills": [""],
  "certifications": [{"type": "", "number": "", "score": ""}],
  "experience": [{"employer": "", "position": "", "type": "employment", "department": "", "start_date": "", "end_date": "", "description": "", "location": ""}],
  "education": [{"institution": "", "degree": "", "field_of_study": "", "year": 0, "institution_location": "", "start_date": "", "end_date": "", "status": ""}]
}
Omit fields you cannot find. Do not invent values.`

// llmRecord is the wire shape of the model response. It is deliberately a
// separate type from types.ParsedResume: every field is optional and loosely
// typed, and normalisation crosses the boundary exactly once.
type llmRecord struct {
	Summary           string             `json:"summary"`
	Address           string             `json:"address"`
	GraduationYear    *int               `json:"graduation_year"`
	YearsOfExperience *int               `json:"years_of_experience"`
	Salary            string             `json:"salary"`
	Hospitals         []string           `json:"hospitals"`
	Skills            []string           `json:"skills"`
	Certifications    []llmCertification `json:"certifications"`
	Experience        []llmExperience    `json:"experience"`
	Education         []llmEducation     `json:"education"`
}

type llmCertification struct {
	Type   string `json:"type"`
	Number string `json:"number"`
	Score  string `json:"score"`
}

type llmExperience struct {
	Employer    string `json:"employer"`
	Position    string `json:"position"`
	Type        string `json:"type"`
	Department  string `json:"department"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type llmEducation struct {
	Institution         string `json:"institution"`
	Degree              string `json:"degree"`
	FieldOfStudy        string `json:"field_of_study"`
	Year                *int   `json:"year"`
	InstitutionLocation string `json:"institution_location"`
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
	Status              string `json:"status"`
}

// LLMExtractor adapts a chat model to the record shape.
type LLMExtractor struct {
	llmModel model.ToolCallingChatModel
	timeout  time.Duration
}

// LLMExtractorOption customises the adapter.
type LLMExtractorOption func(*LLMExtractor)

// WithTimeout bounds a single extraction call.
func WithTimeout(d time.Duration) LLMExtractorOption {
	return func(e *LLMExtractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewLLMExtractor wraps llmModel. A nil model is permitted; extraction then
// always returns an empty record.
func NewLLMExtractor(llmModel model.ToolCallingChatModel, options ...LLMExtractorOption) *LLMExtractor {
	extractor := &LLMExtractor{
		llmModel: llmModel,
		timeout:  45 * time.Second,
	}
	for _, opt := range options {
		opt(extractor)
	}
	return extractor
}

// Extract prompts the model with the raw resume text. On any fault it logs a
// warning and returns an empty record with a nil error.
func (e *LLMExtractor) Extract(ctx context.Context, text string) (*types.ParsedResume, error) {
	if e.llmModel == nil || strings.TrimSpace(text) == "" {
		return &types.ParsedResume{}, nil
	}

	response, err := e.callModel(ctx, text)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("llm extraction failed, keeping rule-based result")
		return &types.ParsedResume{}, nil
	}

	jsonStr := extractJSON(response)
	if jsonStr == "" {
		logger.Ctx(ctx).Warn().Str("response_head", truncateForLog(response, 120)).
			Msg("llm response contained no JSON object")
		return &types.ParsedResume{}, nil
	}

	var raw llmRecord
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("llm response JSON did not parse")
		return &types.ParsedResume{}, nil
	}
	return normalizeLLMRecord(&raw), nil
}

func (e *LLMExtractor) callModel(ctx context.Context, text string) (string, error) {
	messages := []*einoschema.Message{
		{Role: einoschema.System, Content: llmSystemPrompt},
		{Role: einoschema.User, Content: text},
	}

	maxRetries := 2
	retryDelay := 2 * time.Second

	var response *einoschema.Message
	var err error

	for retry := 0; retry <= maxRetries; retry++ {
		if retry > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("context cancelled: %w", ctx.Err())
			case <-time.After(retryDelay):
				retryDelay *= 2
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		response, err = e.llmModel.Generate(callCtx, messages)
		cancel()

		if err == nil {
			break
		}
		if !isRetryableError(err) || retry >= maxRetries {
			return "", fmt.Errorf("llm generate failed: %w", err)
		}
	}
	if response == nil {
		return "", fmt.Errorf("llm returned no message")
	}
	return response.Content, nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host")
}

// extractJSON pulls the first balanced JSON object out of a model response,
// tolerating markdown fences and prose around it.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)
	if fenced := strings.Index(response, "```"); fenced >= 0 {
		response = strings.ReplaceAll(response, "```json", "")
		response = strings.ReplaceAll(response, "```", "")
	}

	start := strings.Index(response, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return ""
}

// normalizeLLMRecord crosses the translation boundary: empty strings become
// nil, lists are filtered to non-empty members, and experience types outside
// the valid set collapse to employment.
func normalizeLLMRecord(raw *llmRecord) *types.ParsedResume {
	record := &types.ParsedResume{
		Summary:           optString(raw.Summary),
		Address:           optString(raw.Address),
		GraduationYear:    raw.GraduationYear,
		YearsOfExperience: raw.YearsOfExperience,
		Salary:            optString(raw.Salary),
		Hospitals:         filterNonEmpty(raw.Hospitals),
		Skills:            filterNonEmpty(raw.Skills),
	}

	for _, c := range raw.Certifications {
		if strings.TrimSpace(c.Type) == "" {
			continue
		}
		record.Certifications = append(record.Certifications, types.Certification{
			Type:   strings.TrimSpace(c.Type),
			Number: optString(c.Number),
			Score:  optString(c.Score),
		})
	}

	for _, e := range raw.Experience {
		entry := types.ExperienceEntry{
			Employer:    optString(e.Employer),
			Position:    optString(e.Position),
			Type:        normalizeExperienceType(e.Type),
			Department:  optString(e.Department),
			StartDate:   optString(e.StartDate),
			EndDate:     optString(e.EndDate),
			Description: optString(e.Description),
			Location:    optString(e.Location),
		}
		record.Experience = append(record.Experience, entry)
	}

	for _, ed := range raw.Education {
		record.Education = append(record.Education, types.EducationEntry{
			Institution:         optString(ed.Institution),
			Degree:              optString(ed.Degree),
			FieldOfStudy:        optString(ed.FieldOfStudy),
			Year:                ed.Year,
			InstitutionLocation: optString(ed.InstitutionLocation),
			StartDate:           optString(ed.StartDate),
			EndDate:             optString(ed.EndDate),
			Status:              optString(ed.Status),
		})
	}
	return record
}

func normalizeExperienceType(s string) types.ExperienceType {
	t := types.ExperienceType(strings.ToLower(strings.TrimSpace(s)))
	if types.ValidExperienceTypes[t] {
		return t
	}
	return types.ExperienceEmployment
}

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func filterNonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func truncateForLog(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
