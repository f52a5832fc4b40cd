package processor

import (
	"context"

	"nurse-ats-go/internal/constants"
	"nurse-ats-go/internal/logger"
	"nurse-ats-go/internal/parser"
	"nurse-ats-go/internal/types"
)

// Extraction sources recorded alongside every parse.
const (
	SourceRules = "rules"
	SourceLLM   = "llm"
)

// ExtractionResult is a parsed record with its provenance.
type ExtractionResult struct {
	Record     *types.ParsedResume
	Confidence int
	Source     string
}

// HybridExtractor runs the deterministic rule engine first and escalates to
// the LLM only when the rule-based confidence falls below the threshold. The
// higher-scoring record wins; ties keep the rule-based result since it is
// reproducible.
type HybridExtractor struct {
	llm       LlmExtractor
	threshold int
}

// NewHybridExtractor builds the orchestrator. llm may be nil, which disables
// escalation entirely. A non-positive threshold falls back to the default.
func NewHybridExtractor(llm LlmExtractor, threshold int) *HybridExtractor {
	if threshold <= 0 {
		threshold = constants.ConfidenceThreshold
	}
	return &HybridExtractor{llm: llm, threshold: threshold}
}

// Extract parses text and returns the winning record, post-processed and
// ready for persistence. It never fails: worst case is an empty record with
// confidence 0.
func (h *HybridExtractor) Extract(ctx context.Context, text string) *ExtractionResult {
	rulesRecord := parser.ExtractResume(text)
	rulesScore := parser.ScoreConfidence(rulesRecord, text)

	result := &ExtractionResult{
		Record:     rulesRecord,
		Confidence: rulesScore,
		Source:     SourceRules,
	}

	if rulesScore < h.threshold && h.llm != nil {
		llmRecord, err := h.llm.Extract(ctx, text)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("llm fallback errored, keeping rule-based record")
		} else if llmRecord != nil && !llmRecord.IsEmpty() {
			// The LLM record has no line structure to penalise, so it is
			// scored without the raw text.
			llmScore := parser.ScoreConfidence(llmRecord, "")
			logger.Ctx(ctx).Info().
				Int("rules_score", rulesScore).
				Int("llm_score", llmScore).
				Int("threshold", h.threshold).
				Msg("hybrid extraction compared both records")
			if llmScore > rulesScore {
				result.Record = llmRecord
				result.Confidence = llmScore
				result.Source = SourceLLM
			}
		}
	}

	parser.PostProcess(result.Record, text)
	return result
}
