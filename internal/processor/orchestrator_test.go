package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nurse-ats-go/internal/constants"
	"nurse-ats-go/internal/types"
)

type fakeLlm struct {
	record *types.ParsedResume
	err    error
	calls  int
}

func (f *fakeLlm) Extract(_ context.Context, _ string) (*types.ParsedResume, error) {
	f.calls++
	return f.record, f.err
}

// strongResumeText scores well above the escalation threshold on rules alone.
const strongResumeText = `WORK EXPERIENCE
Staff Nurse
May 2019 - Present
Makati Medical Center, Manila
• Administered IV medications daily

EDUCATION
University of Santo Tomas
Bachelor of Science in Nursing
Graduated: May 2016
`

// weakResumeText produces a partial rules record below the threshold.
const weakResumeText = `Staff Nurse
June 2019 - March 2020
Philippine General Hospital
`

func strongLlmRecord() *types.ParsedResume {
	return &types.ParsedResume{
		Summary: types.StrPtr("Registered nurse with five years of intensive care experience."),
		Skills:  []string{"IV Therapy", "Triage", "Wound Care"},
		Certifications: []types.Certification{
			{Type: "PRC License"},
		},
		Experience: []types.ExperienceEntry{{
			Position:  types.StrPtr("Staff Nurse"),
			Employer:  types.StrPtr("Makati Medical Center"),
			Type:      types.ExperienceEmployment,
			StartDate: types.StrPtr("May 2019"),
		}},
		Education: []types.EducationEntry{{
			Degree:      types.StrPtr("Bachelor of Science in Nursing"),
			Institution: types.StrPtr("University of Santo Tomas"),
		}},
	}
}

func TestHybridExtractorDefaultThreshold(t *testing.T) {
	h := NewHybridExtractor(nil, 0)
	assert.Equal(t, constants.ConfidenceThreshold, h.threshold)

	h = NewHybridExtractor(nil, 70)
	assert.Equal(t, 70, h.threshold)
}

func TestHybridExtractorConfidentRulesSkipLLM(t *testing.T) {
	llm := &fakeLlm{record: strongLlmRecord()}
	h := NewHybridExtractor(llm, constants.ConfidenceThreshold)

	result := h.Extract(context.Background(), strongResumeText)

	assert.Equal(t, SourceRules, result.Source)
	assert.GreaterOrEqual(t, result.Confidence, constants.ConfidenceThreshold)
	assert.Zero(t, llm.calls, "no escalation above the threshold")
	require.Len(t, result.Record.Experience, 1)
}

func TestHybridExtractorEscalatesAndLLMWins(t *testing.T) {
	llm := &fakeLlm{record: strongLlmRecord()}
	h := NewHybridExtractor(llm, constants.ConfidenceThreshold)

	result := h.Extract(context.Background(), "nothing extractable in this prose at all")

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, SourceLLM, result.Source)
	assert.Positive(t, result.Confidence)
	require.Len(t, result.Record.Experience, 1)
	require.NotNil(t, result.Record.Experience[0].Employer)
	assert.Equal(t, "Makati Medical Center", *result.Record.Experience[0].Employer)
}

func TestHybridExtractorTieKeepsRules(t *testing.T) {
	// Both records score 30: one complete experience entry each.
	llm := &fakeLlm{record: &types.ParsedResume{
		Experience: []types.ExperienceEntry{{
			Position:  types.StrPtr("Charge Nurse"),
			Employer:  types.StrPtr("The Medical City"),
			Type:      types.ExperienceEmployment,
			StartDate: types.StrPtr("Jan 2018"),
		}},
	}}
	h := NewHybridExtractor(llm, constants.ConfidenceThreshold)

	result := h.Extract(context.Background(), weakResumeText)

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, SourceRules, result.Source, "ties keep the reproducible result")
	require.NotNil(t, result.Record.Experience[0].Employer)
	assert.Equal(t, "Philippine General Hospital", *result.Record.Experience[0].Employer)
}

func TestHybridExtractorEmptyLLMRecordIgnored(t *testing.T) {
	llm := &fakeLlm{record: &types.ParsedResume{}}
	h := NewHybridExtractor(llm, constants.ConfidenceThreshold)

	result := h.Extract(context.Background(), weakResumeText)

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, SourceRules, result.Source)
}

func TestHybridExtractorLLMErrorKeepsRules(t *testing.T) {
	llm := &fakeLlm{err: errors.New("upstream unavailable")}
	h := NewHybridExtractor(llm, constants.ConfidenceThreshold)

	result := h.Extract(context.Background(), weakResumeText)

	assert.Equal(t, SourceRules, result.Source)
	require.NotNil(t, result.Record)
}

func TestHybridExtractorNilLLMNeverEscalates(t *testing.T) {
	h := NewHybridExtractor(nil, constants.ConfidenceThreshold)
	result := h.Extract(context.Background(), "unparseable text")

	assert.Equal(t, SourceRules, result.Source)
	assert.Zero(t, result.Confidence)
	assert.True(t, result.Record.IsEmpty())
}

func TestHybridExtractorPostProcessesWinner(t *testing.T) {
	h := NewHybridExtractor(nil, constants.ConfidenceThreshold)

	text := "Student Nurse\nJune 2019 - March 2020\nPhilippine General Hospital\n"
	result := h.Extract(context.Background(), text)

	require.Len(t, result.Record.Experience, 1)
	assert.Equal(t, types.ExperienceClinicalPlacement, result.Record.Experience[0].Type,
		"student positions are reclassified before persistence")
}
