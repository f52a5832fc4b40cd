package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nurse-ats-go/internal/types"
)

// scriptedChatModel returns a canned response or error.
type scriptedChatModel struct {
	response string
	err      error
	calls    int
}

func (m *scriptedChatModel) Generate(_ context.Context, _ []*einoschema.Message, _ ...model.Option) (*einoschema.Message, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &einoschema.Message{Role: einoschema.Assistant, Content: m.response}, nil
}

func (m *scriptedChatModel) Stream(_ context.Context, _ []*einoschema.Message, _ ...model.Option) (*einoschema.StreamReader[*einoschema.Message], error) {
	return nil, errors.New("streaming not scripted")
}

func (m *scriptedChatModel) WithTools(_ []*einoschema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

var _ model.ToolCallingChatModel = (*scriptedChatModel)(nil)

const scriptedResponse = "Here is the extraction:\n```json\n" + `{
  "summary": "Experienced ICU nurse",
  "address": "  ",
  "graduation_year": 2016,
  "skills": ["IV Therapy", "  ", "Triage"],
  "certifications": [{"type": "PRC License", "number": "0123456"}, {"type": "  "}],
  "experience": [
    {"employer": "Makati Medical Center", "position": "Staff Nurse", "type": "Clinical_Placement", "start_date": "May 2019", "end_date": "Present"},
    {"position": "Staff Nurse", "type": "freelance"}
  ],
  "education": [{"institution": "University of Santo Tomas", "degree": "BSN", "year": 2016}]
}` + "\n```\nLet me know if you need anything else."

func TestLLMExtract(t *testing.T) {
	chat := &scriptedChatModel{response: scriptedResponse}
	extractor := NewLLMExtractor(chat)

	record, err := extractor.Extract(context.Background(), "resume text")
	require.NoError(t, err)
	require.NotNil(t, record)

	require.NotNil(t, record.Summary)
	assert.Equal(t, "Experienced ICU nurse", *record.Summary)
	assert.Nil(t, record.Address, "whitespace-only strings normalise to nil")
	require.NotNil(t, record.GraduationYear)
	assert.Equal(t, 2016, *record.GraduationYear)

	assert.Equal(t, []string{"IV Therapy", "Triage"}, record.Skills)

	require.Len(t, record.Certifications, 1, "blank certification types are dropped")
	assert.Equal(t, "PRC License", record.Certifications[0].Type)
	require.NotNil(t, record.Certifications[0].Number)
	assert.Equal(t, "0123456", *record.Certifications[0].Number)

	require.Len(t, record.Experience, 2)
	assert.Equal(t, types.ExperienceClinicalPlacement, record.Experience[0].Type)
	assert.Equal(t, types.ExperienceEmployment, record.Experience[1].Type,
		"types outside the valid set collapse to employment")

	require.Len(t, record.Education, 1)
	require.NotNil(t, record.Education[0].Degree)
	assert.Equal(t, "BSN", *record.Education[0].Degree)
}

func TestLLMExtractNilModel(t *testing.T) {
	extractor := NewLLMExtractor(nil)
	record, err := extractor.Extract(context.Background(), "resume text")
	require.NoError(t, err)
	assert.True(t, record.IsEmpty())
}

func TestLLMExtractEmptyText(t *testing.T) {
	chat := &scriptedChatModel{response: scriptedResponse}
	extractor := NewLLMExtractor(chat)
	record, err := extractor.Extract(context.Background(), "   ")
	require.NoError(t, err)
	assert.True(t, record.IsEmpty())
	assert.Zero(t, chat.calls, "blank input never reaches the model")
}

func TestLLMExtractModelFaultYieldsEmptyRecord(t *testing.T) {
	chat := &scriptedChatModel{err: errors.New("boom")}
	extractor := NewLLMExtractor(chat)
	record, err := extractor.Extract(context.Background(), "resume text")
	require.NoError(t, err, "model faults are swallowed, not surfaced")
	assert.True(t, record.IsEmpty())
	assert.Equal(t, 1, chat.calls, "non-retryable errors do not retry")
}

func TestLLMExtractNonJSONResponse(t *testing.T) {
	chat := &scriptedChatModel{response: "I could not parse this resume, sorry."}
	extractor := NewLLMExtractor(chat)
	record, err := extractor.Extract(context.Background(), "resume text")
	require.NoError(t, err)
	assert.True(t, record.IsEmpty())
}

func TestLLMExtractMalformedJSONResponse(t *testing.T) {
	chat := &scriptedChatModel{response: `{"summary": "unterminated`}
	extractor := NewLLMExtractor(chat)
	record, err := extractor.Extract(context.Background(), "resume text")
	require.NoError(t, err)
	assert.True(t, record.IsEmpty())
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON(`The result is {"a":1} as requested.`))
	assert.Equal(t, `{"a":{"b":2}}`, extractJSON(`{"a":{"b":2}} trailing`))
	assert.Equal(t, `{"a":"brace } in string"}`, extractJSON(`{"a":"brace } in string"}`))
	assert.Empty(t, extractJSON("no object here"))
	assert.Empty(t, extractJSON(`{"unbalanced":`))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("context deadline exceeded")))
	assert.True(t, isRetryableError(errors.New("dial tcp: connection refused")))
	assert.True(t, isRetryableError(errors.New("unexpected EOF")))
	assert.False(t, isRetryableError(errors.New("invalid api key")))
	assert.False(t, isRetryableError(nil))
}
