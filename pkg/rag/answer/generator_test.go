package answer

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-docchat-be/pkg/lang"
	"ai-docchat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	response   string
	err        error
	lastPrompt string
	lastOpts   llm.Options
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if len(history) > 0 {
		f.lastPrompt = history[len(history)-1].Content
	}
	return f.applyAndReturn(opts)
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.lastPrompt = prompt
	return f.applyAndReturn(opts)
}

func (f *fakeProvider) applyAndReturn(opts []llm.Option) (string, error) {
	f.lastOpts = llm.Options{}
	for _, opt := range opts {
		opt(&f.lastOpts)
	}
	return f.response, f.err
}

func newTestGenerator(p llm.LLMProvider) *Generator {
	return NewGenerator(p, log.New(io.Discard, "", 0), 0.3)
}

const validJSON = `{
	"answer": "Twelve percent.",
	"explanation": "The report states revenue grew 12% year over year.",
	"sources": [{"file": "report.pdf", "location": "page 3", "quote": "Revenue grew 12%."}],
	"confidence": "high",
	"follow_up_questions": ["What drove the growth?"]
}`

func TestAnswerSuccess(t *testing.T) {
	provider := &fakeProvider{response: validJSON}
	g := newTestGenerator(provider)

	result, err := g.Answer(context.Background(), "How did revenue change?", "[report.pdf — page 3 — 'Revenue grew 12%.']", lang.English, 2048)

	assert.NoError(t, err)
	assert.Equal(t, "Twelve percent.", result.Answer)
	assert.Equal(t, "high", result.Confidence)
	assert.Len(t, result.Sources, 1)
	assert.Equal(t, "report.pdf", result.Sources[0].File)
	assert.Equal(t, []string{"What drove the growth?"}, result.FollowUpQuestions)

	// maxTokens and the schema constraint must reach the provider
	assert.Equal(t, 2048, provider.lastOpts.MaxTokens)
	assert.NotNil(t, provider.lastOpts.JSONSchema)
}

func TestAnswerStripsFences(t *testing.T) {
	provider := &fakeProvider{response: "```json\n" + validJSON + "\n```"}
	g := newTestGenerator(provider)

	result, err := g.Answer(context.Background(), "q", "ctx", lang.English, 0)

	assert.NoError(t, err)
	assert.Equal(t, "Twelve percent.", result.Answer)
}

func TestAnswerNormalizesConfidenceCase(t *testing.T) {
	provider := &fakeProvider{response: `{"answer":"a","explanation":"e","sources":[],"confidence":"High","follow_up_questions":[]}`}
	g := newTestGenerator(provider)

	result, err := g.Answer(context.Background(), "q", "ctx", lang.English, 0)

	assert.NoError(t, err)
	assert.Equal(t, "high", result.Confidence)
}

func TestAnswerUpstreamError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("quota exceeded")}
	g := newTestGenerator(provider)

	_, err := g.Answer(context.Background(), "q", "ctx", lang.English, 0)

	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
}

func TestAnswerFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "not json",
			response: "I cannot answer that.",
		},
		{
			name:     "missing answer field",
			response: `{"explanation":"e","sources":[],"confidence":"low","follow_up_questions":[]}`,
		},
		{
			name:     "missing sources field",
			response: `{"answer":"a","explanation":"e","confidence":"low","follow_up_questions":[]}`,
		},
		{
			name:     "missing confidence field",
			response: `{"answer":"a","explanation":"e","sources":[],"follow_up_questions":[]}`,
		},
		{
			name:     "confidence outside enum",
			response: `{"answer":"a","explanation":"e","sources":[],"confidence":"certain","follow_up_questions":[]}`,
		},
		{
			name:     "malformed source triple",
			response: `{"answer":"a","explanation":"e","sources":[{"file":123}],"confidence":"low","follow_up_questions":[]}`,
		},
		{
			name:     "follow ups not strings",
			response: `{"answer":"a","explanation":"e","sources":[],"confidence":"low","follow_up_questions":[42]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{response: tt.response}
			g := newTestGenerator(provider)

			_, err := g.Answer(context.Background(), "q", "ctx", lang.English, 0)

			var formatErr *ResponseFormatError
			assert.ErrorAs(t, err, &formatErr)
		})
	}
}

func TestAnswerBengaliInstruction(t *testing.T) {
	provider := &fakeProvider{response: validJSON}
	g := newTestGenerator(provider)

	_, err := g.Answer(context.Background(), "এটা কী?", "ctx", lang.Bengali, 0)

	assert.NoError(t, err)
	assert.Contains(t, provider.lastPrompt, "Bengali")
}
