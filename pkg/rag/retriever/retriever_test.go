package retriever

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"ai-docchat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.calls++
	if len(history) > 0 {
		f.lastPrompt = history[len(history)-1].Content
	}
	return f.response, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.response, f.err
}

func newTestRetriever(p llm.LLMProvider) *Retriever {
	return NewRetriever(p, log.New(io.Discard, "", 0), 0.8)
}

func TestRetrieveNoSources(t *testing.T) {
	provider := &fakeProvider{response: "should never be used"}
	r := newTestRetriever(provider)

	got := r.Retrieve(context.Background(), nil, "What is this?")

	assert.Equal(t, NoSourcesContext, got)
	assert.Equal(t, 0, provider.calls, "oracle must not be contacted without sources")
}

func TestRetrievePassthrough(t *testing.T) {
	provider := &fakeProvider{response: "  [report.pdf — page 3 — 'Revenue grew 12% year over year.']  \n"}
	r := newTestRetriever(provider)

	got := r.Retrieve(context.Background(), []string{"report.pdf"}, "How did revenue change?")

	// trimmed but otherwise unvalidated passthrough
	assert.Equal(t, "[report.pdf — page 3 — 'Revenue grew 12% year over year.']", got)
	assert.Equal(t, 1, provider.calls)
}

func TestRetrieveFallbackOnError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("network down")}
	r := newTestRetriever(provider)

	got := r.Retrieve(context.Background(), []string{"handbook.docx", "notes.pdf"}, "What is the leave policy?")

	assert.Contains(t, got, "handbook.docx", "fallback must cite the first source")
	assert.True(t, strings.HasPrefix(got, "["), "fallback keeps the bracketed citation style")
}

func TestRetrievePromptLanguage(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "english query", query: "What is this?", want: "in English"},
		{name: "bengali query", query: "এটা কী?", want: "in Bengali"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{response: "ok"}
			r := newTestRetriever(provider)

			r.Retrieve(context.Background(), []string{"doc.pdf"}, tt.query)

			assert.Contains(t, provider.lastPrompt, tt.want)
			assert.Contains(t, provider.lastPrompt, "doc.pdf")
		})
	}
}
