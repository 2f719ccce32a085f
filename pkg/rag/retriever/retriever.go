package retriever

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-docchat-be/pkg/lang"
	"ai-docchat-be/pkg/llm"
)

// NoSourcesContext is returned synchronously when the registry is empty.
const NoSourcesContext = "No knowledge sources are available yet. Upload a document or add a URL to get started."

// Retriever is the simulated retrieval step. It does no parsing, chunking,
// embedding, or search: it asks the model to fabricate a plausible passage
// from the source names and the question alone.
type Retriever struct {
	provider    llm.LLMProvider
	logger      *log.Logger
	temperature float64
}

func NewRetriever(provider llm.LLMProvider, logger *log.Logger, temperature float64) *Retriever {
	return &Retriever{
		provider:    provider,
		logger:      logger,
		temperature: temperature,
	}
}

// Retrieve never fails: oracle errors are swallowed and substituted with a
// fixed fallback citing the first source, so callers always get usable text.
func (r *Retriever) Retrieve(ctx context.Context, sources []string, query string) string {
	if len(sources) == 0 {
		return NoSourcesContext
	}

	language := lang.Detect(query)
	prompt := r.buildPrompt(sources, query, language)

	r.logger.Printf("[RETRIEVAL] Simulated search over %d sources (lang=%s): %q", len(sources), language, query)

	response, err := r.provider.Generate(ctx, prompt, llm.WithTemperature(r.temperature))
	if err != nil {
		r.logger.Printf("[RETRIEVAL] Oracle failed, substituting fallback: %v", err)
		return fallbackPassage(sources[0])
	}

	return strings.TrimSpace(response)
}

func (r *Retriever) buildPrompt(sources []string, query string, language lang.Language) string {
	var prompt strings.Builder

	prompt.WriteString("You are simulating a document retrieval system.\n\n")
	prompt.WriteString("Available knowledge sources:\n")
	for i, name := range sources {
		prompt.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
	}

	prompt.WriteString("\nUser question: ")
	prompt.WriteString(query)
	prompt.WriteString("\n\n")

	prompt.WriteString("Write a short, plausible passage (2-3 sentences) that could have been retrieved ")
	prompt.WriteString("from ONE of the sources above to answer this question. ")
	prompt.WriteString("Attribute it to that source using exactly this format:\n")
	prompt.WriteString("[source name — location — 'quoted text']\n\n")

	if language == lang.Bengali {
		prompt.WriteString("Write the passage in Bengali.\n")
	} else {
		prompt.WriteString("Write the passage in English.\n")
	}
	prompt.WriteString("Return only the formatted passage, nothing else.")

	return prompt.String()
}

func fallbackPassage(source string) string {
	return fmt.Sprintf("[%s — section 1 — 'This document contains information relevant to the question.']", source)
}
