package answer

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/pkg/lang"
	"ai-docchat-be/pkg/llm"
)

const systemInstruction = `You are a careful question-answering assistant working over retrieved document passages.

RULES:
1. Answer ONLY from the supplied context. Do not use outside knowledge.
2. Cite your sources by file name and location (page, section, or similar).
3. Separate a short direct answer from a longer explanation.
4. If a claim is not directly supported by the context, label it clearly as inference.
5. Suggest 1-3 natural follow-up questions the user might ask next.
6. Refuse requests that are unsafe or ask for private personal data.`

// Generator produces the structured AnswerResult for one turn.
type Generator struct {
	provider    llm.LLMProvider
	logger      *log.Logger
	temperature float64
}

func NewGenerator(provider llm.LLMProvider, logger *log.Logger, temperature float64) *Generator {
	return &Generator{
		provider:    provider,
		logger:      logger,
		temperature: temperature,
	}
}

// answerSchema constrains the oracle to the AnswerResult shape. All five
// fields are mandatory.
func answerSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"answer":      map[string]any{"type": "STRING"},
			"explanation": map[string]any{"type": "STRING"},
			"sources": map[string]any{
				"type": "ARRAY",
				"items": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"file":     map[string]any{"type": "STRING"},
						"location": map[string]any{"type": "STRING"},
						"quote":    map[string]any{"type": "STRING"},
					},
					"required": []string{"file", "location", "quote"},
				},
			},
			"confidence": map[string]any{
				"type": "STRING",
				"enum": []string{"low", "medium", "high"},
			},
			"follow_up_questions": map[string]any{
				"type":  "ARRAY",
				"items": map[string]any{"type": "STRING"},
			},
		},
		"required": []string{"answer", "explanation", "sources", "confidence", "follow_up_questions"},
	}
}

// Answer asks the oracle for a schema-constrained JSON answer and validates
// it at the parse boundary. maxTokens comes from the user's settings.
func (g *Generator) Answer(
	ctx context.Context,
	question string,
	contextText string,
	language lang.Language,
	maxTokens int,
) (*entity.AnswerResult, error) {

	prompt := g.buildPrompt(question, contextText, language)

	opts := []llm.Option{
		llm.WithTemperature(g.temperature),
		llm.WithJSONSchema(answerSchema()),
	}
	if maxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(maxTokens))
	}

	raw, err := g.provider.Generate(ctx, prompt, opts...)
	if err != nil {
		g.logger.Printf("[ANSWER] Oracle call failed: %v", err)
		return nil, &UpstreamError{Err: err}
	}

	result, err := parseAnswer(raw)
	if err != nil {
		g.logger.Printf("[ANSWER] Response rejected: %v", err)
		return nil, err
	}

	g.logger.Printf("[ANSWER] Generated answer with %d citations (confidence=%s)", len(result.Sources), result.Confidence)
	return result, nil
}

func (g *Generator) buildPrompt(question, contextText string, language lang.Language) string {
	var prompt strings.Builder

	prompt.WriteString(systemInstruction)
	prompt.WriteString("\n\n")

	if language == lang.Bengali {
		prompt.WriteString("Write every free-text field in Bengali. Keep the JSON field names in English.\n\n")
	} else {
		prompt.WriteString("Write every free-text field in English.\n\n")
	}

	prompt.WriteString("<context>\n")
	prompt.WriteString(contextText)
	prompt.WriteString("\n</context>\n\n")

	prompt.WriteString("<question>\n")
	prompt.WriteString(question)
	prompt.WriteString("\n</question>\n\n")

	prompt.WriteString("Respond with a single JSON object with exactly these fields: ")
	prompt.WriteString(`"answer" (string), "explanation" (string), "sources" (array of {file, location, quote}), `)
	prompt.WriteString(`"confidence" ("low"|"medium"|"high"), "follow_up_questions" (array of strings).`)

	return prompt.String()
}

// parseAnswer validates the oracle output at the boundary instead of trusting
// the cast: required keys, confidence enum, and citation shape are enforced.
func parseAnswer(raw string) (*entity.AnswerResult, error) {
	cleaned := stripFences(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, &ResponseFormatError{Reason: "response is not a JSON object", Raw: raw}
	}
	for _, key := range []string{"answer", "explanation", "sources", "confidence", "follow_up_questions"} {
		if _, ok := fields[key]; !ok {
			return nil, &ResponseFormatError{Reason: "missing required field " + key, Raw: raw}
		}
	}

	var result entity.AnswerResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &ResponseFormatError{Reason: "field has wrong type: " + err.Error(), Raw: raw}
	}

	result.Confidence = strings.ToLower(strings.TrimSpace(result.Confidence))
	switch result.Confidence {
	case "low", "medium", "high":
	default:
		return nil, &ResponseFormatError{Reason: "confidence is not one of low/medium/high", Raw: raw}
	}

	if result.Sources == nil {
		result.Sources = []entity.SourceCitation{}
	}
	if result.FollowUpQuestions == nil {
		result.FollowUpQuestions = []string{}
	}

	return &result, nil
}

// stripFences removes a markdown code fence wrapper, which some models emit
// even in JSON mode.
func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
