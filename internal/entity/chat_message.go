package entity

import (
	"time"
)

// ChatMessage is one turn in the visible transcript. Role discriminates the
// content: user turns carry Text, model turns carry Answer.
type ChatMessage struct {
	Id        string        `json:"id"`
	Role      string        `json:"role"` // "user" | "model"
	Text      string        `json:"text,omitempty"`
	Answer    *AnswerResult `json:"answer,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// AnswerResult is the structured output of one question-answer cycle.
type AnswerResult struct {
	Answer            string           `json:"answer"`
	Explanation       string           `json:"explanation"`
	Sources           []SourceCitation `json:"sources"`
	Confidence        string           `json:"confidence"` // "low" | "medium" | "high"
	FollowUpQuestions []string         `json:"follow_up_questions"`
}

// SourceCitation points at the passage an answer claims to rest on.
type SourceCitation struct {
	File     string `json:"file"`
	Location string `json:"location"`
	Quote    string `json:"quote"`
}

func NewUserMessage(id, text string, at time.Time) *ChatMessage {
	return &ChatMessage{
		Id:        id,
		Role:      "user",
		Text:      text,
		CreatedAt: at,
	}
}

func NewModelMessage(id string, answer *AnswerResult, at time.Time) *ChatMessage {
	return &ChatMessage{
		Id:        id,
		Role:      "model",
		Answer:    answer,
		CreatedAt: at,
	}
}
