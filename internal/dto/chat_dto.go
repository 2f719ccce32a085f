package dto

import (
	"time"

	"ai-docchat-be/internal/entity"
)

type AskRequest struct {
	Question string `json:"question"`
}

type ChatMessageResponse struct {
	Id        string               `json:"id"`
	Role      string               `json:"role"`
	Text      string               `json:"text,omitempty"`
	Answer    *entity.AnswerResult `json:"answer,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

type AskResponse struct {
	Sent  *ChatMessageResponse `json:"sent,omitempty"`
	Reply *ChatMessageResponse `json:"reply,omitempty"`
	// Error carries the turn's failure as a plain display string; the user
	// message above stays in the transcript (no rollback).
	Error string `json:"error,omitempty"`
}

type ChatHistoryResponse struct {
	Messages []*ChatMessageResponse `json:"messages"`
	Error    string                 `json:"error,omitempty"`
}

// LoadingPhraseEvent is pushed over WebSocket while an answer is in flight.
type LoadingPhraseEvent struct {
	Phrase string `json:"phrase"`
}
