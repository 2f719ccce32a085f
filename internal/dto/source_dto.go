package dto

import "time"

type AddURLRequest struct {
	URL string `json:"url" validate:"required"`
}

type SourceResponse struct {
	Id        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
}

// SourceProgressEvent travels over the internal event bus and is forwarded
// verbatim to WebSocket clients.
type SourceProgressEvent struct {
	SessionId string `json:"session_id"`
	SourceId  string `json:"source_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
}
