package entity

import (
	"context"
	"fmt"
	"time"
)

const (
	SourceTypeFile = "file"
	SourceTypeURL  = "url"

	SourceStatusUploading  = "uploading"
	SourceStatusProcessing = "processing"
	SourceStatusCompleted  = "completed"
	SourceStatusError      = "error"
)

// KnowledgeSource is one uploaded file or added URL the user chats against.
// The Type field discriminates which payload field is meaningful.
type KnowledgeSource struct {
	Id        string    `json:"id"`
	Type      string    `json:"type"` // "file" | "url"
	FileName  string    `json:"file_name,omitempty"`
	URL       string    `json:"url,omitempty"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"created_at"`

	// cancel stops the upload-simulation task owned by this entry.
	// Nil for URL sources, which never tick.
	cancel context.CancelFunc
}

// NewFileSource creates a file source at the start of its upload lifecycle.
func NewFileSource(fileName string) *KnowledgeSource {
	now := time.Now()
	return &KnowledgeSource{
		Id:        fmt.Sprintf("%s-%d", fileName, now.UnixNano()),
		Type:      SourceTypeFile,
		FileName:  fileName,
		Status:    SourceStatusUploading,
		Progress:  0,
		CreatedAt: now,
	}
}

// NewURLSource creates a URL source; URLs are ready immediately.
func NewURLSource(rawURL string) *KnowledgeSource {
	now := time.Now()
	return &KnowledgeSource{
		Id:        fmt.Sprintf("url-%d", now.UnixNano()),
		Type:      SourceTypeURL,
		URL:       rawURL,
		Status:    SourceStatusCompleted,
		Progress:  100,
		CreatedAt: now,
	}
}

// Name returns the display name used in citations and retrieval prompts.
func (s *KnowledgeSource) Name() string {
	if s.Type == SourceTypeURL {
		return s.URL
	}
	return s.FileName
}

// BindTask attaches the cancel function of the upload-simulation task.
// Called exactly once, at source creation, before the task starts.
func (s *KnowledgeSource) BindTask(cancel context.CancelFunc) {
	s.cancel = cancel
}

// StopTask cancels the upload-simulation task if one is running.
func (s *KnowledgeSource) StopTask() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
