package store

import (
	"sync"

	"ai-docchat-be/internal/entity"
)

// Session is the in-memory state of one chat session: the source registry,
// the transcript, the loading/error surface, and the guards around them.
// All mutation goes through methods; the mutex makes the registry and
// transcript single-writer from concurrent handlers and ticker tasks.
type Session struct {
	ID    string
	Email string

	mu         sync.RWMutex
	epoch      int
	inFlight   bool
	sources    []*entity.KnowledgeSource
	transcript []*entity.ChatMessage
	lastError  string
}

func NewSession(id, email string) *Session {
	return &Session{
		ID:    id,
		Email: email,
	}
}

// --- Ask lifecycle ---

// BeginAsk sets the single-flight flag and returns the current epoch.
// Returns ok=false if another ask is already in flight.
func (s *Session) BeginAsk() (epoch int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return 0, false
	}
	s.inFlight = true
	return s.epoch, true
}

func (s *Session) EndAsk() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// EpochIs reports whether the transcript generation is still the one captured
// at BeginAsk. A clear/new-chat/logout bumps the epoch, so stale completions
// can be discarded.
func (s *Session) EpochIs(epoch int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch == epoch
}

// --- Transcript ---

// Append adds a message only if the transcript generation still matches.
func (s *Session) Append(epoch int, msg *entity.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.transcript = append(s.transcript, msg)
	return true
}

func (s *Session) Transcript() []*entity.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// ResetTranscript clears the transcript and error and bumps the epoch.
// Sources are untouched; clearing those is the registry's own operation.
func (s *Session) ResetTranscript() {
	s.mu.Lock()
	s.transcript = nil
	s.lastError = ""
	s.epoch++
	s.mu.Unlock()
}

// --- Error surface ---

func (s *Session) SetError(epoch int, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.lastError = msg
	return true
}

func (s *Session) ClearError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// --- Source registry ---

func (s *Session) AddSource(src *entity.KnowledgeSource) {
	s.mu.Lock()
	s.sources = append(s.sources, src)
	s.mu.Unlock()
}

func (s *Session) Sources() []*entity.KnowledgeSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.KnowledgeSource, len(s.sources))
	copy(out, s.sources)
	return out
}

// CompletedSourceNames returns display names of sources ready for retrieval,
// in insertion order.
func (s *Session) CompletedSourceNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for _, src := range s.sources {
		if src.Status == entity.SourceStatusCompleted {
			names = append(names, src.Name())
		}
	}
	return names
}

// RemoveSource detaches the source from the registry and returns it so the
// caller can stop its task. Returns nil if the id is unknown.
func (s *Session) RemoveSource(id string) *entity.KnowledgeSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, src := range s.sources {
		if src.Id == id {
			s.sources = append(s.sources[:i], s.sources[i+1:]...)
			return src
		}
	}
	return nil
}

// ClearSources empties the registry and returns the removed entries so the
// caller can stop their tasks.
func (s *Session) ClearSources() []*entity.KnowledgeSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.sources
	s.sources = nil
	return removed
}

// AdvanceUpload moves a file source one tick forward. It reports the new
// progress, whether the source just completed, and whether the tick applied
// at all (false once the source left "uploading" or was removed — the ticker
// must stop then).
func (s *Session) AdvanceUpload(id string, increment int) (progress int, completed bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range s.sources {
		if src.Id != id {
			continue
		}
		if src.Status != entity.SourceStatusUploading {
			return src.Progress, false, false
		}
		src.Progress += increment
		if src.Progress >= 100 {
			src.Progress = 100
			src.Status = entity.SourceStatusCompleted
			return src.Progress, true, true
		}
		return src.Progress, false, true
	}
	return 0, false, false
}
