package store

import (
	"testing"
	"time"

	"ai-docchat-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestBeginAskSingleFlight(t *testing.T) {
	s := NewSession("s1", "a@b.com")

	epoch, ok := s.BeginAsk()
	assert.True(t, ok)
	assert.Equal(t, 0, epoch)

	_, ok = s.BeginAsk()
	assert.False(t, ok, "second ask must be rejected while one is in flight")

	s.EndAsk()
	_, ok = s.BeginAsk()
	assert.True(t, ok)
}

func TestResetTranscriptDiscardsStaleAppend(t *testing.T) {
	s := NewSession("s1", "a@b.com")

	epoch, _ := s.BeginAsk()
	assert.True(t, s.Append(epoch, entity.NewUserMessage("m1", "hello", time.Now())))

	// The user clears the chat while the answer is still in flight.
	s.ResetTranscript()

	reply := entity.NewModelMessage("m2", &entity.AnswerResult{Answer: "late"}, time.Now())
	assert.False(t, s.Append(epoch, reply), "stale completion must be discarded")
	assert.Empty(t, s.Transcript())

	assert.False(t, s.SetError(epoch, "boom"), "stale errors must be discarded too")
	assert.Empty(t, s.LastError())
}

func TestResetTranscriptKeepsSources(t *testing.T) {
	s := NewSession("s1", "a@b.com")
	s.AddSource(entity.NewURLSource("https://example.com/doc"))

	s.ResetTranscript()

	assert.Len(t, s.Sources(), 1)
}

func TestCompletedSourceNamesFiltersPending(t *testing.T) {
	s := NewSession("s1", "a@b.com")
	s.AddSource(entity.NewFileSource("draft.pdf")) // still uploading
	s.AddSource(entity.NewURLSource("https://example.com/spec"))

	names := s.CompletedSourceNames()

	assert.Equal(t, []string{"https://example.com/spec"}, names)
}

func TestAdvanceUploadLifecycle(t *testing.T) {
	s := NewSession("s1", "a@b.com")
	src := entity.NewFileSource("report.pdf")
	s.AddSource(src)

	for i := 1; i <= 4; i++ {
		progress, completed, ok := s.AdvanceUpload(src.Id, 20)
		assert.True(t, ok)
		assert.False(t, completed)
		assert.Equal(t, i*20, progress)
	}

	progress, completed, ok := s.AdvanceUpload(src.Id, 20)
	assert.True(t, ok)
	assert.True(t, completed)
	assert.Equal(t, 100, progress)

	// Once completed the ticker must be told to stop.
	_, _, ok = s.AdvanceUpload(src.Id, 20)
	assert.False(t, ok)
}

func TestAdvanceUploadUnknownSource(t *testing.T) {
	s := NewSession("s1", "a@b.com")

	_, _, ok := s.AdvanceUpload("missing", 20)
	assert.False(t, ok)
}

func TestRemoveAndClearSources(t *testing.T) {
	s := NewSession("s1", "a@b.com")
	a := entity.NewFileSource("a.pdf")
	b := entity.NewFileSource("b.docx")
	s.AddSource(a)
	s.AddSource(b)

	removed := s.RemoveSource(a.Id)
	assert.Equal(t, a, removed)
	assert.Nil(t, s.RemoveSource(a.Id))
	assert.Len(t, s.Sources(), 1)

	cleared := s.ClearSources()
	assert.Len(t, cleared, 1)
	assert.Empty(t, s.Sources())
}
