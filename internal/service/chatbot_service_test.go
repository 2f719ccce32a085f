package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/localstore"
	"ai-docchat-be/pkg/rag/answer"
	"ai-docchat-be/pkg/rag/retriever"
	"ai-docchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const answerJSON = `{
	"answer": "Twelve percent.",
	"explanation": "The report states revenue grew 12% year over year.",
	"sources": [{"file": "report.pdf", "location": "page 3", "quote": "Revenue grew 12%."}],
	"confidence": "high",
	"follow_up_questions": ["What drove the growth?"]
}`

type chatFixture struct {
	svc       IChatbotService
	session   *store.Session
	retrieval *fakeProvider
	answering *fakeProvider
	pusher    *fakePusher
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	retrieval := &fakeProvider{response: "[report.pdf — page 3 — 'Revenue grew 12%.']"}
	answering := &fakeProvider{response: answerJSON}

	ls, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	settings := NewSettingsService(ls, nopLogger{})

	pusher := &fakePusher{}
	svc := NewChatbotService(
		retriever.NewRetriever(retrieval, discardLogger(), 0.7),
		answer.NewGenerator(answering, discardLogger(), 0.2),
		settings,
		pusher,
		nil,
		discardLogger(),
		nopLogger{},
		time.Second,
		time.Millisecond,
		5*time.Millisecond,
	)

	session := store.NewSession("s1", "a@b.com")
	session.AddSource(entity.NewURLSource("https://example.com/report"))

	return &chatFixture{
		svc:       svc,
		session:   session,
		retrieval: retrieval,
		answering: answering,
		pusher:    pusher,
	}
}

func TestAskBlankQuestionIsNoOp(t *testing.T) {
	f := newChatFixture(t)

	res, err := f.svc.Ask(context.Background(), f.session, &dto.AskRequest{Question: "   "})

	assert.NoError(t, err)
	assert.Nil(t, res.Sent)
	assert.Nil(t, res.Reply)
	assert.Empty(t, f.svc.GetHistory(context.Background(), f.session).Messages)
}

func TestAskWithoutCompletedSources(t *testing.T) {
	f := newChatFixture(t)
	f.session.ClearSources()
	f.session.AddSource(entity.NewFileSource("pending.pdf")) // still uploading

	_, err := f.svc.Ask(context.Background(), f.session, &dto.AskRequest{Question: "anything?"})

	var validationErr *dto.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.NoSourcesValidationMessage, validationErr.Message)
}

func TestAskSuccess(t *testing.T) {
	f := newChatFixture(t)

	res, err := f.svc.Ask(context.Background(), f.session, &dto.AskRequest{Question: "How did revenue change?"})

	require.NoError(t, err)
	require.NotNil(t, res.Sent)
	require.NotNil(t, res.Reply)
	assert.Empty(t, res.Error)
	assert.Equal(t, constant.ChatMessageRoleUser, res.Sent.Role)
	assert.Equal(t, "How did revenue change?", res.Sent.Text)
	assert.Equal(t, constant.ChatMessageRoleModel, res.Reply.Role)
	assert.Equal(t, "Twelve percent.", res.Reply.Answer.Answer)

	history := f.svc.GetHistory(context.Background(), f.session)
	assert.Len(t, history.Messages, 2)
	assert.Empty(t, history.Error)

	// Both oracle calls happened: one retrieval, one answer.
	assert.Equal(t, 1, f.retrieval.calls)
	assert.Equal(t, 1, f.answering.calls)

	// The retrieved passage must flow into the answer prompt.
	assert.Contains(t, f.answering.lastPrompt, "Revenue grew 12%.")

	// At least the first loading phrase was pushed.
	assert.GreaterOrEqual(t, f.pusher.count(constant.WSEventLoadingPhrase), 1)
}

func TestAskOracleFailureKeepsUserMessage(t *testing.T) {
	f := newChatFixture(t)
	f.answering.err = errors.New("quota exceeded for project")

	res, err := f.svc.Ask(context.Background(), f.session, &dto.AskRequest{Question: "How did revenue change?"})

	require.NoError(t, err, "turn failures surface as a display string, not an HTTP error")
	require.NotNil(t, res.Sent)
	assert.Nil(t, res.Reply)

	// The failure's own message is surfaced, not a generic replacement.
	assert.Contains(t, res.Error, "quota exceeded for project")

	history := f.svc.GetHistory(context.Background(), f.session)
	assert.Len(t, history.Messages, 1, "the user message stays in the transcript")
	assert.Equal(t, res.Error, history.Error)
}

func TestAskRetrievalFailureStillAnswers(t *testing.T) {
	f := newChatFixture(t)
	f.retrieval.err = errors.New("oracle timeout")

	res, err := f.svc.Ask(context.Background(), f.session, &dto.AskRequest{Question: "How did revenue change?"})

	require.NoError(t, err)
	require.NotNil(t, res.Reply, "retrieval failures fall back, they never fail the turn")

	// The fallback passage cites the first source.
	assert.Contains(t, f.answering.lastPrompt, "https://example.com/report")
}

func TestAskRejectedWhileInFlight(t *testing.T) {
	f := newChatFixture(t)
	_, ok := f.session.BeginAsk()
	require.True(t, ok)
	defer f.session.EndAsk()

	_, err := f.svc.Ask(context.Background(), f.session, &dto.AskRequest{Question: "again?"})

	var validationErr *dto.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.AskInFlightValidationMessage, validationErr.Message)
}

func TestAskClearsPreviousError(t *testing.T) {
	f := newChatFixture(t)
	f.answering.err = errors.New("upstream down")
	_, err := f.svc.Ask(context.Background(), f.session, &dto.AskRequest{Question: "first"})
	require.NoError(t, err)
	require.NotEmpty(t, f.svc.GetHistory(context.Background(), f.session).Error)

	f.answering.err = nil
	_, err = f.svc.Ask(context.Background(), f.session, &dto.AskRequest{Question: "second"})
	require.NoError(t, err)

	assert.Empty(t, f.svc.GetHistory(context.Background(), f.session).Error)
}

func TestNewChatResetsTranscriptAndError(t *testing.T) {
	f := newChatFixture(t)
	_, err := f.svc.Ask(context.Background(), f.session, &dto.AskRequest{Question: "How did revenue change?"})
	require.NoError(t, err)

	f.svc.NewChat(context.Background(), f.session)

	history := f.svc.GetHistory(context.Background(), f.session)
	assert.Empty(t, history.Messages)
	assert.Empty(t, history.Error)
	assert.Len(t, f.session.Sources(), 1, "sources survive a new chat")
}
