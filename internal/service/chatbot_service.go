package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/events"
	"ai-docchat-be/pkg/lang"
	pktNats "ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/rag/answer"
	"ai-docchat-be/pkg/rag/retriever"
	"ai-docchat-be/pkg/store"

	"github.com/google/uuid"
)

type IChatbotService interface {
	Ask(ctx context.Context, session *store.Session, request *dto.AskRequest) (*dto.AskResponse, error)
	GetHistory(ctx context.Context, session *store.Session) *dto.ChatHistoryResponse
	NewChat(ctx context.Context, session *store.Session)
}

// chatbotService runs the ask cycle: validate, retrieve, pace, answer,
// append. One question per session at a time; a stale completion (the
// transcript was cleared mid-flight) is discarded, never appended.
type chatbotService struct {
	retriever      *retriever.Retriever
	generator      *answer.Generator
	settings       ISettingsService
	pusher         EventPusher
	eventPublisher *pktNats.Publisher
	llmLogger      *log.Logger
	logger         logger.ILogger

	askTimeout     time.Duration
	pacingDelay    time.Duration
	phraseInterval time.Duration
}

func NewChatbotService(
	ret *retriever.Retriever,
	gen *answer.Generator,
	settings ISettingsService,
	pusher EventPusher,
	eventPublisher *pktNats.Publisher,
	llmLogger *log.Logger,
	appLogger logger.ILogger,
	askTimeout time.Duration,
	pacingDelay time.Duration,
	phraseInterval time.Duration,
) IChatbotService {
	return &chatbotService{
		retriever:      ret,
		generator:      gen,
		settings:       settings,
		pusher:         pusher,
		eventPublisher: eventPublisher,
		llmLogger:      llmLogger,
		logger:         appLogger,
		askTimeout:     askTimeout,
		pacingDelay:    pacingDelay,
		phraseInterval: phraseInterval,
	}
}

// InitLLMLogger opens the dedicated question-cycle diagnostics log. Falls back
// to stdout if the logs directory cannot be created.
func InitLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_chat.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-CHAT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (cs *chatbotService) Ask(ctx context.Context, session *store.Session, request *dto.AskRequest) (*dto.AskResponse, error) {
	question := strings.TrimSpace(request.Question)
	if question == "" {
		// Blank input is a no-op, not an error.
		return &dto.AskResponse{}, nil
	}

	sourceNames := session.CompletedSourceNames()
	if len(sourceNames) == 0 {
		return nil, dto.NewValidationError(constant.NoSourcesValidationMessage)
	}

	epoch, ok := session.BeginAsk()
	if !ok {
		return nil, dto.NewValidationError(constant.AskInFlightValidationMessage)
	}
	defer session.EndAsk()

	session.ClearError()

	userMsg := entity.NewUserMessage(uuid.NewString(), question, time.Now())
	session.Append(epoch, userMsg)

	rotatorCtx, stopRotator := context.WithCancel(ctx)
	defer stopRotator()
	go cs.rotateLoadingPhrases(rotatorCtx, session.ID)

	askCtx, cancel := context.WithTimeout(ctx, cs.askTimeout)
	defer cancel()

	cs.llmLogger.Printf("[ASK] session=%s sources=%d question=%q", session.ID, len(sourceNames), question)

	contextText := cs.retriever.Retrieve(askCtx, sourceNames, question)

	// Brief pause between the retrieval and answer calls so the loading
	// phases remain distinguishable on the client.
	select {
	case <-time.After(cs.pacingDelay):
	case <-askCtx.Done():
	}

	language := lang.Detect(question)
	maxTokens := cs.settings.Current(ctx).MaxTokens

	result, err := cs.generator.Answer(askCtx, question, contextText, language, maxTokens)
	if err != nil {
		cs.logger.Warn("Chatbot", "Ask turn failed", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		// The turn failed but the user message stays; the failure is
		// surfaced as a display string, not an HTTP error. The generic
		// message only covers failures that carry no message of their own.
		displayError := err.Error()
		if displayError == "" {
			displayError = constant.GenericAskErrorMessage
		}
		session.SetError(epoch, displayError)
		return &dto.AskResponse{
			Sent:  toChatMessageResponse(userMsg),
			Error: displayError,
		}, nil
	}

	reply := entity.NewModelMessage(uuid.NewString(), result, time.Now())
	if !session.Append(epoch, reply) {
		// The transcript was cleared while we were answering. Drop the
		// reply instead of resurrecting a conversation the user discarded.
		cs.llmLogger.Printf("[ASK] session=%s stale completion discarded", session.ID)
		return &dto.AskResponse{}, nil
	}

	cs.publishTurnCompleted(ctx, session, result)

	return &dto.AskResponse{
		Sent:  toChatMessageResponse(userMsg),
		Reply: toChatMessageResponse(reply),
	}, nil
}

func (cs *chatbotService) GetHistory(ctx context.Context, session *store.Session) *dto.ChatHistoryResponse {
	transcript := session.Transcript()
	messages := make([]*dto.ChatMessageResponse, 0, len(transcript))
	for _, msg := range transcript {
		messages = append(messages, toChatMessageResponse(msg))
	}
	return &dto.ChatHistoryResponse{
		Messages: messages,
		Error:    session.LastError(),
	}
}

func (cs *chatbotService) NewChat(ctx context.Context, session *store.Session) {
	session.ResetTranscript()
	cs.logger.Info("Chatbot", "Transcript reset", map[string]interface{}{"session_id": session.ID})
}

// rotateLoadingPhrases pushes a cosmetic status phrase every interval until
// the turn finishes. The rotation never touches transcript state.
func (cs *chatbotService) rotateLoadingPhrases(ctx context.Context, sessionID string) {
	if cs.pusher == nil {
		return
	}

	ticker := time.NewTicker(cs.phraseInterval)
	defer ticker.Stop()

	i := 0
	cs.pusher.Send(sessionID, constant.WSEventLoadingPhrase, dto.LoadingPhraseEvent{Phrase: constant.LoadingPhrases[i]})
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			i = (i + 1) % len(constant.LoadingPhrases)
			cs.pusher.Send(sessionID, constant.WSEventLoadingPhrase, dto.LoadingPhraseEvent{Phrase: constant.LoadingPhrases[i]})
		}
	}
}

func (cs *chatbotService) publishTurnCompleted(ctx context.Context, session *store.Session, result *entity.AnswerResult) {
	if cs.eventPublisher == nil {
		return
	}
	evt := events.New(constant.EventChatTurnCompleted, map[string]interface{}{
		"session_id": session.ID,
		"confidence": result.Confidence,
		"citations":  len(result.Sources),
	})
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		cs.logger.Warn("Chatbot", "Failed to publish turn event", map[string]interface{}{"error": err.Error()})
	}
}

func toChatMessageResponse(msg *entity.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:        msg.Id,
		Role:      msg.Role,
		Text:      msg.Text,
		Answer:    msg.Answer,
		CreatedAt: msg.CreatedAt,
	}
}
