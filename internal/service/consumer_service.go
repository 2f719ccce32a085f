package service

import (
	"context"
	"encoding/json"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventPusher pushes real-time UI events to a session's connections.
// Implemented by the WebSocket hub.
type EventPusher interface {
	Send(sessionID string, event string, data any)
}

// consumerService drains source-progress events off the in-process bus and
// forwards them to the WebSocket hub. Decoupling the upload ticker from the
// push path keeps registry locking out of the network write.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	pusher    EventPusher
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	pusher EventPusher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		pusher:    pusher,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var event dto.SourceProgressEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal progress event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.pusher.Send(event.SessionId, constant.WSEventSourceProgress, event)
	msg.Ack()
}
