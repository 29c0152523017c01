package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"sycophancy-survey-be/internal/pkg/logger"
	"sycophancy-survey-be/internal/pkg/mailer"
	"sycophancy-survey-be/internal/websocket"
	"sycophancy-survey-be/pkg/events"
	pkgnats "sycophancy-survey-be/pkg/nats"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the survey event topic: every event is logged,
// pushed to the admin dashboard feed, and mirrored to NATS; a completed
// survey additionally notifies the researcher by email.
type consumerService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	hub             *websocket.Hub
	natsPublisher   *pkgnats.Publisher
	emailService    mailer.IEmailService
	researcherEmail string
	logger          logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	natsPublisher *pkgnats.Publisher,
	emailService mailer.IEmailService,
	researcherEmail string,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:          pubSub,
		topicName:       topicName,
		hub:             hub,
		natsPublisher:   natsPublisher,
		emailService:    emailService,
		researcherEmail: researcherEmail,
		logger:          log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		// Ack malformed messages to prevent infinite retry.
		cs.logger.Error("ConsumerService", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	cs.logger.Info("ConsumerService", "Survey event", map[string]interface{}{
		"type": event.Type,
		"data": event.Data,
	})

	if cs.hub != nil {
		cs.hub.Broadcast(event)
	}

	if cs.natsPublisher != nil {
		if err := cs.natsPublisher.Publish(ctx, event); err != nil {
			// External bus is auxiliary; never block the local pipeline on it.
			cs.logger.Warn("ConsumerService", "NATS republish failed", map[string]interface{}{
				"type":  event.Type,
				"error": err.Error(),
			})
		}
	}

	if event.Type == events.TypeSurveyCompleted {
		cs.notifyResearcher(event)
	}

	msg.Ack()
}

func (cs *consumerService) notifyResearcher(event events.BaseEvent) {
	if cs.emailService == nil || cs.researcherEmail == "" {
		return
	}
	name, _ := event.Data["name"].(string)
	participantId := ""
	if raw, ok := event.Data["participant_id"]; ok {
		participantId = toString(raw)
	}
	if err := cs.emailService.SendCompletionNotice(cs.researcherEmail, name, participantId); err != nil {
		cs.logger.Warn("ConsumerService", "Completion email failed", map[string]interface{}{"error": err.Error()})
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return string(data)
	}
	return s
}
