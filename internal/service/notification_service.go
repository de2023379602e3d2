package service

import (
	"context"
	"encoding/json"
	"time"

	"insurance-assistant-be/internal/pkg/logger"
	"insurance-assistant-be/internal/pkg/mailer"
	"insurance-assistant-be/pkg/events"
	pktNats "insurance-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type INotificationService interface {
	Consume(ctx context.Context) error
}

// notificationService drains record-created events from the in-process bus,
// sends the customer confirmation mail, alerts the team and forwards the
// event to NATS for downstream systems. Every delivery is best effort; a
// failed mail never blocks or retries the turn.
type notificationService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
	natsPub      *pktNats.Publisher
	teamEmail    string
	logger       logger.ILogger
}

func NewNotificationService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	natsPub *pktNats.Publisher,
	teamEmail string,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
		natsPub:      natsPub,
		teamEmail:    teamEmail,
		logger:       log,
	}
}

func (s *notificationService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *notificationService) processMessage(ctx context.Context, msg *message.Message) {
	// Invalid messages are acked to prevent infinite retry.
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("NotificationService", "Failed to unmarshal record event", map[string]interface{}{"error": err})
		msg.Ack()
		return
	}

	kind, _ := payload["kind"].(string)
	reference, _ := payload["reference_number"].(string)
	customerEmail, _ := payload["email"].(string)

	s.logger.Info("NotificationService", "Processing record event", map[string]interface{}{
		"kind": kind, "reference": reference,
	})

	if customerEmail != "" {
		if err := s.emailService.SendRecordConfirmation(customerEmail, kind, reference); err != nil {
			s.logger.Error("NotificationService", "Failed to send confirmation email", map[string]interface{}{
				"error": err, "reference": reference,
			})
		}
	}

	if s.teamEmail != "" {
		fields := make(map[string]string, len(payload))
		for k, v := range payload {
			if str, ok := v.(string); ok {
				fields[k] = str
			}
		}
		if err := s.emailService.SendTeamAlert(s.teamEmail, kind, reference, fields); err != nil {
			s.logger.Error("NotificationService", "Failed to send team alert", map[string]interface{}{
				"error": err, "reference": reference,
			})
		}
	}

	if s.natsPub != nil {
		event := events.BaseEvent{
			Type:       events.EventTypeRecordCreated,
			Data:       payload,
			OccurredAt: time.Now(),
		}
		if err := s.natsPub.Publish(ctx, event); err != nil {
			s.logger.Error("NotificationService", "Failed to forward record event to NATS", map[string]interface{}{
				"error": err, "reference": reference,
			})
		}
	}

	msg.Ack()
}
