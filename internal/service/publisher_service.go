package service

import (
	"encoding/json"

	"insurance-assistant-be/internal/pkg/logger"
	"insurance-assistant-be/pkg/dialog/flow"
	"insurance-assistant-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// PublisherService pushes record-created events onto the in-process bus. It
// implements flow.Notifier: failures are logged and swallowed so the user
// still gets their confirmation.
type PublisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel, log logger.ILogger) *PublisherService {
	return &PublisherService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

func (s *PublisherService) Notify(record *flow.Record) {
	event := events.NewRecordCreatedEvent(record)

	payload, err := json.Marshal(event.Payload())
	if err != nil {
		s.logger.Error("PublisherService", "Failed to marshal record event", map[string]interface{}{
			"error": err, "record_id": record.Id.String(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Error("PublisherService", "Failed to publish record event", map[string]interface{}{
			"error": err, "record_id": record.Id.String(),
		})
		return
	}

	s.logger.Info("PublisherService", "Record event published", map[string]interface{}{
		"record_id": record.Id.String(), "kind": record.Kind,
	})
}
