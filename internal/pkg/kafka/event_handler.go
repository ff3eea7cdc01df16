package kafka

import (
	"Reunite/internal/api/dto"
	"Reunite/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

// EventsHandler 消费平台域事件并落成站内通知
type EventsHandler struct {
	notifyService service.NotificationService
}

func NewEventsHandler(notifyService service.NotificationService) *EventsHandler {
	return &EventsHandler{
		notifyService: notifyService,
	}
}

func (s *EventsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("event consumer setup")
	return nil
}

func (s *EventsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("event consumer cleanup")
	return nil
}

func (s *EventsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-events consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-events process batch error", "err", err)
		return err
	}
	return nil
}

func (s *EventsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := decodeEventMessage(msg.Value)
	if err != nil {
		// 解析不了的消息重试也没用，记日志后跳过
		log.ErrorContext(ctx, "unmarshal event message error", "err", err, "offset", msg.Offset)
		return nil
	}

	notifyDTO := &dto.CreateNotificationDTO{
		UserID:    event.UserID,
		Type:      event.EventType,
		Title:     event.Title,
		Message:   event.Message,
		RelatedID: event.RelatedID,
	}
	if err := s.notifyService.CreateNotification(ctx, notifyDTO); err != nil {
		// 参数类错误属于毒消息，跳过；其余错误交给重试
		if errors.Is(err, service.ErrParamInvalid) || errors.Is(err, service.ErrNotifyTypeInvalid) {
			log.WarnContext(ctx, "drop invalid event message",
				"event_type", event.EventType, "user_id", event.UserID, "err", err)
			return nil
		}
		return err
	}

	log.InfoContext(ctx, "event notification created",
		"event_type", event.EventType, "user_id", event.UserID)
	return nil
}
