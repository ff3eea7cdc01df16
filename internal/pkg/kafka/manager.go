package kafka

import (
	"Reunite/internal/api/config"
	"Reunite/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	eventsConsumer sarama.ConsumerGroup
	eventsHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, notifyService service.NotificationService) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	eventsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaEventConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	eventsHandler := NewEventsHandler(notifyService)

	return &ConsumerManager{
		eventsConsumer: eventsConsumer,
		eventsHandler:  eventsHandler,
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 取消为止
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaEventConsumer.Topic
		log.Info("Event consumer started", "topic", topic)
		for {
			if err := m.eventsConsumer.Consume(ctx, []string{topic}, m.eventsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.eventsConsumer.Close(); err != nil {
		log.Error("Failed to close events consumer", "err", err)
	}

	return nil
}
