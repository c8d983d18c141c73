package kafka

import (
	"CAConnect/internal/api/config"
	"CAConnect/internal/pkg/mongo"
	"CAConnect/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager owns every Kafka consumer group.
type ConsumerManager struct {
	reactionConsumer sarama.ConsumerGroup
	reactionHandler  sarama.ConsumerGroupHandler

	engagementConsumer sarama.ConsumerGroup
	engagementHandler  sarama.ConsumerGroupHandler
}

func NewConsumerManager(
	cfg *config.Config,
	postRepo repository.PostRepo,
	leadRepo repository.LeadRepo,
	inboxRepo mongo.InboxRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	reactionConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaReactionConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	reactionHandler := NewReactionsHandler(postRepo, inboxRepo)

	engagementConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaEngagementConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	engagementHandler := NewEngagementsHandler(leadRepo, inboxRepo)

	return &ConsumerManager{
		reactionConsumer:   reactionConsumer,
		reactionHandler:    reactionHandler,
		engagementConsumer: engagementConsumer,
		engagementHandler:  engagementHandler,
	}, nil
}

// Start runs every consumer until the context is cancelled.
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaReactionConsumer.Topic
		log.Info("Reaction consumer started", "topic", topic)
		for {
			if err := m.reactionConsumer.Consume(ctx, []string{topic}, m.reactionHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		topic := cfg.KafkaEngagementConsumer.Topic
		log.Info("Lead engagement consumer started", "topic", topic)
		for {
			if err := m.engagementConsumer.Consume(ctx, []string{topic}, m.engagementHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.reactionConsumer.Close(); err != nil {
		log.Error("Failed to close reaction consumer", "err", err)
	}
	if err := m.engagementConsumer.Close(); err != nil {
		log.Error("Failed to close engagement consumer", "err", err)
	}

	return nil
}
