package feed

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Jambo-goods/bgsbusiness-sub002/config"

	"github.com/IBM/sarama"
)

// KafkaConsumer streams row-change events from a Kafka topic into the
// dispatcher. It is an alternative transport to the HTTP webhook; both feed
// the same handlers. Handler errors are logged and the message is still
// marked consumed: the idempotency guards make redelivery or backfill safe,
// and a poisoned message must not wedge the partition.
type KafkaConsumer struct {
	group      sarama.ConsumerGroup
	dispatcher *Dispatcher
	topic      string
}

func NewKafkaConsumer(cfg *config.KafkaConfig, dispatcher *Dispatcher) (*KafkaConsumer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaCfg.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.Group, saramaCfg)
	if err != nil {
		return nil, err
	}
	return &KafkaConsumer{group: group, dispatcher: dispatcher, topic: cfg.Topic}, nil
}

// Run consumes until the context is cancelled.
func (c *KafkaConsumer) Run(ctx context.Context) {
	handler := &groupHandler{dispatcher: c.dispatcher}
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
			log.Printf("[Feed] consume: %v", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	dispatcher *Dispatcher
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var change RowChange
		if err := json.Unmarshal(msg.Value, &change); err != nil {
			log.Printf("[Feed] bad message at %s/%d/%d: %v", msg.Topic, msg.Partition, msg.Offset, err)
			session.MarkMessage(msg, "")
			continue
		}
		outcome, err := h.dispatcher.Dispatch(session.Context(), change)
		if err != nil {
			log.Printf("[Feed] %s change at offset %d failed: %v", change.Table, msg.Offset, err)
		} else {
			log.Printf("[Feed] %s change at offset %d: %s", change.Table, msg.Offset, outcome)
		}
		session.MarkMessage(msg, "")
	}
	return nil
}
