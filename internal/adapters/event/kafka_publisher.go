package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/vncsmyrnk/pollvotes/internal/core/domain"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher writes votes keyed by poll so every vote of a poll lands
// on the same partition, in order.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  5,
		Compression:  kafka.Snappy,
	}

	return &KafkaPublisher{writer: w}
}

func (kp *KafkaPublisher) Publish(ctx context.Context, pollID uuid.UUID, vote domain.PollVote) error {
	msg, err := voteMessage(pollID, vote)
	if err != nil {
		return err
	}

	if err := kp.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

func (kp *KafkaPublisher) Close() error {
	if err := kp.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}

func voteMessage(pollID uuid.UUID, vote domain.PollVote) (kafka.Message, error) {
	payload, err := vote.MarshalBinary()
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal vote: %w", err)
	}

	return kafka.Message{
		Key:   []byte(pollID.String()),
		Value: payload,
	}, nil
}
