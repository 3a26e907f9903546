package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/vncsmyrnk/pollvotes/internal/core/domain"
	"github.com/vncsmyrnk/pollvotes/internal/core/ports"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConsumer struct {
	reader messageReader
}

func NewKafkaConsumer(brokers []string, topic, groupID string) *KafkaConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    10e3, // 10kb
		MaxBytes:    10e6, // 10mb
		MaxWait:     1 * time.Second,
		StartOffset: kafka.FirstOffset,
	})

	return &KafkaConsumer{reader: r}
}

// ConsumeVote fetches the next vote and commits its offset only once handle
// succeeds. When handle fails the offset stays uncommitted and the error is
// returned; the caller must stop reading so the vote is redelivered. A message
// that does not carry a vote is committed and reported as an error wrapping
// domain.ErrMalformedVote or domain.ErrInvalidPollID.
func (kc *KafkaConsumer) ConsumeVote(ctx context.Context, handle ports.VoteHandlerFunc) error {
	msg, err := kc.reader.FetchMessage(ctx)
	if err != nil {
		return err
	}

	pollID, vote, decodeErr := voteFromMessage(msg)
	if decodeErr != nil {
		if err := kc.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("failed to commit offset %d: %w", msg.Offset, err)
		}
		return decodeErr
	}

	if err := handle(ctx, pollID, vote); err != nil {
		return fmt.Errorf("failed to handle vote at offset %d: %w", msg.Offset, err)
	}

	if err := kc.reader.CommitMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to commit offset %d: %w", msg.Offset, err)
	}
	return nil
}

func (kc *KafkaConsumer) Close() error {
	if err := kc.reader.Close(); err != nil {
		return fmt.Errorf("failed to close kafka reader: %w", err)
	}
	return nil
}

func voteFromMessage(msg kafka.Message) (uuid.UUID, domain.PollVote, error) {
	pollID, err := uuid.ParseBytes(msg.Key)
	if err != nil {
		return uuid.Nil, domain.PollVote{}, fmt.Errorf("%w: bad poll key %q", domain.ErrInvalidPollID, msg.Key)
	}

	var vote domain.PollVote
	if err := vote.UnmarshalBinary(msg.Value); err != nil {
		return uuid.Nil, domain.PollVote{}, fmt.Errorf("message at offset %d: %w", msg.Offset, err)
	}
	return pollID, vote, nil
}
