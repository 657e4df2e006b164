package dispatch

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

const headerDispatchID = "dispatch-id"

// Kafka publishes order messages to a topic, keyed by the destination phone.
type Kafka struct {
	producer    sarama.SyncProducer
	topic       string
	destination string
	logger      *log.Logger
}

func NewKafka(brokers []string, topic, destination string, logger *log.Logger) (*Kafka, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	k := NewKafkaWithProducer(producer, topic, destination, logger)
	k.logger.Printf("Sarama producer created successfully with brokers %v", brokers)
	return k, nil
}

// NewKafkaWithProducer wraps an existing producer; the Kafka dispatcher takes ownership of it.
func NewKafkaWithProducer(producer sarama.SyncProducer, topic, destination string, logger *log.Logger) *Kafka {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Kafka{producer: producer, topic: topic, destination: destination, logger: logger}
}

// To returns a dispatcher publishing through the same producer under another key.
// Only the original Kafka value may be closed.
func (k *Kafka) To(phone string) Dispatcher {
	return &Kafka{producer: k.producer, topic: k.topic, destination: phone, logger: k.logger}
}

func (k *Kafka) message(msg string) *sarama.ProducerMessage {
	return &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(k.destination),
		Value: sarama.StringEncoder(msg),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerDispatchID), Value: []byte(uuid.NewString())},
		},
	}
}

func (k *Kafka) Dispatch(ctx context.Context, msg string) error {
	if k.producer == nil {
		return fmt.Errorf("Sarama producer is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	partition, offset, err := k.producer.SendMessage(k.message(msg))
	if err != nil {
		k.logger.Printf("Failed to send message to topic %s: %v", k.topic, err)
		return fmt.Errorf("failed to publish order message: %w", err)
	}
	k.logger.Printf("Order message published to %s [%d] at offset %d", k.topic, partition, offset)
	return nil
}

func (k *Kafka) Close() error {
	if k.producer != nil {
		return k.producer.Close()
	}
	return nil
}
