package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"salon/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const writeTimeout = 5 * time.Second

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Close() error
}

type kafkaClientImpl struct {
	brokers   []string
	transport *kafkaGo.Transport

	mu      sync.Mutex
	writers map[string]*kafkaGo.Writer
}

func New(config *config.Config) Client {
	transport := &kafkaGo.Transport{}

	if config.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		brokers:   config.Kafka.Brokers,
		transport: transport,
		writers:   map[string]*kafkaGo.Writer{},
	}
}

// writer returns one long lived writer per topic.
func (k *kafkaClientImpl) writer(topic string) *kafkaGo.Writer {
	k.mu.Lock()
	defer k.mu.Unlock()

	if w, ok := k.writers[topic]; ok {
		return w
	}

	w := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(k.brokers...),
		Topic:                  topic,
		Transport:              k.transport,
		Balancer:               &kafkaGo.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
		RequiredAcks:           kafkaGo.RequireOne,
	}

	k.writers[topic] = w

	return w
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) error {
	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to convert message to Kafka message.")

			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msgs = append(msgs, msg)
	}

	if err := k.writer(topic).WriteMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

// Close flushes and closes every writer.
func (k *kafkaClientImpl) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var firstErr error

	for topic, w := range k.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close writer %s: %w", topic, err)
		}

		delete(k.writers, topic)
	}

	return firstErr
}
