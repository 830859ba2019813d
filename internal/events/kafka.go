package events

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
)

// KafkaConfig configures KafkaSink.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" env:"ENABLED"`
	Brokers []string `yaml:"brokers" env:"BROKERS" envSeparator:","`
	Topic   string   `yaml:"topic" env:"TOPIC"`
}

// KafkaSink publishes events to a topic keyed by interface id, so all
// changes to one interface land on the same partition in order.
type KafkaSink struct {
	Producer sarama.AsyncProducer
	Topic    string
}

// NewKafkaSink returns a KafkaSink, or nil when the sink is disabled.
func NewKafkaSink(c KafkaConfig) (*KafkaSink, error) {
	if !c.Enabled || len(c.Brokers) == 0 {
		return nil, nil
	}
	cfg := sarama.NewConfig()
	cfg.ClientID = "urlpreview"
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	prod, err := sarama.NewAsyncProducer(c.Brokers, cfg)
	if err != nil {
		return nil, err
	}
	topic := c.Topic
	if topic == "" {
		topic = DefaultChannel
	}
	return &KafkaSink{Producer: prod, Topic: topic}, nil
}

// Message builds the producer message for e.
func (s *KafkaSink) Message(e Event) (*sarama.ProducerMessage, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return &sarama.ProducerMessage{
		Topic:     s.Topic,
		Key:       sarama.StringEncoder(e.Subject),
		Value:     sarama.ByteEncoder(data),
		Timestamp: e.Time,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event"), Value: []byte(e.Name)},
			{Key: []byte("delivery"), Value: []byte(e.ID)},
		},
	}, nil
}

func (s *KafkaSink) Emit(ctx context.Context, e Event) error {
	if s == nil || s.Producer == nil {
		return nil
	}
	msg, err := s.Message(e)
	if err != nil {
		return err
	}
	select {
	case s.Producer.Input() <- msg:
		return nil
	case perr := <-s.Producer.Errors():
		return perr.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes buffered messages and shuts the producer down.
func (s *KafkaSink) Close() error {
	if s == nil || s.Producer == nil {
		return nil
	}
	return s.Producer.Close()
}
