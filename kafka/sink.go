package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/bmeg/dbpedia-loader/document"
	"github.com/bmeg/dbpedia-loader/log"
)

// Config lists the brokers documents are published to
type Config struct {
	Brokers  []string
	ClientID string
}

// Sink publishes every document of a batch as one message on the topic
// named after the index. Messages are keyed by url so a partition sees all
// versions of a document in order.
type Sink struct {
	producer sarama.SyncProducer
}

// NewSink connects a synchronous producer to the brokers
func NewSink(conf Config) (*Sink, error) {
	if len(conf.Brokers) == 0 {
		conf.Brokers = []string{"localhost:9092"}
	}
	cfg := sarama.NewConfig()
	cfg.ClientID = conf.ClientID
	if cfg.ClientID == "" {
		cfg.ClientID = "dbpedia-loader"
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	producer, err := sarama.NewSyncProducer(conf.Brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to kafka %v: %w", conf.Brokers, err)
	}
	log.Infof("Kafka Sink: %v", conf.Brokers)
	return newSink(producer), nil
}

func newSink(p sarama.SyncProducer) *Sink {
	return &Sink{producer: p}
}

// UpdateDocuments publishes docs in one SendMessages call
func (k *Sink) UpdateDocuments(ctx context.Context, index string, docs []*document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msgs := make([]*sarama.ProducerMessage, 0, len(docs))
	for _, d := range docs {
		value, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", d.ID(), err)
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: index,
			Key:   sarama.StringEncoder(d.ID()),
			Value: sarama.ByteEncoder(value),
		})
	}
	if err := k.producer.SendMessages(msgs); err != nil {
		if perrs, ok := err.(sarama.ProducerErrors); ok && len(perrs) > 0 {
			return fmt.Errorf("%d of %d messages failed: %w", len(perrs), len(msgs), perrs[0].Err)
		}
		return err
	}
	return nil
}

// Close shuts the producer down
func (k *Sink) Close() error {
	return k.producer.Close()
}
