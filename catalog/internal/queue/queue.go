package queue

import (
	"encoding/json"

	"github.com/IBM/sarama"

	cb "github.com/Astemirdum/catalog-service/pkg/circuit_breaker"
)

type Enqueuer interface {
	Enqueue(topic string, v any) error
}

// NewEnqueuer sends json messages through producer, guarded by breaker.
func NewEnqueuer(producer sarama.SyncProducer, breaker cb.CircuitBreaker) Enqueuer {
	return &enqueuerImpl{
		producer: producer,
		breaker:  breaker,
	}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
	breaker  cb.CircuitBreaker
}

func (q *enqueuerImpl) Enqueue(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: topic, Value: sarama.ByteEncoder(data)}
	return q.breaker.Call(func() error {
		_, _, err := q.producer.SendMessage(msg)
		return err
	})
}

// NewNopEnqueuer drops every message; used when no brokers are configured.
func NewNopEnqueuer() Enqueuer {
	return nopEnqueuer{}
}

type nopEnqueuer struct{}

func (nopEnqueuer) Enqueue(string, any) error { return nil }
