package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const (
	CatalogTopic = "catalog-events"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
}

func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Timeout = 5 * time.Second

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

type EventType string

const (
	EventCreated EventType = "CREATED"
	EventUpdated EventType = "UPDATED"
	EventDeleted EventType = "DELETED"
	EventRenewed EventType = "RENEWED"
)

// EventCatalog describes one change made through the catalog.
type EventCatalog struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    int       `json:"userId,omitempty"`
	UserName  string    `json:"username"`
	EventType EventType `json:"eventType"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityId"`
}
