package config

import (
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/catalog-service/pkg/kafka"
	"github.com/Astemirdum/catalog-service/pkg/logger"
	"github.com/Astemirdum/catalog-service/pkg/postgres"
	"github.com/Astemirdum/catalog-service/pkg/redis"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"CATALOG_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"CATALOG_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE" default:"10s"`
}

type Session struct {
	TTL time.Duration `yaml:"ttl" envconfig:"SESSION_TTL" default:"336h"`
}

// Admin is the superuser created on start; an empty username skips it.
type Admin struct {
	Username string `yaml:"username" envconfig:"ADMIN_USERNAME"`
	Password string `yaml:"password" envconfig:"ADMIN_PASSWORD"`
}

// Breaker guards event publishing.
type Breaker struct {
	RecordLength     int           `yaml:"recordLength" envconfig:"CB_RECORD_LENGTH" default:"100"`
	Timeout          time.Duration `yaml:"timeout" envconfig:"CB_TIMEOUT" default:"1s"`
	Percentile       float64       `yaml:"percentile" envconfig:"CB_PERCENTILE" default:"0.2"`
	RecoveryRequests int           `yaml:"recoveryRequests" envconfig:"CB_RECOVERY_REQUESTS" default:"2"`
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Database postgres.DB  `yaml:"db"`
	Redis    redis.Config `yaml:"redis"`
	Kafka    kafka.Config `yaml:"kafka"`
	Breaker  Breaker      `yaml:"breaker"`
	Session  Session      `yaml:"session"`
	Admin    Admin        `yaml:"admin"`
	Log      logger.Log   `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
// Options are applied on top of the environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		config, err := load(ops...)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
	})

	return cfg
}

func load(ops ...Option) (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, err
	}
	for _, op := range ops {
		op(&config)
	}
	return &config, nil
}
