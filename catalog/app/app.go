package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/config"
	"github.com/Astemirdum/catalog-service/catalog/internal/handler"
	"github.com/Astemirdum/catalog-service/catalog/internal/queue"
	"github.com/Astemirdum/catalog-service/catalog/internal/repository"
	"github.com/Astemirdum/catalog-service/catalog/internal/server"
	"github.com/Astemirdum/catalog-service/catalog/internal/service"
	"github.com/Astemirdum/catalog-service/catalog/internal/session"
	"github.com/Astemirdum/catalog-service/catalog/migrations"
	cb "github.com/Astemirdum/catalog-service/pkg/circuit_breaker"
	"github.com/Astemirdum/catalog-service/pkg/kafka"
	"github.com/Astemirdum/catalog-service/pkg/logger"
	"github.com/Astemirdum/catalog-service/pkg/postgres"
	"github.com/Astemirdum/catalog-service/pkg/redis"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "catalog")
	ctx := context.Background()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	rdb, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("redis init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	enqueuer := queue.NewNopEnqueuer()
	var producer sarama.SyncProducer
	if cfg.Kafka.Enabled() {
		producer, err = kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		breaker := cb.New(cfg.Breaker.RecordLength, cfg.Breaker.Timeout, cfg.Breaker.Percentile, cfg.Breaker.RecoveryRequests)
		enqueuer = queue.NewEnqueuer(producer, breaker)
	} else {
		log.Info("kafka addrs are empty, catalog events are dropped")
	}

	svc := service.NewService(repo, enqueuer, log)
	if err = svc.EnsureSuperuser(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatal("ensure superuser", zap.Error(err))
	}

	sessions := session.NewStore(rdb, cfg.Session.TTL)
	h := handler.New(svc, sessions, log, handler.WithSessionTTL(cfg.Session.TTL))
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ", zap.String("addr", srv.Addr()))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if producer != nil {
		if err = producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	if err = rdb.Close(); err != nil {
		log.Error("redis.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
