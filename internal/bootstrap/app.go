package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"patternchat/internal/cache"
	"patternchat/internal/config"
	"patternchat/internal/model"
	mysqlClient "patternchat/internal/platform/mysql"
	rabbitmqClient "patternchat/internal/platform/rabbitmq"
	redisClient "patternchat/internal/platform/redis"
	"patternchat/internal/repository"
	"patternchat/internal/seed"
	"patternchat/internal/worker"
)

type App struct {
	Config       *config.Config
	MySQL        *gorm.DB
	Redis        *redis.Client
	MQConn       *amqp.Connection
	HistoryCache *cache.HistoryCache
	ReplyWorker  *worker.ReplyPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.Message{}, &model.ReplyPattern{}, &model.Fact{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}
	if err := seed.Run(
		repository.NewPatternRepository(mysqlDB),
		repository.NewFactRepository(mysqlDB),
	); err != nil {
		return nil, err
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	historyCache := cache.NewHistoryCache(redisCli, time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second)

	mqConn, err := rabbitmqClient.New(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	messageRepo := repository.NewMessageRepository(mysqlDB)
	replyWorker := worker.NewReplyPersistWorker(mqConn, messageRepo, historyCache, cfg.RabbitMQ.ReplyPersistQueue)
	if err := replyWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start reply worker failed: %w", err)
	}

	return &App{
		Config:       cfg,
		MySQL:        mysqlDB,
		Redis:        redisCli,
		MQConn:       mqConn,
		HistoryCache: historyCache,
		ReplyWorker:  replyWorker,
		StartedAt:    time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.ReplyWorker != nil {
		a.ReplyWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
