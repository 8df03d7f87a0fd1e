package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"painel-solicitacoes/pkg/config"
	"painel-solicitacoes/pkg/customvalidator"
	"painel-solicitacoes/pkg/database/postgresql"
	applogger "painel-solicitacoes/pkg/logger"
)

// app: общие для всех подкоманд зависимости.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *pgxpool.Pool
	validate *validator.Validate
}

// bootstrap читает конфиг, подключается к БД и накатывает схему.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.Path)

	v, err := customvalidator.New()
	if err != nil {
		return nil, fmt.Errorf("ошибка регистрации кастомных правил валидации: %w", err)
	}

	db, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return nil, err
	}
	if err := postgresql.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка применения миграций: %w", err)
	}

	return &app{cfg: cfg, logger: logger, db: db, validate: v}, nil
}

// redisClient возвращает nil, если кеш не настроен или Redis недоступен:
// панель работает и без него.
func (a *app) redisClient(ctx context.Context) *redis.Client {
	if !a.cfg.CacheEnabled() {
		a.logger.Info("Redis не настроен, кеш статистики выключен")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Address,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		a.logger.Warn("Redis недоступен, кеш статистики выключен", zap.Error(err), zap.String("address", a.cfg.Redis.Address))
		_ = client.Close()
		return nil
	}
	return client
}

func (a *app) close() {
	a.db.Close()
	_ = a.logger.Sync()
}
