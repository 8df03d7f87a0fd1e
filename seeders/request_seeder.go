package seeders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"painel-solicitacoes/internal/entities"
	"painel-solicitacoes/internal/repositories"
)

// SeedRequests очищает таблицу заявок и заливает демонстрационный набор.
// Возвращает статистику по итоговому содержимому.
func SeedRequests(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) (entities.RequestStats, error) {
	repo := repositories.NewRequestRepository(db, logger)
	txManager := repositories.NewTxManager(db)

	logger.Info("  - Наполнение таблицы 'requests'...")
	err := txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE requests RESTART IDENTITY"); err != nil {
			return fmt.Errorf("не удалось очистить requests: %w", err)
		}
		for _, item := range demoRequestsData {
			req := item
			if err := repo.Create(ctx, tx, &req); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return entities.RequestStats{}, err
	}

	return repo.CountByStatus(ctx)
}
