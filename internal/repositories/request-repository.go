package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"painel-solicitacoes/internal/entities"
	db "painel-solicitacoes/internal/infrastructure/bd"
	apperrors "painel-solicitacoes/pkg/errors"
)

const (
	requestTable  = "requests"
	requestFields = "id, emp_id, requested_at, solicitante, area_solicitante, tipo_operacao, codigo_item, " +
		"localizacao, status, observacao, inicio_atendimento, conclusao_atendimento, created_at, updated_at"

	// ключ pg_advisory_xact_lock для выдачи EMP-номеров
	businessIDLockKey int64 = 0x454d50
)

type RequestRepositoryInterface interface {
	// LockBusinessIDs сериализует выдачу номеров до конца транзакции tx.
	LockBusinessIDs(ctx context.Context, tx pgx.Tx) error
	// LastBusinessID: emp_id последней вставленной записи, "" если таблица пуста.
	LastBusinessID(ctx context.Context, tx pgx.Tx) (string, error)
	Create(ctx context.Context, tx pgx.Tx, r *entities.Request) error
	FindByBusinessID(ctx context.Context, tx pgx.Tx, empID string, forUpdate bool) (*entities.Request, error)
	Update(ctx context.Context, tx pgx.Tx, r *entities.Request) error
	// Upsert вставляет или обновляет по emp_id; true: если была вставка.
	Upsert(ctx context.Context, tx pgx.Tx, r *entities.Request) (bool, error)

	List(ctx context.Context, filter entities.RequestFilter) ([]entities.Request, error)
	CountByStatus(ctx context.Context) (entities.RequestStats, error)
	DistinctAreas(ctx context.Context) ([]string, error)
}

type requestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &requestRepository{storage: storage, logger: logger}
}

func (r *requestRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func scanRequest(row pgx.Row) (*entities.Request, error) {
	var req entities.Request
	err := row.Scan(
		&req.ID, &req.BusinessID, &req.RequestedAt, &req.RequesterName, &req.RequesterArea,
		&req.OperationType, &req.ItemCode, &req.Location, &req.Status, &req.Note,
		&req.StartedAt, &req.CompletedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования requests: %w", err)
	}
	req.RequestedAt = req.RequestedAt.UTC()
	return &req, nil
}

func (r *requestRepository) LockBusinessIDs(ctx context.Context, tx pgx.Tx) error {
	if _, err := r.getQuerier(tx).Exec(ctx, "SELECT pg_advisory_xact_lock($1)", businessIDLockKey); err != nil {
		return fmt.Errorf("не удалось взять блокировку выдачи номеров: %w", err)
	}
	return nil
}

func (r *requestRepository) LastBusinessID(ctx context.Context, tx pgx.Tx) (string, error) {
	query, args, err := psql().Select("emp_id").From(requestTable).OrderBy("id DESC").Limit(1).ToSql()
	if err != nil {
		return "", fmt.Errorf("ошибка сборки запроса LastBusinessID: %w", err)
	}

	var empID string
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&empID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return empID, nil
}

func (r *requestRepository) Create(ctx context.Context, tx pgx.Tx, req *entities.Request) error {
	query, args, err := psql().Insert(requestTable).
		Columns("emp_id", "requested_at", "solicitante", "area_solicitante", "tipo_operacao", "codigo_item",
			"localizacao", "status", "observacao", "inicio_atendimento", "conclusao_atendimento", "created_at", "updated_at").
		Values(req.BusinessID, req.RequestedAt, req.RequesterName, req.RequesterArea, req.OperationType, req.ItemCode,
			req.Location, req.Status, req.Note, req.StartedAt, req.CompletedAt, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return fmt.Errorf("не удалось создать заявку %s: %w", req.BusinessID, err)
	}
	return nil
}

func (r *requestRepository) FindByBusinessID(ctx context.Context, tx pgx.Tx, empID string, forUpdate bool) (*entities.Request, error) {
	builder := psql().Select(requestFields).From(requestTable).Where(sq.Eq{"emp_id": empID})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса FindByBusinessID: %w", err)
	}
	return scanRequest(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *requestRepository) Update(ctx context.Context, tx pgx.Tx, req *entities.Request) error {
	query, args, err := psql().Update(requestTable).
		Set("status", req.Status).
		Set("observacao", req.Note).
		Set("inicio_atendimento", req.StartedAt).
		Set("conclusao_atendimento", req.CompletedAt).
		Set("updated_at", req.UpdatedAt).
		Where(sq.Eq{"emp_id": req.BusinessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}

	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("не удалось обновить заявку %s: %w", req.BusinessID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *requestRepository) Upsert(ctx context.Context, tx pgx.Tx, req *entities.Request) (bool, error) {
	query, args, err := psql().Insert(requestTable).
		Columns("emp_id", "requested_at", "solicitante", "area_solicitante", "tipo_operacao", "codigo_item",
			"localizacao", "status", "observacao", "inicio_atendimento", "conclusao_atendimento", "created_at", "updated_at").
		Values(req.BusinessID, req.RequestedAt, req.RequesterName, req.RequesterArea, req.OperationType, req.ItemCode,
			req.Location, req.Status, req.Note, req.StartedAt, req.CompletedAt, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix(`ON CONFLICT (emp_id) DO UPDATE SET
			requested_at = EXCLUDED.requested_at,
			solicitante = EXCLUDED.solicitante,
			area_solicitante = EXCLUDED.area_solicitante,
			tipo_operacao = EXCLUDED.tipo_operacao,
			codigo_item = EXCLUDED.codigo_item,
			localizacao = EXCLUDED.localizacao,
			status = EXCLUDED.status,
			observacao = EXCLUDED.observacao,
			inicio_atendimento = EXCLUDED.inicio_atendimento,
			conclusao_atendimento = EXCLUDED.conclusao_atendimento,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS is_insert`).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("ошибка сборки запроса Upsert: %w", err)
	}

	var inserted bool
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&req.ID, &inserted); err != nil {
		return false, fmt.Errorf("не удалось сохранить заявку %s: %w", req.BusinessID, err)
	}
	return inserted, nil
}

func (r *requestRepository) List(ctx context.Context, filter entities.RequestFilter) ([]entities.Request, error) {
	builder := db.ApplyRequestFilter(psql().Select(requestFields).From(requestTable), filter)
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса List: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *req)
	}
	return list, rows.Err()
}

func (r *requestRepository) CountByStatus(ctx context.Context) (entities.RequestStats, error) {
	var stats entities.RequestStats
	query, args, err := psql().
		Select().
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", entities.StatusPending)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", entities.StatusInProgress)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", entities.StatusDone)).
		From(requestTable).
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("ошибка сборки запроса CountByStatus: %w", err)
	}

	if err := r.storage.QueryRow(ctx, query, args...).Scan(&stats.Pending, &stats.InProgress, &stats.Done); err != nil {
		return stats, fmt.Errorf("не удалось посчитать статистику: %w", err)
	}
	return stats, nil
}

func (r *requestRepository) DistinctAreas(ctx context.Context) ([]string, error) {
	query, args, err := psql().
		Select("DISTINCT area_solicitante").
		From(requestTable).
		Where(sq.NotEq{"area_solicitante": ""}).
		OrderBy("area_solicitante").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса DistinctAreas: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := make([]string, 0)
	for rows.Next() {
		var area string
		if err := rows.Scan(&area); err != nil {
			return nil, err
		}
		areas = append(areas, area)
	}
	return areas, rows.Err()
}
