package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"painel-solicitacoes/internal/dto"
	"painel-solicitacoes/internal/entities"
	"painel-solicitacoes/internal/events"
	"painel-solicitacoes/internal/mappers"
	"painel-solicitacoes/internal/repositories"
	"painel-solicitacoes/pkg/customvalidator"
	"painel-solicitacoes/pkg/eventbus"
)

const (
	statsCacheKey = "requests:stats"
	areasCacheKey = "requests:areas"
	// cacheGenerationKey растёт при каждой записи и входит в ключи агрегатов,
	// поэтому значение, посчитанное до записи, уже никто не прочитает.
	cacheGenerationKey = "requests:generation"
)

type RequestServiceInterface interface {
	List(ctx context.Context, filter dto.RequestFilterDTO) ([]dto.RequestDTO, error)
	Create(ctx context.Context, payload dto.CreateRequestDTO) (*dto.RequestDTO, error)
	Update(ctx context.Context, empID string, patch dto.UpdateRequestDTO) (*dto.RequestDTO, error)
	Stats(ctx context.Context) (*dto.RequestStatsDTO, error)
	Areas(ctx context.Context) ([]string, error)
}

type RequestService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.RequestRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface // nil: кеш выключен
	bus       *eventbus.Bus                         // nil: события не публикуются
	validate  *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
	now       func() time.Time
}

func NewRequestService(
	txManager repositories.TxManagerInterface,
	repo repositories.RequestRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	bus *eventbus.Bus,
	validate *validator.Validate,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *RequestService {
	return &RequestService{
		txManager: txManager,
		repo:      repo,
		cacheRepo: cacheRepo,
		bus:       bus,
		validate:  validate,
		logger:    logger,
		cacheTTL:  cacheTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NextEmpID возвращает номер, следующий за last. Если last не EMP<цифры>
// (или таблица пуста), счёт начинается заново с 1.
func NextEmpID(last string) string {
	next := 1
	if n, ok := empNumber(last); ok {
		next = n + 1
	}
	return fmt.Sprintf("EMP%04d", next)
}

func empNumber(empID string) (int, bool) {
	m := customvalidator.EmpIDPattern.FindStringSubmatch(empID)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// ApplyRequestPatch применяет к заявке изменение статуса и/или примечания.
// Метки начала и завершения только выставляются, но никогда не очищаются
// и не перезаписываются.
func ApplyRequestPatch(req *entities.Request, patch dto.UpdateRequestDTO, now time.Time) {
	if patch.Status.Valid {
		newStatus := strings.ToLower(patch.Status.String)
		switch {
		case req.Status == entities.StatusPending && newStatus == entities.StatusInProgress:
			if !req.StartedAt.Valid {
				req.StartedAt = null.TimeFrom(now)
			}
		case newStatus == entities.StatusDone && !req.CompletedAt.Valid:
			req.CompletedAt = null.TimeFrom(now)
			if !req.StartedAt.Valid {
				req.StartedAt = null.TimeFrom(now)
			}
		}
		req.Status = newStatus
	}
	if patch.Note.Valid {
		req.Note = patch.Note.String
	}
	req.UpdatedAt = now
}

func (s *RequestService) List(ctx context.Context, filter dto.RequestFilterDTO) ([]dto.RequestDTO, error) {
	list, err := s.repo.List(ctx, BuildRequestFilter(s.validate, filter))
	if err != nil {
		s.logger.Error("RequestService: ошибка получения списка заявок", zap.Error(err), zap.Any("filter", filter))
		return nil, err
	}
	return mappers.ToDashboardDTOs(list), nil
}

func (s *RequestService) Create(ctx context.Context, payload dto.CreateRequestDTO) (*dto.RequestDTO, error) {
	var created entities.Request
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.LockBusinessIDs(ctx, tx); err != nil {
			return err
		}
		last, err := s.repo.LastBusinessID(ctx, tx)
		if err != nil {
			return fmt.Errorf("не удалось получить последний номер: %w", err)
		}

		created = entities.Request{
			BusinessID:    NextEmpID(last),
			RequestedAt:   s.now(),
			RequesterName: payload.RequesterName,
			RequesterArea: payload.RequesterArea,
			OperationType: payload.OperationType,
			ItemCode:      payload.ItemCode,
			Location:      payload.Location,
			Status:        entities.StatusPending,
		}
		return s.repo.Create(ctx, tx, &created)
	})
	if err != nil {
		s.logger.Error("RequestService: ошибка создания заявки", zap.Error(err))
		return nil, err
	}

	s.invalidateCache(ctx)
	s.publish(events.RequestCreatedEvent{Request: created})

	result := mappers.ToDashboardDTO(created)
	return &result, nil
}

func (s *RequestService) Update(ctx context.Context, empID string, patch dto.UpdateRequestDTO) (*dto.RequestDTO, error) {
	var (
		updated    entities.Request
		fromStatus string
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.repo.FindByBusinessID(ctx, tx, empID, true)
		if err != nil {
			return err
		}
		fromStatus = req.Status
		ApplyRequestPatch(req, patch, s.now())
		updated = *req
		return s.repo.Update(ctx, tx, req)
	})
	if err != nil {
		s.logger.Warn("RequestService: заявка не обновлена", zap.String("emp_id", empID), zap.Error(err))
		return nil, err
	}

	s.invalidateCache(ctx)
	if updated.Status != fromStatus {
		s.publish(events.RequestStatusChangedEvent{Request: updated, FromStatus: fromStatus})
	}

	result := mappers.ToDashboardDTO(updated)
	return &result, nil
}

func (s *RequestService) Stats(ctx context.Context) (*dto.RequestStatsDTO, error) {
	var cached dto.RequestStatsDTO
	key, hit := s.readCache(ctx, statsCacheKey, &cached)
	if hit {
		return &cached, nil
	}

	stats, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("RequestService: ошибка подсчёта статистики", zap.Error(err))
		return nil, err
	}
	result := &dto.RequestStatsDTO{
		Pendentes:   stats.Pending,
		EmAndamento: stats.InProgress,
		Concluidos:  stats.Done,
		Total:       stats.Total(),
	}
	s.writeCache(ctx, key, result)
	return result, nil
}

func (s *RequestService) Areas(ctx context.Context) ([]string, error) {
	var cached []string
	key, hit := s.readCache(ctx, areasCacheKey, &cached)
	if hit {
		return cached, nil
	}

	areas, err := s.repo.DistinctAreas(ctx)
	if err != nil {
		s.logger.Error("RequestService: ошибка получения списка зон", zap.Error(err))
		return nil, err
	}
	s.writeCache(ctx, key, areas)
	return areas, nil
}

// readCache возвращает ключ текущего поколения; пустой ключ значит, что
// кеш недоступен и писать в него не нужно.
func (s *RequestService) readCache(ctx context.Context, base string, dest interface{}) (string, bool) {
	if s.cacheRepo == nil {
		return "", false
	}
	key, err := versionedCacheKey(ctx, s.cacheRepo, base)
	if err != nil {
		s.logger.Warn("RequestService: не удалось прочитать поколение кеша", zap.Error(err))
		return "", false
	}
	raw, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		s.logger.Debug("RequestService: промах кеша", zap.String("key", key), zap.Error(err))
		return key, false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.Warn("RequestService: повреждённое значение в кеше", zap.String("key", key), zap.Error(err))
		return key, false
	}
	return key, true
}

func (s *RequestService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cacheRepo == nil || key == "" {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cacheRepo.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		s.logger.Error("RequestService: не удалось записать в кеш", zap.String("key", key), zap.Error(err))
	}
}

func (s *RequestService) invalidateCache(ctx context.Context) {
	invalidateAggregates(ctx, s.cacheRepo, s.logger)
}

// invalidateAggregates переводит кеш агрегатов на новое поколение после
// любой записи. Старые ключи доживают свой TTL непрочитанными.
func invalidateAggregates(ctx context.Context, cacheRepo repositories.CacheRepositoryInterface, logger *zap.Logger) {
	if cacheRepo == nil {
		return
	}
	if _, err := cacheRepo.Incr(ctx, cacheGenerationKey); err != nil {
		logger.Error("ошибка инвалидации кеша агрегатов", zap.Error(err))
		// без нового поколения хотя бы убираем текущие значения
		gen, genErr := cacheGeneration(ctx, cacheRepo)
		if genErr == nil {
			_ = cacheRepo.Del(ctx, statsCacheKey+":"+gen, areasCacheKey+":"+gen)
		}
	}
}

func cacheGeneration(ctx context.Context, cacheRepo repositories.CacheRepositoryInterface) (string, error) {
	gen, err := cacheRepo.Get(ctx, cacheGenerationKey)
	if errors.Is(err, repositories.ErrCacheMiss) {
		return "0", nil
	}
	return gen, err
}

func versionedCacheKey(ctx context.Context, cacheRepo repositories.CacheRepositoryInterface, base string) (string, error) {
	gen, err := cacheGeneration(ctx, cacheRepo)
	if err != nil {
		return "", err
	}
	return base + ":" + gen, nil
}

func (s *RequestService) publish(event eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}
