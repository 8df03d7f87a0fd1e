package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"painel-solicitacoes/internal/entities"
	"painel-solicitacoes/internal/repositories"
	"painel-solicitacoes/pkg/customvalidator"
	apperrors "painel-solicitacoes/pkg/errors"
	"painel-solicitacoes/pkg/utils"
)

// fakeTxManager выполняет fn без транзакции, но по одной за раз,
// как это делает advisory lock в настоящей БД.
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(nil)
}

type fakeRequestRepo struct {
	mu         sync.Mutex
	rows       []entities.Request
	countCalls int
	err        error
	// afterCount вызывается один раз после подсчёта статистики, вне блокировки
	afterCount func()
}

func (r *fakeRequestRepo) LockBusinessIDs(ctx context.Context, tx pgx.Tx) error { return r.err }

func (r *fakeRequestRepo) LastBusinessID(ctx context.Context, tx pgx.Tx) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	if len(r.rows) == 0 {
		return "", nil
	}
	return r.rows[len(r.rows)-1].BusinessID, nil
}

func (r *fakeRequestRepo) Create(ctx context.Context, tx pgx.Tx, req *entities.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	req.ID = uint64(len(r.rows) + 1)
	r.rows = append(r.rows, *req)
	return nil
}

func (r *fakeRequestRepo) FindByBusinessID(ctx context.Context, tx pgx.Tx, empID string, forUpdate bool) (*entities.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.BusinessID == empID {
			found := row
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeRequestRepo) Update(ctx context.Context, tx pgx.Tx, req *entities.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].BusinessID == req.BusinessID {
			r.rows[i] = *req
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeRequestRepo) Upsert(ctx context.Context, tx pgx.Tx, req *entities.Request) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	for i := range r.rows {
		if r.rows[i].BusinessID == req.BusinessID {
			req.ID = r.rows[i].ID
			r.rows[i] = *req
			return false, nil
		}
	}
	req.ID = uint64(len(r.rows) + 1)
	r.rows = append(r.rows, *req)
	return true, nil
}

func (r *fakeRequestRepo) List(ctx context.Context, filter entities.RequestFilter) ([]entities.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	result := make([]entities.Request, 0)
	for _, row := range r.rows {
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if filter.Area != "" && row.RequesterArea != filter.Area {
			continue
		}
		if filter.Day != nil {
			start, end := utils.DayBounds(*filter.Day)
			if row.RequestedAt.Before(start) || !row.RequestedAt.Before(end) {
				continue
			}
		}
		result = append(result, row)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].RequestedAt.Equal(result[j].RequestedAt) {
			return result[i].RequestedAt.After(result[j].RequestedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *fakeRequestRepo) CountByStatus(ctx context.Context) (entities.RequestStats, error) {
	stats, err := r.countByStatus()
	if hook := r.afterCount; hook != nil {
		r.afterCount = nil
		hook()
	}
	return stats, err
}

func (r *fakeRequestRepo) countByStatus() (entities.RequestStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countCalls++
	var stats entities.RequestStats
	if r.err != nil {
		return stats, r.err
	}
	for _, row := range r.rows {
		switch row.Status {
		case entities.StatusPending:
			stats.Pending++
		case entities.StatusInProgress:
			stats.InProgress++
		case entities.StatusDone:
			stats.Done++
		}
	}
	return stats, nil
}

func (r *fakeRequestRepo) DistinctAreas(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	areas := make([]string, 0)
	for _, row := range r.rows {
		if row.RequesterArea != "" && !seen[row.RequesterArea] {
			seen[row.RequesterArea] = true
			areas = append(areas, row.RequesterArea)
		}
	}
	sort.Strings(areas)
	return areas, nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string]string)} }

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value.(string)
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func newTestValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v, err := customvalidator.New()
	require.NoError(t, err)
	return v
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newTestRequestService(t *testing.T, repo *fakeRequestRepo, cache repositories.CacheRepositoryInterface) *RequestService {
	t.Helper()
	return NewRequestService(&fakeTxManager{}, repo, cache, nil, newTestValidator(t), zap.NewNop(), time.Minute)
}
