package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"painel-solicitacoes/internal/dto"
	"painel-solicitacoes/internal/entities"
	"painel-solicitacoes/internal/events"
	"painel-solicitacoes/internal/mappers"
	"painel-solicitacoes/internal/repositories"
	apperrors "painel-solicitacoes/pkg/errors"
	"painel-solicitacoes/pkg/eventbus"
)

const exportSheetName = "Solicitações"

type SheetServiceInterface interface {
	Export(ctx context.Context, filter dto.RequestFilterDTO, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error)
}

// SheetService обменивается заявками с планильей XLSX в формате колонок
// исходной Google-таблицы.
type SheetService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.RequestRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	bus       *eventbus.Bus
	validate  *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

func NewSheetService(
	txManager repositories.TxManagerInterface,
	repo repositories.RequestRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	bus *eventbus.Bus,
	validate *validator.Validate,
	logger *zap.Logger,
) *SheetService {
	return &SheetService{
		txManager: txManager,
		repo:      repo,
		cacheRepo: cacheRepo,
		bus:       bus,
		validate:  validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *SheetService) Export(ctx context.Context, filter dto.RequestFilterDTO, w io.Writer) error {
	list, err := s.repo.List(ctx, BuildRequestFilter(s.validate, filter))
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return err
	}
	headers := make([]string, len(mappers.SheetHeaders))
	for i, col := range mappers.SheetHeaders {
		headers[i] = string(col)
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &headers); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(exportSheetName, "A1", lastCol+"1", style)

	for i, req := range list {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := mappers.ToSheetRow(req).Values()
		if err := f.SetSheetRow(exportSheetName, cell, &values); err != nil {
			return fmt.Errorf("ошибка записи строки %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(exportSheetName, "A", "A", 22)
	_ = f.SetColWidth(exportSheetName, "B", "F", 20)
	_ = f.SetColWidth(exportSheetName, "I", "I", 40)
	_ = f.SetColWidth(exportSheetName, "J", "K", 22)

	s.logger.Info("SheetService: экспорт сформирован", zap.Int("rows", len(list)))
	_, err = f.WriteTo(w)
	return err
}

// Import читает первый лист, ищет строку заголовков и сохраняет строки по ID:
// существующие заявки обновляются, новые вставляются. Строки с неверным ID
// или датой пропускаются и попадают в отчёт, ошибка БД откатывает весь импорт.
func (s *SheetService) Import(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: não foi possível abrir a planilha: %v", apperrors.ErrBadRequest, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать лист %s: %w", sheets[0], err)
	}

	headerRow := -1
	var index map[int]mappers.SheetColumn
	for i, row := range rows {
		candidate := mappers.HeaderIndex(row)
		if hasColumn(candidate, mappers.ColBusinessID) {
			headerRow, index = i, candidate
			break
		}
	}
	if headerRow == -1 {
		return nil, apperrors.ErrEmptySheet
	}

	result := &dto.ImportResultDTO{Errors: []string{}}
	now := s.now()
	valid := make([]entities.Request, 0, len(rows)-headerRow)
	for i := headerRow + 1; i < len(rows); i++ {
		line := i + 1
		row := sheetRowFromCells(rows[i], index)
		if len(row) == 0 {
			continue
		}

		if err := s.validate.Struct(dto.SheetRowDTO{Line: line, BusinessID: row[mappers.ColBusinessID]}); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: ID inválido %q", line, row[mappers.ColBusinessID]))
			continue
		}

		req, err := mappers.FromSheetRow(row, now)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: %v", line, err))
			continue
		}
		valid = append(valid, req)
	}

	// Следующий номер берётся у последней вставленной записи, поэтому новые
	// строки вставляются по возрастанию номера, а не в порядке файла.
	sort.SliceStable(valid, func(i, j int) bool {
		a, _ := empNumber(valid[i].BusinessID)
		b, _ := empNumber(valid[j].BusinessID)
		return a < b
	})

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.LockBusinessIDs(ctx, tx); err != nil {
			return err
		}
		for i := range valid {
			inserted, err := s.repo.Upsert(ctx, tx, &valid[i])
			if err != nil {
				return err
			}
			if inserted {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("SheetService: импорт отменён", zap.Error(err))
		return nil, err
	}

	invalidateAggregates(ctx, s.cacheRepo, s.logger)
	if s.bus != nil {
		s.bus.Publish(events.RequestsImportedEvent{Created: result.Created, Updated: result.Updated, Skipped: result.Skipped})
	}
	return result, nil
}

// sheetRowFromCells берёт только непустые ячейки без изменений: пустая
// ячейка в XLSX неотличима от отсутствующей.
func sheetRowFromCells(cells []string, index map[int]mappers.SheetColumn) mappers.SheetRow {
	row := make(mappers.SheetRow)
	for i, cell := range cells {
		col, ok := index[i]
		if !ok {
			continue
		}
		if strings.TrimSpace(cell) != "" {
			row[col] = cell
		}
	}
	return row
}

func hasColumn(index map[int]mappers.SheetColumn, want mappers.SheetColumn) bool {
	for _, col := range index {
		if col == want {
			return true
		}
	}
	return false
}
