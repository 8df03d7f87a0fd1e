package mappers

import (
	"fmt"
	"strings"
	"time"

	"github.com/aarondl/null/v8"

	"painel-solicitacoes/internal/dto"
	"painel-solicitacoes/internal/entities"
	"painel-solicitacoes/pkg/utils"
)

// SheetColumn: заголовок колонки во внешней планилье.
type SheetColumn string

const (
	ColTimestamp     SheetColumn = "Carimbo de data/hora"
	ColRequesterName SheetColumn = "Solicitante"
	ColRequesterArea SheetColumn = "Área Solicitante"
	ColOperationType SheetColumn = "Tipo de Operação"
	ColItemCode      SheetColumn = "Código do Item"
	ColLocation      SheetColumn = "Localização (opcional)"
	ColBusinessID    SheetColumn = "ID"
	ColStatus        SheetColumn = "Status"
	ColNote          SheetColumn = "Observação"
	ColStartedAt     SheetColumn = "Início Atendimento"
	ColCompletedAt   SheetColumn = "Conclusão Atendimento"
)

// SheetHeaders: порядок колонок как в строке заголовков планильи.
var SheetHeaders = []SheetColumn{
	ColTimestamp,
	ColRequesterName,
	ColRequesterArea,
	ColOperationType,
	ColItemCode,
	ColLocation,
	ColBusinessID,
	ColStatus,
	ColNote,
	ColStartedAt,
	ColCompletedAt,
}

// SheetRow это строка планильи, заголовок -> значение ячейки.
type SheetRow map[SheetColumn]string

func ToDashboardDTO(r entities.Request) dto.RequestDTO {
	return dto.RequestDTO{
		ID:          r.BusinessID,
		Timestamp:   utils.FormatDateTime(r.RequestedAt, utils.SheetDateTimeLayout),
		Solicitante: r.RequesterName,
		Area:        r.RequesterArea,
		Operacao:    r.OperationType,
		Item:        r.ItemCode,
		Localizacao: r.Location,
		Status:      r.Status,
		Observacao:  r.Note,
		Inicio:      utils.FormatNullTime(r.StartedAt, utils.AttendanceLayout),
		Conclusao:   utils.FormatNullTime(r.CompletedAt, utils.AttendanceLayout),
	}
}

func ToDashboardDTOs(list []entities.Request) []dto.RequestDTO {
	result := make([]dto.RequestDTO, 0, len(list))
	for _, r := range list {
		result = append(result, ToDashboardDTO(r))
	}
	return result
}

func ToSheetRow(r entities.Request) SheetRow {
	return SheetRow{
		ColTimestamp:     utils.FormatDateTime(r.RequestedAt, utils.SheetDateTimeLayout),
		ColRequesterName: r.RequesterName,
		ColRequesterArea: r.RequesterArea,
		ColOperationType: r.OperationType,
		ColItemCode:      r.ItemCode,
		ColLocation:      r.Location,
		ColBusinessID:    r.BusinessID,
		ColStatus:        r.Status,
		ColNote:          r.Note,
		ColStartedAt:     utils.FormatNullTime(r.StartedAt, utils.SheetDateTimeLayout),
		ColCompletedAt:   utils.FormatNullTime(r.CompletedAt, utils.SheetDateTimeLayout),
	}
}

// Values раскладывает строку по SheetHeaders.
func (row SheetRow) Values() []string {
	values := make([]string, len(SheetHeaders))
	for i, col := range SheetHeaders {
		values[i] = row[col]
	}
	return values
}

// FromSheetRow собирает заявку из строки планильи. Пустая дата создания
// заменяется на now, пустые даты обслуживания остаются NULL; непустая дата
// в неверном формате даёт ошибку.
func FromSheetRow(row SheetRow, now time.Time) (entities.Request, error) {
	requestedAt := now.UTC()
	if v := row[ColTimestamp]; v != "" {
		t, err := utils.ParseSheetDateTime(v)
		if err != nil {
			return entities.Request{}, fmt.Errorf("%s: %w", ColTimestamp, err)
		}
		requestedAt = t
	}

	startedAt, err := parseNullSheetTime(row, ColStartedAt)
	if err != nil {
		return entities.Request{}, err
	}
	completedAt, err := parseNullSheetTime(row, ColCompletedAt)
	if err != nil {
		return entities.Request{}, err
	}

	status, ok := row[ColStatus]
	if !ok {
		status = entities.StatusPending
	}

	return entities.Request{
		BusinessID:    row[ColBusinessID],
		RequestedAt:   requestedAt,
		RequesterName: row[ColRequesterName],
		RequesterArea: row[ColRequesterArea],
		OperationType: row[ColOperationType],
		ItemCode:      row[ColItemCode],
		Location:      row[ColLocation],
		Status:        strings.ToLower(status),
		Note:          row[ColNote],
		StartedAt:     startedAt,
		CompletedAt:   completedAt,
	}, nil
}

func parseNullSheetTime(row SheetRow, col SheetColumn) (null.Time, error) {
	v := row[col]
	if v == "" {
		return null.Time{}, nil
	}
	t, err := utils.ParseSheetDateTime(v)
	if err != nil {
		return null.Time{}, fmt.Errorf("%s: %w", col, err)
	}
	return null.TimeFrom(t), nil
}

// HeaderIndex находит известные заголовки в строке и возвращает их позиции.
func HeaderIndex(header []string) map[int]SheetColumn {
	known := make(map[string]SheetColumn, len(SheetHeaders))
	for _, col := range SheetHeaders {
		known[string(col)] = col
	}

	index := make(map[int]SheetColumn)
	for i, cell := range header {
		if col, ok := known[strings.TrimSpace(cell)]; ok {
			index[i] = col
		}
	}
	return index
}
