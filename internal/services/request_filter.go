package services

import (
	"time"

	"github.com/go-playground/validator/v10"

	"painel-solicitacoes/internal/dto"
	"painel-solicitacoes/internal/entities"
	"painel-solicitacoes/pkg/utils"
)

// BuildRequestFilter нормализует query-параметры списка.
// "todos" и пустое значение снимают фильтр, дата не в формате YYYY-MM-DD
// молча игнорируется.
func BuildRequestFilter(v *validator.Validate, in dto.RequestFilterDTO) entities.RequestFilter {
	filter := entities.RequestFilter{
		Status: normalizeFilterValue(in.Status),
		Area:   normalizeFilterValue(in.Area),
	}

	if in.Date == "" {
		return filter
	}
	if err := v.Var(in.Date, "datetime="+utils.FilterDateLayout); err != nil {
		return filter
	}
	if day, err := time.ParseInLocation(utils.FilterDateLayout, in.Date, time.UTC); err == nil {
		filter.Day = &day
	}
	return filter
}

// normalizeFilterValue не трогает значение: зоны сравниваются побайтно,
// включая пробелы и символы по краям.
func normalizeFilterValue(value string) string {
	if value == entities.StatusAll {
		return ""
	}
	return value
}
