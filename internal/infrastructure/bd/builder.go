package db

import (
	sq "github.com/Masterminds/squirrel"

	"painel-solicitacoes/internal/entities"
	"painel-solicitacoes/pkg/utils"
)

// Колонки requests, по которым фильтрует панель.
const (
	ColumnStatus      = "status"
	ColumnArea        = "area_solicitante"
	ColumnRequestedAt = "requested_at"
)

// ApplyRequestFilter добавляет к выборке условия фильтра (все через AND)
// и порядок панели: сначала новые, при равном времени позже вставленные.
func ApplyRequestFilter(builder sq.SelectBuilder, filter entities.RequestFilter) sq.SelectBuilder {
	if filter.Status != "" && filter.Status != entities.StatusAll {
		builder = builder.Where(sq.Eq{ColumnStatus: filter.Status})
	}
	if filter.Area != "" && filter.Area != entities.StatusAll {
		builder = builder.Where(sq.Eq{ColumnArea: filter.Area})
	}
	if filter.Day != nil {
		start, end := utils.DayBounds(*filter.Day)
		builder = builder.Where(sq.And{
			sq.GtOrEq{ColumnRequestedAt: start},
			sq.Lt{ColumnRequestedAt: end},
		})
	}

	return builder.OrderBy(ColumnRequestedAt+" DESC", "id DESC")
}
