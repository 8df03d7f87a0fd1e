package dto

import "github.com/aarondl/null/v8"

// CreateRequestDTO: что присылает форма заявки.
type CreateRequestDTO struct {
	RequesterName string `json:"solicitante"`
	RequesterArea string `json:"area_solicitante"`
	OperationType string `json:"tipo_operacao"`
	ItemCode      string `json:"codigo_item"`
	Location      string `json:"localizacao"`
}

// UpdateRequestDTO: отсутствующее поле не меняется.
type UpdateRequestDTO struct {
	Status null.String `json:"status"`
	Note   null.String `json:"observacao"`
}

// RequestFilterDTO: query-параметры GET /requests.
type RequestFilterDTO struct {
	Status string `query:"status"`
	Area   string `query:"area"`
	Date   string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

// RequestDTO: проекция для панели.
type RequestDTO struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Solicitante string `json:"solicitante"`
	Area        string `json:"area"`
	Operacao    string `json:"operacao"`
	Item        string `json:"item"`
	Localizacao string `json:"localizacao"`
	Status      string `json:"status"`
	Observacao  string `json:"observacao"`
	Inicio      string `json:"inicio"`
	Conclusao   string `json:"conclusao"`
}

type RequestStatsDTO struct {
	Pendentes   int `json:"pendentes"`
	EmAndamento int `json:"em_andamento"`
	Concluidos  int `json:"concluidos"`
	Total       int `json:"total"`
}

type HealthDTO struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// SheetRowDTO: строка планильи при импорте, ID проверяется до разбора.
type SheetRowDTO struct {
	Line       int
	BusinessID string `validate:"required,emp_id"`
}

type ImportResultDTO struct {
	Created int      `json:"criados"`
	Updated int      `json:"atualizados"`
	Skipped int      `json:"ignorados"`
	Errors  []string `json:"erros"`
}
