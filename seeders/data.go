package seeders

import (
	"time"

	"github.com/aarondl/null/v8"

	"painel-solicitacoes/internal/entities"
)

func at(day, hour, min, sec int) time.Time {
	return time.Date(2025, time.September, day, hour, min, sec, 0, time.UTC)
}

// demoRequestsData: снимок планильи склада. Порядок по возрастанию номера:
// следующая созданная через API заявка получит EMP2152.
var demoRequestsData = []entities.Request{
	{
		BusinessID:    "EMP2147",
		RequestedAt:   at(20, 13, 30, 5),
		RequesterName: "Maria Santos",
		RequesterArea: "🔧Manutenção INJ",
		OperationType: "🔵Guarda",
		ItemCode:      "17.400.1020",
		Location:      "Almoxarifado Central",
		Status:        entities.StatusPending,
	},
	{
		BusinessID:    "EMP2148",
		RequestedAt:   at(20, 13, 45, 10),
		RequesterName: "João Silva",
		RequesterArea: "⭐Qualidade",
		OperationType: "🟠Entrega",
		ItemCode:      "16.300.2010",
		Status:        entities.StatusInProgress,
		Note:          "Peças para inspeção urgente",
		StartedAt:     null.TimeFrom(at(20, 14, 0, 0)),
	},
	{
		BusinessID:    "EMP2149",
		RequestedAt:   at(20, 14, 5, 24),
		RequesterName: "Teste Operador",
		RequesterArea: "⚙️Usinagem",
		OperationType: "🔵Guarda",
		ItemCode:      "15.200.4050",
		Location:      "Estante A-15",
		Status:        entities.StatusPending,
	},
	{
		BusinessID:    "EMP2150",
		RequestedAt:   at(20, 14, 6, 14),
		RequesterName: "Injeção",
		RequesterArea: "🏭Injeção de Alumínio",
		OperationType: "🟠Entrega",
		ItemCode:      "14.100.3028",
		Status:        entities.StatusDone,
		Note:          "2800 para rebarbar",
		StartedAt:     null.TimeFrom(at(20, 14, 55, 14)),
		CompletedAt:   null.TimeFrom(at(20, 15, 14, 12)),
	},
	{
		BusinessID:    "EMP2151",
		RequestedAt:   at(20, 14, 7, 29),
		RequesterName: "Injeção",
		RequesterArea: "🏭Injeção de Alumínio",
		OperationType: "🟠Entrega",
		ItemCode:      "14.100.7010",
		Status:        entities.StatusDone,
		Note:          "2000 para rebarbar",
		StartedAt:     null.TimeFrom(at(20, 14, 20, 12)),
		CompletedAt:   null.TimeFrom(at(20, 15, 14, 6)),
	},
}
