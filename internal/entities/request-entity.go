package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Статусы заявки. Значения совпадают с тем, что хранится в БД и ждёт панель.
const (
	StatusPending    = "pendente"
	StatusInProgress = "em-andamento"
	StatusDone       = "concluido"

	// StatusAll: значение фильтра "все", фильтр не применяется.
	StatusAll = "todos"
)

// Request: заявка на выдачу (Entrega) или хранение (Guarda).
type Request struct {
	ID            uint64 // внутренняя последовательность, порядок вставки
	BusinessID    string // EMP0001, EMP0002, ...
	RequestedAt   time.Time
	RequesterName string
	RequesterArea string
	OperationType string
	ItemCode      string
	Location      string
	Status        string
	Note          string
	StartedAt     null.Time
	CompletedAt   null.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RequestFilter это уже нормализованный фильтр списка, пустые поля не применяются.
type RequestFilter struct {
	Status string
	Area   string
	Day    *time.Time
}

type RequestStats struct {
	Pending    int
	InProgress int
	Done       int
}

// Total: сумма трёх корзин, записи с иными статусами не считаются.
func (s RequestStats) Total() int {
	return s.Pending + s.InProgress + s.Done
}
