package listeners

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"painel-solicitacoes/internal/events"
	"painel-solicitacoes/pkg/eventbus"
)

// RequestListener ведёт журнал действий по заявкам и доменные метрики.
type RequestListener struct {
	created     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	imported    *prometheus.CounterVec
	logger      *zap.Logger
}

func NewRequestListener(registerer prometheus.Registerer, logger *zap.Logger) *RequestListener {
	l := &RequestListener{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "painel",
			Subsystem: "requests",
			Name:      "created_total",
			Help:      "Requests created, by operation type.",
		}, []string{"operation"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "painel",
			Subsystem: "requests",
			Name:      "status_transitions_total",
			Help:      "Status transitions applied to requests.",
		}, []string{"from", "to"}),
		imported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "painel",
			Subsystem: "requests",
			Name:      "imported_rows_total",
			Help:      "Spreadsheet rows processed by import, by outcome.",
		}, []string{"outcome"}),
		logger: logger,
	}
	registerer.MustRegister(l.created, l.transitions, l.imported)
	return l
}

// Register подписывает слушателя на события заявок.
func (l *RequestListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RequestCreated, l.onCreated)
	bus.Subscribe(events.RequestStatusChanged, l.onStatusChanged)
	bus.Subscribe(events.RequestsImported, l.onImported)
}

func (l *RequestListener) onCreated(_ context.Context, e eventbus.Event) error {
	event, ok := e.(events.RequestCreatedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", e)
	}
	l.created.WithLabelValues(event.Request.OperationType).Inc()
	l.logger.Info("Заявка создана",
		zap.String("emp_id", event.Request.BusinessID),
		zap.String("area", event.Request.RequesterArea),
		zap.String("operation", event.Request.OperationType),
	)
	return nil
}

func (l *RequestListener) onStatusChanged(_ context.Context, e eventbus.Event) error {
	event, ok := e.(events.RequestStatusChangedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", e)
	}
	l.transitions.WithLabelValues(event.FromStatus, event.Request.Status).Inc()
	l.logger.Info("Статус заявки изменён",
		zap.String("emp_id", event.Request.BusinessID),
		zap.String("from", event.FromStatus),
		zap.String("to", event.Request.Status),
	)
	return nil
}

func (l *RequestListener) onImported(_ context.Context, e eventbus.Event) error {
	event, ok := e.(events.RequestsImportedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", e)
	}
	l.imported.WithLabelValues("created").Add(float64(event.Created))
	l.imported.WithLabelValues("updated").Add(float64(event.Updated))
	l.imported.WithLabelValues("skipped").Add(float64(event.Skipped))
	l.logger.Info("Импорт планильи завершён",
		zap.Int("created", event.Created),
		zap.Int("updated", event.Updated),
		zap.Int("skipped", event.Skipped),
	)
	return nil
}
