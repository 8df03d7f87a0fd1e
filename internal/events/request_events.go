package events

import "painel-solicitacoes/internal/entities"

const (
	RequestCreated       = "request.created"
	RequestStatusChanged = "request.status.changed"
	RequestsImported     = "requests.imported"
)

// RequestCreatedEvent: новая заявка сохранена.
type RequestCreatedEvent struct {
	Request entities.Request
}

func (e RequestCreatedEvent) Name() string { return RequestCreated }

// RequestStatusChangedEvent публикуется только если статус действительно сменился.
type RequestStatusChangedEvent struct {
	Request    entities.Request
	FromStatus string
}

func (e RequestStatusChangedEvent) Name() string { return RequestStatusChanged }

type RequestsImportedEvent struct {
	Created int
	Updated int
	Skipped int
}

func (e RequestsImportedEvent) Name() string { return RequestsImported }
