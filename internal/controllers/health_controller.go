package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"painel-solicitacoes/internal/dto"
)

type HealthController struct {
	version string
	now     func() time.Time
}

func NewHealthController(version string) *HealthController {
	return &HealthController{version: version, now: time.Now}
}

// Health не ходит в БД: отвечает, что процесс жив.
func (c *HealthController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, dto.HealthDTO{
		Status:    "healthy",
		Timestamp: c.now().UTC().Format(time.RFC3339Nano),
		Version:   c.version,
	})
}
