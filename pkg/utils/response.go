package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "painel-solicitacoes/pkg/errors"
)

// HTTPResponse: формат ответа на запись, который ожидает панель.
type HTTPResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type ErrorBody struct {
	Error string `json:"error"`
}

func SuccessResponse(ctx echo.Context, data interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		return c.JSON(httpErr.Code, ErrorBody{Error: httpErr.Message})
	}

	for known, statusCode := range ErrorList {
		if errors.Is(err, known) {
			return c.JSON(statusCode, ErrorBody{Error: known.Error()})
		}
	}

	logger.Error("Unexpected Error",
		zap.String("method", c.Request().Method),
		zap.String("uri", c.Request().RequestURI),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, ErrorBody{Error: err.Error()})
}
