package utils

import (
	"net/http"

	apperrors "painel-solicitacoes/pkg/errors"
)

// ErrorList сопоставляет доменные ошибки с HTTP-кодами. Всё, чего здесь нет, отдаётся как 500.
var ErrorList = map[error]int{
	apperrors.ErrNotFound:   http.StatusNotFound,
	apperrors.ErrBadRequest: http.StatusBadRequest,
	apperrors.ErrEmptySheet: http.StatusBadRequest,
}
