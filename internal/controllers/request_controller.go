package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"painel-solicitacoes/internal/dto"
	"painel-solicitacoes/internal/services"
	apperrors "painel-solicitacoes/pkg/errors"
	"painel-solicitacoes/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RequestController struct {
	requestService services.RequestServiceInterface
	sheetService   services.SheetServiceInterface
	logger         *zap.Logger
}

func NewRequestController(
	requestService services.RequestServiceInterface,
	sheetService services.SheetServiceInterface,
	logger *zap.Logger,
) *RequestController {
	return &RequestController{
		requestService: requestService,
		sheetService:   sheetService,
		logger:         logger,
	}
}

func (c *RequestController) GetRequests(ctx echo.Context) error {
	filter, err := c.bindFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	list, err := c.requestService.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, list)
}

func (c *RequestController) CreateRequest(ctx echo.Context) error {
	var payload dto.CreateRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "corpo da requisição inválido", err, nil),
			c.logger,
		)
	}

	res, err := c.requestService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Solicitação criada com sucesso", http.StatusCreated)
}

func (c *RequestController) UpdateRequest(ctx echo.Context) error {
	empID := ctx.Param("id")

	var patch dto.UpdateRequestDTO
	if err := ctx.Bind(&patch); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(
				http.StatusInternalServerError,
				"corpo da requisição inválido",
				err,
				map[string]interface{}{"id": empID},
			),
			c.logger,
		)
	}

	res, err := c.requestService.Update(ctx.Request().Context(), empID, patch)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Solicitação atualizada com sucesso", http.StatusOK)
}

func (c *RequestController) GetStats(ctx echo.Context) error {
	stats, err := c.requestService.Stats(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (c *RequestController) GetAreas(ctx echo.Context) error {
	areas, err := c.requestService.Areas(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, areas)
}

// ExportRequests отдаёт XLSX с теми же фильтрами, что и список.
func (c *RequestController) ExportRequests(ctx echo.Context) error {
	filter, err := c.bindFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var buf bytes.Buffer
	if err := c.sheetService.Export(ctx.Request().Context(), filter, &buf); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileName := fmt.Sprintf("solicitacoes_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (c *RequestController) ImportRequests(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "arquivo 'file' não enviado", err, nil),
			c.logger,
		)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "não foi possível ler o arquivo", err, nil),
			c.logger,
		)
	}
	defer src.Close()

	result, err := c.sheetService.Import(ctx.Request().Context(), src)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Info("ImportRequests: планилья обработана",
		zap.String("file", fileHeader.Filename),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return utils.SuccessResponse(ctx, result, "Planilha importada com sucesso", http.StatusOK)
}

func (c *RequestController) bindFilter(ctx echo.Context) (dto.RequestFilterDTO, error) {
	var filter dto.RequestFilterDTO
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &filter); err != nil {
		return filter, apperrors.NewHttpError(http.StatusInternalServerError, "parâmetros de consulta inválidos", err, nil)
	}
	// дата не в формате YYYY-MM-DD не ошибка, фильтр по дню просто снимается
	if err := ctx.Validate(&filter); err != nil {
		c.logger.Debug("bindFilter: дата проигнорирована", zap.String("date", filter.Date), zap.Error(err))
		filter.Date = ""
	}
	return filter, nil
}
