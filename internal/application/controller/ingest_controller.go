package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/model"
	"go-ingest/internal/domain/usecase/pipeline"
	"go-ingest/internal/infra/observability"
	"go-ingest/pkg/log"
)

const httpTrigger = "http"

type IngestController struct {
	api     *echo.Group
	useCase pipeline.UseCase
	// runAsync starts background runs, tests replace it to run inline
	runAsync func(func())
}

func NewIngestController(api *echo.Group, useCase pipeline.UseCase) *IngestController {
	return &IngestController{
		api:      api,
		useCase:  useCase,
		runAsync: func(run func()) { go run() },
	}
}

// InitIngestRoutes initializes ingestion routes
func (controller *IngestController) InitIngestRoutes() {
	controller.api.POST("/ingest", controller.Ingest)
	controller.api.POST("/ingest/async", controller.IngestAsync)
}

// Ingest godoc
// @Summary Run the ingestion pipeline
// @Description Runs the pipeline and answers with one result per synchronized table. Empty cities falls back to the configured list, empty entities runs every stage
// @Tags ingest
// @Accept json
// @Produce json
// @Param request body model.IngestRequestDTO false "Cities and entities to ingest"
// @Success 200 {object} model.IngestResponseDTO "Per table sync results"
// @Failure 400 {object} map[string]string "Invalid request body or unknown entity"
// @Failure 502 {object} map[string]any "Upstream source unavailable"
// @Failure 503 {object} map[string]any "Store unavailable"
// @Failure 500 {object} map[string]any "Internal server error"
// @Router /ingest [post]
func (controller *IngestController) Ingest(c echo.Context) error {
	var dto model.IngestRequestDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	response, err := controller.useCase.RunEntities(c.Request().Context(), "", dto.Cities, dto.Entities)
	if errors.Is(err, pipeline.ErrUnknownEntity) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	observability.RecordPipelineRun(httpTrigger, err)
	if err != nil {
		return c.JSON(statusOf(err), map[string]any{
			"error":     err.Error(),
			"requestId": response.RequestID,
			"results":   response.Results,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// IngestAsync godoc
// @Summary Start an ingestion run in the background
// @Description Validates the request, starts the run and answers with its request id
// @Tags ingest
// @Accept json
// @Produce json
// @Param request body model.IngestRequestDTO false "Cities and entities to ingest"
// @Success 202 {object} map[string]string "Request id of the started run"
// @Failure 400 {object} map[string]string "Invalid request body or unknown entity"
// @Router /ingest/async [post]
func (controller *IngestController) IngestAsync(c echo.Context) error {
	var dto model.IngestRequestDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := pipeline.ValidateEntities(dto.Entities); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	requestID := uuid.New().String()
	ctx := context.WithoutCancel(c.Request().Context())
	controller.runAsync(func() {
		_, err := controller.useCase.RunEntities(ctx, requestID, dto.Cities, dto.Entities)
		observability.RecordPipelineRun(httpTrigger, err)
		if err != nil {
			log.Error("Asynchronous ingestion failed", zap.String("request_id", requestID), zap.Error(err))
		}
	})

	return c.JSON(http.StatusAccepted, map[string]string{"requestId": requestID})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, errs.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
