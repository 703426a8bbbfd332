package controller

import (
	"github.com/labstack/echo/v4"

	"go-ingest/internal/infra/observability"
)

type MetricsController struct {
	api *echo.Group
}

func NewMetricsController(api *echo.Group) *MetricsController {
	return &MetricsController{api: api}
}

// InitMetricsRoutes exposes the prometheus registry
func (controller *MetricsController) InitMetricsRoutes() {
	controller.api.GET("/metrics", echo.WrapHandler(observability.MetricsHandler()))
}
