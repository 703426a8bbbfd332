package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/usecase/table"
	"go-ingest/pkg/util/numberutils"
)

type TableController struct {
	api     *echo.Group
	useCase table.UseCase
}

func NewTableController(api *echo.Group, useCase table.UseCase) *TableController {
	return &TableController{api: api, useCase: useCase}
}

// InitTableRoutes initializes table routes
func (controller *TableController) InitTableRoutes() {
	controller.api.GET("/tables/:table", controller.ReadTable)
}

// ReadTable godoc
// @Summary Read a page of a table
// @Description Returns the column names and a page of persisted rows
// @Tags tables
// @Produce json
// @Param table path string true "Table name"
// @Param page query int false "Page number" default(0)
// @Param size query int false "Page size, at most 1000" default(50)
// @Success 200 {object} model.TablePageDTO "Columns and rows"
// @Failure 404 {object} map[string]string "Unknown table"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tables/{table} [get]
func (controller *TableController) ReadTable(c echo.Context) error {
	page := max(numberutils.ToIntWithDefault(c.QueryParam("page"), 0), 0)
	size := numberutils.ClampInt(numberutils.ToIntWithDefault(c.QueryParam("size"), 50), 1, 1000)

	dto, err := controller.useCase.ReadPage(c.Request().Context(), c.Param("table"), page, size)
	if errors.Is(err, errs.ErrTableNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	if err != nil {
		return c.JSON(statusOf(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}
