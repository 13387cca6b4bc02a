package snapshots

import (
	"net/http"

	"leltar/internal/core/response"
	"leltar/pkg/auditlog"
	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StockHandler struct {
	store    *Store
	grid     *GridService
	auditLog *auditlog.Auditlog
	actor    string
	logger   *zap.Logger
}

func NewStockHandler(store *Store, grid *GridService, a *auditlog.Auditlog, actor string, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		store:    store,
		grid:     grid,
		auditLog: a,
		actor:    actor,
		logger:   logger,
	}
}

func (h *StockHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/warehouses", h.GetWarehouses)
	router.GET("/months/:month/stock", h.GetMonthGrid)
	router.DELETE("/months/:month/stock", h.PurgeMonth)
}

func (h *StockHandler) GetWarehouses(c *gin.Context) {
	c.JSON(http.StatusOK, metadata.Warehouses())
}

func (h *StockHandler) GetMonthGrid(c *gin.Context) {
	month, ok := response.Month(c)
	if !ok {
		return
	}

	grid, err := h.grid.Grid(c.Request.Context(), month)
	if err != nil {
		response.Error(c, h.logger, "Unable to read month", err)
		return
	}

	c.JSON(http.StatusOK, grid)
}

func (h *StockHandler) PurgeMonth(c *gin.Context) {
	month, ok := response.Month(c)
	if !ok {
		return
	}

	deleted, err := h.store.PurgeMonth(c.Request.Context(), month)
	if err != nil {
		response.Error(c, h.logger, "Unable to delete month", err)
		return
	}

	h.auditLog.Log(c.Request.Context(), "purge", h.actor, map[string]interface{}{
		"deleted_rows": deleted,
	}, &models.StockMonth{Month: month})

	c.JSON(http.StatusOK, gin.H{"month": month, "deleted": deleted})
}
