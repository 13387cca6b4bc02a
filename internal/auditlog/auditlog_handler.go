package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"leltar/internal/core/response"
	"leltar/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LogReader interface {
	GetResourceLog(ctx context.Context, id int64, resourceType string) ([]models.AuditLog, error)
}

type HistoryHandler struct {
	reader LogReader
	logger *zap.Logger
}

func NewHistoryHandler(reader LogReader, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{reader: reader, logger: logger}
}

func (h *HistoryHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/history/months/:month", h.GetMonthHistory)
	router.GET("/history/transfers/:id", h.GetTransferHistory)
}

// GetMonthHistory lists uploads and purges of a month, newest first.
func (h *HistoryHandler) GetMonthHistory(c *gin.Context) {
	month, ok := response.Month(c)
	if !ok {
		return
	}
	view := (&models.StockMonth{Month: month}).CreateLogView()
	h.respond(c, view.ResourceID, view.ResourceType)
}

func (h *HistoryHandler) GetTransferHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid transfer ID"})
		return
	}
	view := (&models.Transfer{ID: id}).CreateLogView()
	h.respond(c, view.ResourceID, view.ResourceType)
}

func (h *HistoryHandler) respond(c *gin.Context, id int64, resourceType string) {
	logs, err := h.reader.GetResourceLog(c.Request.Context(), id, resourceType)
	if err != nil {
		response.Error(c, h.logger, "Unable to fetch history", err)
		return
	}

	c.JSON(http.StatusOK, logs)
}
