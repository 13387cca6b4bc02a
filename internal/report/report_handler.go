package report

import (
	"bytes"
	"fmt"
	"net/http"

	"leltar/internal/core/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/months/:month/report.xlsx", h.GetMonthReport)
}

func (h *Handler) GetMonthReport(c *gin.Context) {
	month, ok := response.Month(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.MonthReport(c.Request.Context(), &buf, month); err != nil {
		response.Error(c, h.logger, "Unable to build report", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("keszlet_%s.xlsx", month)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
