package reconcile

import (
	"net/http"

	"leltar/internal/core/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	auditor *Auditor
	logger  *zap.Logger
}

func NewHandler(auditor *Auditor, logger *zap.Logger) *Handler {
	return &Handler{auditor: auditor, logger: logger}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/months/:month/reconciliation", h.GetReconciliation)
}

func (h *Handler) GetReconciliation(c *gin.Context) {
	month, ok := response.Month(c)
	if !ok {
		return
	}

	report, err := h.auditor.Audit(c.Request.Context(), month)
	if err != nil {
		response.Error(c, h.logger, "Unable to audit month", err)
		return
	}

	c.JSON(http.StatusOK, report)
}
