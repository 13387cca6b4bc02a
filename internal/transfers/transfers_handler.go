package transfers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"leltar/internal/core/response"
	"leltar/pkg/metadata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TransferHandler struct {
	service *TransferService
	logger  *zap.Logger
}

func NewHandler(service *TransferService, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{service: service, logger: logger}
}

func (h *TransferHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/months/:month/transfers", h.GetTransfers)
	router.POST("/months/:month/transfers", h.CreateTransfer)
	router.GET("/months/:month/transfers/export", h.ExportMonth)
	router.GET("/transfers/export", h.ExportAll)
	router.POST("/transfers/import", h.ImportTransfers)
	router.DELETE("/transfers/:id", h.UndoTransfer)
}

func (h *TransferHandler) GetTransfers(c *gin.Context) {
	month, ok := response.Month(c)
	if !ok {
		return
	}

	transfers, err := h.service.List(c.Request.Context(), month)
	if err != nil {
		response.Error(c, h.logger, "Unable to list transfers", err)
		return
	}

	c.JSON(http.StatusOK, transfers)
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	month, ok := response.Month(c)
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	from, err := metadata.NewWarehouse(req.FromWarehouse)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid source warehouse", "details": err.Error()})
		return
	}
	to, err := metadata.NewWarehouse(req.ToWarehouse)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid destination warehouse", "details": err.Error()})
		return
	}

	transfer, err := h.service.Execute(c.Request.Context(), Command{
		From:      from,
		To:        to,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Month:     month,
	})
	if err != nil {
		response.Error(c, h.logger, "Unable to transfer stock", err)
		return
	}

	c.JSON(http.StatusCreated, transfer)
}

func (h *TransferHandler) UndoTransfer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid transfer ID"})
		return
	}

	transfer, err := h.service.Undo(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.logger, "Unable to undo transfer", err)
		return
	}

	c.JSON(http.StatusOK, transfer)
}

func (h *TransferHandler) ExportMonth(c *gin.Context) {
	month, ok := response.Month(c)
	if !ok {
		return
	}
	h.export(c, &month, fmt.Sprintf("transfers_%s.csv", month))
}

func (h *TransferHandler) ExportAll(c *gin.Context) {
	h.export(c, nil, "transfer_log_export.csv")
}

func (h *TransferHandler) export(c *gin.Context, month *metadata.Month, filename string) {
	var buf bytes.Buffer
	if _, err := h.service.Export(c.Request.Context(), &buf, month); err != nil {
		response.Error(c, h.logger, "Unable to export transfers", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *TransferHandler) ImportTransfers(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "File is required", "details": err.Error()})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, h.logger, "Unable to read uploaded file", err)
		return
	}
	defer f.Close()

	imported, err := h.service.Import(c.Request.Context(), f)
	if err != nil {
		response.Error(c, h.logger, "Unable to import transfers", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"imported": imported})
}
