package ingest

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"leltar/internal/core/response"
	custom_error "leltar/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadMemory = 32 << 20

type UploadHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewUploadHandler(service *Service, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{service: service, logger: logger}
}

func (h *UploadHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/months/:month/uploads/per-warehouse", h.UploadPerWarehouse)
	router.POST("/months/:month/uploads/unified", h.UploadUnified)
}

// UploadPerWarehouse expects six "files" parts and a "warehouses" value
// for each of them, in the same order.
func (h *UploadHandler) UploadPerWarehouse(c *gin.Context) {
	month, ok := response.Month(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form", "details": err.Error()})
		return
	}
	form := c.Request.MultipartForm
	files := form.File["files"]
	warehouses := form.Value["warehouses"]
	if len(files) != len(warehouses) {
		err := custom_error.NewValidationError("warehouses",
			fmt.Sprintf("got %d files but %d warehouse assignments", len(files), len(warehouses)))
		response.Error(c, h.logger, "Invalid upload", err)
		return
	}

	sources := make([]Source, 0, len(files))
	for i, fh := range files {
		f, err := openPart(fh)
		if err != nil {
			response.Error(c, h.logger, "Unable to read uploaded file", err)
			return
		}
		defer f.Close()
		sources = append(sources, Source{Name: fh.Filename, Reader: f, Warehouse: warehouses[i]})
	}

	result, err := h.service.UploadPerWarehouse(c.Request.Context(), month, sources)
	if err != nil {
		response.Error(c, h.logger, "Upload failed", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *UploadHandler) UploadUnified(c *gin.Context) {
	month, ok := response.Month(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "File is required", "details": err.Error()})
		return
	}
	f, err := openPart(fh)
	if err != nil {
		response.Error(c, h.logger, "Unable to read uploaded file", err)
		return
	}
	defer f.Close()

	result, err := h.service.UploadUnified(c.Request.Context(), month, Source{Name: fh.Filename, Reader: f})
	if err != nil {
		response.Error(c, h.logger, "Upload failed", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func openPart(fh *multipart.FileHeader) (io.ReadCloser, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	return f, nil
}
