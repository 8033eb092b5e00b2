package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/dto"
	"github.com/spendinganalytics/spending_analytics_app/internal/middleware"
	"github.com/spendinganalytics/spending_analytics_app/pkg/config"
)

// importHandler handles statement file uploads and bulk data management.
type importHandler struct {
	importerService portssvc.ImporterSvc
	dataService     portssvc.DataSvc
}

func newImportHandler(is portssvc.ImporterSvc, ds portssvc.DataSvc) *importHandler {
	return &importHandler{
		importerService: is,
		dataService:     ds,
	}
}

// registerImportRoutes registers the statement upload and data wipe routes.
func registerImportRoutes(rg *gin.RouterGroup, cfg *config.Config, importerService portssvc.ImporterSvc, dataService portssvc.DataSvc) {
	h := newImportHandler(importerService, dataService)

	rg.POST("/import", importRateLimiter(cfg), h.importStatements)
	rg.DELETE("/import/delete-all", h.deleteAllData)
}

// importStatements accepts one or more spreadsheet files under the multipart
// field "files" and runs them through the import pipeline.
func (h *importHandler) importStatements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	form, err := c.MultipartForm()
	if err != nil {
		logger.Warn("Failed to parse multipart form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form: " + err.Error()})
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided under field 'files'"})
		return
	}

	uploads := make([]dto.FileUpload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			logger.Warn("Failed to open uploaded file", slog.String("file", fh.Filename), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file " + fh.Filename})
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			logger.Warn("Failed to read uploaded file", slog.String("file", fh.Filename), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file " + fh.Filename})
			return
		}
		uploads = append(uploads, dto.FileUpload{Filename: fh.Filename, Content: content})
	}

	logger.Info("Received import request", slog.Int("file_count", len(uploads)))

	result, err := h.importerService.ImportBatch(c.Request.Context(), uploads)
	if err != nil {
		logger.Error("Import batch failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import statements"})
		return
	}

	logger.Info("Import batch completed",
		slog.Int("inserted", result.TotalInserted),
		slog.Int("skipped", result.TotalSkippedDuplicates))
	c.JSON(http.StatusOK, result)
}

// deleteAllData wipes every imported transaction and reports the count.
func (h *importHandler) deleteAllData(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	result, err := h.dataService.DeleteAllData(c.Request.Context())
	if err != nil {
		logger.Error("Failed to delete all data", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete all data"})
		return
	}
	c.JSON(http.StatusOK, result)
}
