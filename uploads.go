package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pitangasoft/compras_backend/config"
	"github.com/pitangasoft/compras_backend/importer"
	"github.com/pitangasoft/compras_backend/utils"
)

// Uploads above this size are rejected before parsing.
const maxUploadBytes = 20 << 20

// importPurchasesHandler receives a purchasing spreadsheet (csv, txt or
// xlsx) as multipart form data and imports it as purchase orders for the
// given branch. A rejected batch comes back as 422 with the failure reason;
// a processed batch comes back as 200 with the imported/skipped counts.
func importPurchasesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "importPurchases")
		defer span.End()

		logger := config.GetLogger()

		branchId, err := strconv.Atoi(c.PostForm("branch_id"))
		if err != nil || branchId <= 0 {
			// Fall back to the X-Branch-Id header the tenant middleware parsed.
			branchId, _ = utils.GetBranchIdFromContext(ctx)
		}
		if branchId <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "branch_id form field is required"})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file form field is required"})
			return
		}
		if fileHeader.Size > maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the 20MB upload limit"})
			return
		}

		// Keep a copy of the original upload when an archive dir is
		// configured, so rejected batches can be replayed after a fix.
		if dir := strings.TrimSpace(os.Getenv("UPLOAD_ARCHIVE_DIR")); dir != "" {
			archived := filepath.Join(dir, utils.GenerateUniqueFilename()+strings.ToLower(filepath.Ext(fileHeader.Filename)))
			if err := c.SaveUploadedFile(fileHeader, archived); err != nil {
				config.LogError(logger, "uploads.go", "importPurchasesHandler", "archive upload", fileHeader.Filename, err)
			}
		}

		file, err := fileHeader.Open()
		if err != nil {
			config.LogError(logger, "uploads.go", "importPurchasesHandler", "open upload", fileHeader.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded file"})
			return
		}
		defer file.Close()

		batch, err := importer.ReadBatch(fileHeader.Filename, file)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		report, err := importer.ImportPurchases(ctx, branchId, batch)
		if err != nil {
			config.LogError(logger, "uploads.go", "importPurchasesHandler", "import", fileHeader.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if report.FailureReason != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"report":  report,
				"summary": report.Summary(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"report":  report,
			"summary": report.Summary(),
		})
	}
}
