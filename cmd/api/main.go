// Command api runs the JSON API for the spreadsheet consolidator.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"consolidador/adapters/excel"
	"consolidador/adapters/staging"
	"consolidador/app"
	"consolidador/domain/core"
	"consolidador/internal"
	"consolidador/internal/config"
	"consolidador/internal/session"
	"consolidador/ports"
)

func main() {
	godotenv.Load()

	logger := internal.NewDefaultLogger()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("[API] Invalid configuration: %v", err)
		os.Exit(1)
	}

	db, dialect, err := staging.Open(cfg.Database.URL, cfg.Database.DataDir)
	if err != nil {
		logger.Error("[API] Failed to open staging database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	jobs, err := staging.NewJobRepository(context.Background(), db, dialect)
	if err != nil {
		logger.Error("[API] Failed to prepare job repository: %v", err)
		os.Exit(1)
	}

	service := app.NewConsolidationService(
		excel.NewReader(),
		staging.NewStore(db, dialect),
		jobs,
		logger,
	)
	results := session.NewStore[*app.Result](cfg.Session.TTL)
	defer results.Close()

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = cfg.Uploads.MaxFileSize

	api := &apiServer{
		cfg:     cfg,
		service: service,
		results: results,
		logger:  logger,
	}

	router.POST("/api/consolidate", api.handleConsolidate)
	router.GET("/api/results/:id/download", api.handleDownload)
	router.GET("/api/jobs", api.handleJobs)
	router.GET("/api/healthz", api.handleHealthz)

	addr := ":" + cfg.Server.Port
	logger.Info("[API] Starting consolidation API on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.Error("[API] Server stopped: %v", err)
		os.Exit(1)
	}
}

type apiServer struct {
	cfg     *config.Config
	service *app.ConsolidationService
	results *session.Store[*app.Result]
	logger  *internal.Logger
}

func (s *apiServer) handleConsolidate(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read multipart form"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}
	if s.cfg.Uploads.MaxFiles > 0 && len(files) > s.cfg.Uploads.MaxFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d files per request", s.cfg.Uploads.MaxFiles)})
		return
	}

	var sources []ports.Source
	for _, header := range files {
		if !excel.IsSupportedFilename(header.Filename) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported file: %s", header.Filename)})
			return
		}
		if s.cfg.Uploads.MaxFileSize > 0 && header.Size > s.cfg.Uploads.MaxFileSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(
				"file %s (%.1f MB) exceeds the size limit", header.Filename,
				float64(header.Size)/(1024*1024))})
			return
		}
		sources = append(sources, ports.Source{
			Name: header.Filename,
			Open: func() (io.ReadCloser, error) { return header.Open() },
		})
	}

	result, err := s.service.Consolidate(c.Request.Context(), sources)
	if err != nil {
		if core.IsInputError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("[API] Consolidation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "consolidation failed"})
		return
	}

	id := s.results.Put(result)
	c.JSON(http.StatusOK, gin.H{
		"result_id":      id.String(),
		"job_id":         result.JobID.String(),
		"files":          result.FileNames,
		"skipped_files":  result.SkippedFiles,
		"row_count":      result.Consolidated.RowCount(),
		"column_count":   len(result.Consolidated.Columns),
		"table_count":    len(result.Manifest),
		"anomaly_report": result.AnomalyReport,
		"validation":     result.Validation.Summary,
		"download_url":   "/api/results/" + id.String() + "/download",
	})
}

func (s *apiServer) handleDownload(c *gin.Context) {
	id, err := core.ParseResultID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid result id"})
		return
	}
	result, ok := s.results.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found or expired"})
		return
	}

	data, err := excel.WriteWorkbook(result.Consolidated)
	if err != nil {
		s.logger.Error("[API] Failed to build workbook for %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", excel.OutputFileName))
	c.Data(http.StatusOK, excel.ContentTypeXLSX, data)
}

func (s *apiServer) handleJobs(c *gin.Context) {
	jobs, err := s.service.ListJobs(c.Request.Context(), 50)
	if err != nil {
		s.logger.Error("[API] Failed to list jobs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (s *apiServer) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
