// labmarker-server exposes the blood-marker extraction pipeline as a webhook
// for automation platforms.
//
// Endpoints:
//
//	POST /        process a PDF: {"pdf_base64": "...", "filename": "report.pdf"}
//	GET  /health  liveness probe with processor information
//
// The response always carries a status field; extraction shortfalls surface
// as warnings inside extraction_stats, never as HTTP failures.
//
// Configuration is the same YAML file the CLI uses (-config flag).
// Environment:
//
//	PORT                            listen port (default 8080)
//	LABMARKER_API_KEY               when set, requests must carry it in X-API-Key
//	GOOGLE_APPLICATION_CREDENTIALS  Document AI credentials
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/vitalab/labmarker/pkg/docai"
	"github.com/vitalab/labmarker/pkg/labreport"
	"github.com/vitalab/labmarker/pkg/refcatalog"
)

type serverConfig struct {
	docai.Config `yaml:",inline"`
	Catalog      string `yaml:"catalog"`
}

type processRequest struct {
	PDFBase64 string `json:"pdf_base64" binding:"required"`
	Filename  string `json:"filename"`
}

func main() {
	configPath := flag.String("config", "config.yml", "Path to the config YAML file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	data, err := os.ReadFile(*configPath)
	if err != nil {
		logger.Fatal("failed to read config", zap.String("path", *configPath), zap.Error(err))
	}
	var cfg serverConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Fatal("failed to parse config", zap.Error(err))
	}

	ctx := context.Background()
	client, err := docai.NewClient(ctx, &cfg.Config, logger)
	if err != nil {
		logger.Fatal("failed to create Document AI client", zap.Error(err))
	}
	defer client.Close()

	var catalog refcatalog.Catalog
	if cfg.Catalog != "" {
		catalog, err = refcatalog.Load(cfg.Catalog)
		if err != nil {
			logger.Warn("reference catalog unavailable, continuing without validation",
				zap.String("path", cfg.Catalog), zap.Error(err))
		} else {
			logger.Info("loaded reference catalog", zap.Int("markers", len(catalog)))
		}
	}

	service := labreport.NewService(client, labreport.NewParser(catalog, logger), logger)
	router := newRouter(service, cfg.ProcessorID, os.Getenv("LABMARKER_API_KEY"), logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newRouter(service *labreport.Service, processorID, apiKey string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), corsHeaders())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"service":      "labmarker",
			"processor_id": processorID,
		})
	})

	router.OPTIONS("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/", func(c *gin.Context) {
		if apiKey != "" && c.GetHeader("X-API-Key") != apiKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid or missing API key",
			})
			return
		}

		var req processRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Missing required field: pdf_base64",
			})
			return
		}

		filename := req.Filename
		if filename == "" {
			filename = "medical_report.pdf"
		}
		reqLog := logger.With(
			zap.String("request_id", c.GetString("request_id")),
			zap.String("filename", filename))
		reqLog.Info("processing request")

		result := service.ProcessBase64(c.Request.Context(), req.PDFBase64)
		result.Filename = filename

		if result.Status == "success" {
			reqLog.Info("processing finished",
				zap.Int("markers", result.Stats.TotalMarkersFound),
				zap.Float64("confidence", result.Stats.ExtractionConfidence))
		} else {
			reqLog.Error("processing failed", zap.String("message", result.Message))
		}
		c.JSON(http.StatusOK, result)
	})

	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func corsHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
		c.Next()
	}
}
