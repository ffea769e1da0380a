package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"envmonitor-service/internal/logging"
)

func NewRouter(h *Handler, logger *logging.Logger, basePath string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())
	r.Use(RequestLoggingMiddleware(logger))

	api := r.Group(basePath)
	{
		// gated pipeline endpoints
		api.POST("/fetch-environmental-data", h.FetchEnvironmentalData)
		api.POST("/detect-anomalies", h.DetectAnomalies)
		api.POST("/predict-conditions", h.PredictConditions)
		api.POST("/analyze-patterns", h.AnalyzePatterns)

		// dashboard reads
		api.GET("/anomalies", h.GetAnomalies)
		api.GET("/predictions", h.GetPredictions)
		api.GET("/samples/recent", h.GetRecentSamples)
	}

	r.GET("/ws/anomalies", h.AnomalyFeed)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
