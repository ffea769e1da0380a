package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"envmonitor-service/internal/models"
)

// authOnly verifies the bearer credential without touching the quota gate.
// Dashboard reads are local and cheap; only upstream-calling endpoints pay
// for a counter round trip.
func (h *Handler) authOnly(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid authorization header"})
		return "", false
	}
	userID, err := h.verifier.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return "", false
	}
	return userID, true
}

func listLimit(c *gin.Context) int {
	limit := 100
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 500 {
		limit = 500
	}
	return limit
}

// GetAnomalies lists recent anomalies, unresolved first.
func (h *Handler) GetAnomalies(c *gin.Context) {
	if _, ok := h.authOnly(c); !ok {
		return
	}
	anomalies, err := h.store.GetAnomalies(c.Request.Context(), listLimit(c))
	if err != nil {
		h.logger.Errorf("Get anomalies failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load anomalies"})
		return
	}
	if anomalies == nil {
		anomalies = []models.Anomaly{}
	}
	c.JSON(http.StatusOK, anomalies)
}

// GetPredictions lists predictions still inside their validity window.
func (h *Handler) GetPredictions(c *gin.Context) {
	if _, ok := h.authOnly(c); !ok {
		return
	}
	predictions, err := h.store.GetValidPredictions(c.Request.Context(), listLimit(c))
	if err != nil {
		h.logger.Errorf("Get predictions failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load predictions"})
		return
	}
	if predictions == nil {
		predictions = []models.Prediction{}
	}
	c.JSON(http.StatusOK, predictions)
}

// GetRecentSamples lists the newest environmental samples.
func (h *Handler) GetRecentSamples(c *gin.Context) {
	if _, ok := h.authOnly(c); !ok {
		return
	}
	samples, err := h.store.GetRecentSamples(c.Request.Context(), listLimit(c))
	if err != nil {
		h.logger.Errorf("Get samples failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load samples"})
		return
	}
	if samples == nil {
		samples = []models.EnvironmentalSample{}
	}
	c.JSON(http.StatusOK, samples)
}
