package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charles-oliveira/web-2/logger"
	"github.com/charles-oliveira/web-2/models"
	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

// Ready godoc
// @Summary Readiness check
// @Description Checks the database connection.
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /readyz [get]
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.log.WarnContext(ctx, "database not ready", logger.FieldError, err)
		c.JSON(http.StatusServiceUnavailable, models.HealthResponse{Status: "unavailable"})
		return
	}
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}
