package server

import (
	"net/http"

	"gymbook/internal/api"
	"gymbook/internal/db"
	"gymbook/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Database round trip
// @Description  Runs a constant query against the store and returns its rows.
// @Tags         system
// @Produce      json
// @Success      200 {array} db.PingRow
// @Failure      500 {object} api.ErrorResponse
// @Router       /ping [get]
func Ping(database *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Ping(c.Request.Context(), database)
		if err != nil {
			logger.WithError(err).Error("ping failed")
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database unavailable"})
			return
		}

		c.JSON(http.StatusOK, rows)
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
