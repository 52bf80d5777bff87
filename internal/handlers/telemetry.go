package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const errNoTelemetry = "no telemetry test has run yet"

// @Summary      Run a telemetry test
// @Description  Simulates one commissioning round-trip; values are random within fixed ranges.
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  models.TelemetrySnapshot
// @Router       /api/v1/telemetry/run [post]
func (h *Handler) runTelemetry(c *gin.Context) {
	snap := h.services.Telemetry.RunTest()
	if h.log != nil {
		h.log.Debugw("telemetry_test_run", "run_id", snap.RunID, "bypass", snap.BypassState)
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Latest telemetry snapshot
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  models.TelemetrySnapshot
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/telemetry/latest [get]
func (h *Handler) latestTelemetry(c *gin.Context) {
	snap, ok := h.services.Telemetry.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoTelemetry})
		return
	}
	c.JSON(http.StatusOK, snap)
}
