package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dev0b1/selah-sub001/internal/metrics"
)

// MetricsHandler serves pipeline performance counters.
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func stageJSON(s metrics.StageSnapshot) gin.H {
	return gin.H{
		"requests":     s.Requests,
		"success":      s.Success,
		"errors":       s.Errors,
		"success_rate": s.SuccessRate,
		"latency": gin.H{
			"avg": s.AvgLatency.String(),
			"max": s.MaxLatency.String(),
			"min": s.MinLatency.String(),
		},
	}
}

// GetMetrics returns the current counter snapshot.
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	snapshot := metrics.Global.GetSnapshot()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := gin.H{
		"generation": stageJSON(snapshot.Generation),
		"synthesis":  stageJSON(snapshot.Synthesis),
		"mix":        stageJSON(snapshot.Mix),
		"script_cache": gin.H{
			"hits":     snapshot.CacheHits,
			"misses":   snapshot.CacheMisses,
			"hit_rate": snapshot.CacheHitRate,
		},
		"jobs": gin.H{
			"total":  snapshot.CompositionJobs,
			"errors": snapshot.CompositionErrors,
		},
		"system": gin.H{
			"memory": gin.H{
				"alloc_mb":       memStats.Alloc / 1024 / 1024,
				"total_alloc_mb": memStats.TotalAlloc / 1024 / 1024,
				"sys_mb":         memStats.Sys / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"goroutines": runtime.NumGoroutine(),
		},
		"timestamp": snapshot.Timestamp.Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, response)
}

// ResetMetrics clears all counters.
func (h *MetricsHandler) ResetMetrics(c *gin.Context) {
	metrics.Global.Reset()
	c.JSON(http.StatusOK, gin.H{
		"message": "Metrics reset successfully",
	})
}

// HealthCheck reports service health from the synthesis error rate.
func (h *MetricsHandler) HealthCheck(c *gin.Context) {
	snapshot := metrics.Global.GetSnapshot()

	healthy := true
	reason := "ok"

	if snapshot.Synthesis.Requests > 10 && snapshot.Synthesis.SuccessRate < 50 {
		healthy = false
		reason = "high synthesis error rate"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"healthy":   healthy,
		"reason":    reason,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
