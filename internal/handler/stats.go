package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/UzairFarooq1/NXS-jobcard/internal/repository"
	"github.com/UzairFarooq1/NXS-jobcard/pkg/response"
)

// StatsHandler exposes operational statistics about the submission service.
type StatsHandler struct {
	jobCardRepo repository.JobCardRepository
	dbType      string // sqlite or mysql
	startTime   time.Time
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(jobCardRepo repository.JobCardRepository, dbType string) *StatsHandler {
	return &StatsHandler{
		jobCardRepo: jobCardRepo,
		dbType:      dbType,
		startTime:   time.Now(),
	}
}

// GetStats handles GET /api/v1/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	// System info
	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)
	stats["db_type"] = h.dbType

	// Memory stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":   float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":     float64(memStats.Sys) / 1024 / 1024,
		"num_gc":     memStats.NumGC,
		"goroutines": runtime.NumGoroutine(),
	}

	// Job card stats
	if h.jobCardRepo != nil {
		repoStats, err := h.jobCardRepo.GetStats(ctx)
		if err == nil {
			repoStats["status"] = "connected"
			stats["job_cards"] = repoStats
		} else {
			stats["job_cards"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		}
	} else {
		stats["job_cards"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	response.OK(w, stats)
}
