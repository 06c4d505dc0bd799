package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/nvasilakis/fintrack/internal/di"
	"github.com/nvasilakis/fintrack/internal/scheduler"
)

// SystemHandlers handles system-wide monitoring and operations endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	container   *di.Container
	scheduler   *scheduler.Scheduler
	jobs        *di.JobInstances
	startupTime time.Time
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	container *di.Container,
	sched *scheduler.Scheduler,
	jobs *di.JobInstances,
	startupTime time.Time,
) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		dataDir:     dataDir,
		container:   container,
		scheduler:   sched,
		jobs:        jobs,
		startupTime: startupTime,
	}
}

// HandleSystemStatus returns host and process status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuAvg, ramPercent := h.systemUsage()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := map[string]interface{}{
		"status":         "running",
		"uptime_seconds": int64(time.Since(h.startupTime).Seconds()),
		"cpu_percent":    cpuAvg,
		"ram_percent":    ramPercent,
		"disk":           h.diskUsage(),
		"process": map[string]interface{}{
			"alloc_mb":   m.Alloc / 1024 / 1024,
			"sys_mb":     m.Sys / 1024 / 1024,
			"num_gc":     m.NumGC,
			"goroutines": runtime.NumGoroutine(),
		},
		"event_subscribers": h.container.EventBus.SubscriberCount(),
	}

	h.writeJSON(w, response)
}

// HandleDatabaseStats returns database size and page statistics
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.container.FinanceDB.GetStats()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get database stats")
		http.Error(w, "Failed to get database stats", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"database":     stats,
		"last_checked": time.Now().Format(time.RFC3339),
	})
}

// HandleListBackups returns the available backup archives
func (h *SystemHandlers) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.container.BackupService.ListBackups()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list backups")
		http.Error(w, "Failed to list backups", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"backups": backups,
		"count":   len(backups),
	})
}

// HandleTriggerBackup creates a backup immediately
func (h *SystemHandlers) HandleTriggerBackup(w http.ResponseWriter, r *http.Request) {
	h.log.Info().Msg("Manual backup triggered")

	info, err := h.container.BackupService.CreateBackup()
	if err != nil {
		h.log.Error().Err(err).Msg("Manual backup failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"status": "success",
		"backup": info,
	})
}

// HandleTriggerMaintenance runs the maintenance job immediately
func (h *SystemHandlers) HandleTriggerMaintenance(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil || h.jobs.Maintenance == nil {
		h.log.Warn().Msg("Maintenance job not registered yet")
		h.writeJSON(w, map[string]string{
			"status":  "error",
			"message": "Maintenance job not registered",
		})
		return
	}

	h.log.Info().Msg("Manual maintenance triggered")

	if err := h.scheduler.RunNow(h.jobs.Maintenance); err != nil {
		h.log.Error().Err(err).Msg("Failed to trigger maintenance")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{
		"status":  "success",
		"message": "Maintenance triggered successfully",
	})
}

// systemUsage returns CPU and RAM usage percentages
func (h *SystemHandlers) systemUsage() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// diskUsage returns usage statistics for the data directory's filesystem
func (h *SystemHandlers) diskUsage() map[string]interface{} {
	usage, err := disk.Usage(h.dataDir)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get disk usage")
		return map[string]interface{}{}
	}

	return map[string]interface{}{
		"total_mb":     usage.Total / 1024 / 1024,
		"free_mb":      usage.Free / 1024 / 1024,
		"used_percent": usage.UsedPercent,
	}
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
