package health

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is satisfied by *pgxpool.Pool and *cache.Cache
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db      Pinger
	cache   Pinger
	started time.Time
}

type HealthStatus struct {
	Status   string           `json:"status"`
	Database ComponentHealth  `json:"database"`
	Cache    *ComponentHealth `json:"cache,omitempty"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

type DetailedStatus struct {
	HealthStatus
	UptimeSeconds int64      `json:"uptime_seconds"`
	Host          *HostStats `json:"host,omitempty"`
}

type HostStats struct {
	MemoryUsedPercent float64 `json:"memory_used_percent"`
	MemoryTotalMB     uint64  `json:"memory_total_mb"`
	DiskUsedPercent   float64 `json:"disk_used_percent"`
	DiskFreeGB        float64 `json:"disk_free_gb"`
}

// NewHealthChecker builds a checker; cache may be nil
func NewHealthChecker(db Pinger, cache Pinger) *HealthChecker {
	return &HealthChecker{db: db, cache: cache, started: time.Now()}
}

// CheckBasic pings the database. The service is unhealthy only when the
// database is; a failing cache degrades it.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "healthy", Database: check(ctx, h.db)}
	if status.Database.Status != "healthy" {
		status.Status = "unhealthy"
		return status
	}
	if h.cache != nil {
		c := check(ctx, h.cache)
		status.Cache = &c
		if c.Status != "healthy" {
			status.Status = "degraded"
		}
	}
	return status
}

// CheckDetailed adds uptime and host memory and disk usage
func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	return DetailedStatus{
		HealthStatus:  h.CheckBasic(ctx),
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Host:          hostStats(),
	}
}

func check(ctx context.Context, p Pinger) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	res := ComponentHealth{Status: "healthy", ResponseTime: time.Since(start).Milliseconds()}
	if err != nil {
		res.Status = "unhealthy"
		res.Error = err.Error()
	}
	return res
}

func hostStats() *HostStats {
	stats := &HostStats{}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryUsedPercent = vm.UsedPercent
		stats.MemoryTotalMB = vm.Total / 1024 / 1024
	}
	if du, err := disk.Usage("/"); err == nil {
		stats.DiskUsedPercent = du.UsedPercent
		stats.DiskFreeGB = float64(du.Free) / 1024 / 1024 / 1024
	}
	return stats
}
