package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"rwa-backend/internal/domain"
	"rwa-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DBPinger is optional for health check. If nil, database is reported as disconnected.
type DBPinger interface {
	Ping() error
}

// LedgerStats is optional. If nil, the ledger section is omitted.
type LedgerStats interface {
	Snapshot(ctx context.Context) (LedgerSnapshot, error)
}

// CollectResult is the shape served by /health/json and embedded in the dashboard.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
	Ledger       *LedgerSnapshot      `json:"ledger,omitempty"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	Alloc    int `json:"alloc"`
	HeapUsed int `json:"heapUsed"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

// LedgerSnapshot summarises ledger and escrow state for operators.
type LedgerSnapshot struct {
	Assets           int64            `json:"assets"`
	Leases           map[string]int64 `json:"leases"`
	EscrowBalance    int64            `json:"escrowBalance"`
	HolderSyncFailed int64            `json:"holderSyncFailed"`
	ExpiredUnswept   int64            `json:"expiredUnswept"`
	SnapshotAt       time.Time        `json:"snapshotAt"`
	Error            string           `json:"error,omitempty"`
}

// GormLedgerStats reads the snapshot straight from the ledger tables.
type GormLedgerStats struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (g *GormLedgerStats) Snapshot(ctx context.Context) (LedgerSnapshot, error) {
	now := time.Now().UTC()
	if g.Now != nil {
		now = g.Now()
	}
	db := g.DB.WithContext(ctx)
	snap := LedgerSnapshot{Leases: map[string]int64{}, SnapshotAt: now}

	if err := db.Model(&domain.Asset{}).Count(&snap.Assets).Error; err != nil {
		return snap, err
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&domain.Lease{}).Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return snap, err
	}
	for _, r := range rows {
		snap.Leases[r.Status] = r.Count
	}

	var escrow domain.PaymentBalance
	if err := db.Where("account = ?", domain.EscrowAccount).Limit(1).Find(&escrow).Error; err != nil {
		return snap, err
	}
	snap.EscrowBalance = escrow.Amount

	if err := db.Model(&domain.AuditEvent{}).
		Where("kind = ?", domain.EventHolderSyncFailed).
		Count(&snap.HolderSyncFailed).Error; err != nil {
		return snap, err
	}
	if err := db.Model(&domain.Lease{}).
		Where("status = ? AND end_time < ?", domain.LeaseActive, now).
		Count(&snap.ExpiredUnswept).Error; err != nil {
		return snap, err
	}
	return snap, nil
}

// CollectHealth gathers health data from Redis, the optional DB and the optional ledger stats.
func CollectHealth(ctx context.Context, rdb *redis.Client, db DBPinger, ledger LedgerStats) CollectResult {
	result := CollectResult{
		Dependencies: make(map[string]DepStatus),
	}

	dbStatus, redisStatus := "disconnected", "disconnected"
	var dbPingMs, redisPingMs *int64
	stats := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	startTimeMs := time.Now().UnixMilli()

	// Probes run concurrently.
	g, gctx := errgroup.WithContext(ctx)
	if db != nil {
		g.Go(func() error {
			start := time.Now()
			if err := db.Ping(); err != nil {
				dbStatus = "error"
				return nil
			}
			ms := time.Since(start).Milliseconds()
			dbPingMs = &ms
			dbStatus = "connected"
			return nil
		})
	}
	if rdb != nil {
		g.Go(func() error {
			start := time.Now()
			if err := rdb.Ping(gctx).Err(); err != nil {
				redisStatus = "error"
				return nil
			}
			ms := time.Since(start).Milliseconds()
			redisPingMs = &ms
			redisStatus = "connected"
			startTimeMs = readTraffic(gctx, rdb, &stats, startTimeMs)
			return nil
		})
	}
	_ = g.Wait()
	result.Dependencies["database"] = DepStatus{Status: dbStatus, PingMs: dbPingMs}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPingMs}
	result.Traffic = stats

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptimeSec := (time.Now().UnixMilli() - startTimeMs) / 1000
	if uptimeSec < 0 {
		uptimeSec = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptimeSec,
		Memory:        MemoryInfo{Alloc: int(m.Alloc / 1024 / 1024), HeapUsed: int(m.HeapInuse / 1024 / 1024)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	if ledger != nil && dbStatus == "connected" {
		snap, err := ledger.Snapshot(ctx)
		if err != nil {
			snap.Error = err.Error()
		}
		result.Ledger = &snap
	}

	if dbStatus == "connected" && redisStatus == "connected" {
		result.Status = "ok"
	} else {
		result.Status = "issue"
	}
	return result
}

// readTraffic fills stats from the counters HealthMarker maintains and returns the
// recorded process start time.
func readTraffic(ctx context.Context, rdb *redis.Client, stats *TrafficInfo, startTimeMs int64) int64 {
	totalReq, _ := rdb.Get(ctx, middleware.KeyReqTotal).Result()
	totalErr, _ := rdb.Get(ctx, middleware.KeyReqErrors).Result()
	totalTime, _ := rdb.Get(ctx, middleware.KeyResTime).Result()
	resCount, _ := rdb.Get(ctx, middleware.KeyResCount).Result()
	startTimeStr, _ := rdb.Get(ctx, middleware.KeyStartTime).Result()
	lastReqStr, _ := rdb.Get(ctx, middleware.KeyLastReq).Result()

	if startTimeStr != "" {
		if t, err := strconv.ParseInt(startTimeStr, 10, 64); err == nil {
			startTimeMs = t
		}
	} else {
		rdb.Set(ctx, middleware.KeyStartTime, startTimeMs, 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(totalReq)
	stats.FailedCount, _ = strconv.Atoi(totalErr)
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(totalTime, 64)
	countSum, _ := strconv.Atoi(resCount)
	if countSum > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(countSum), 'f', 2, 64)
	}
	if lastReqStr != "" {
		var lastReq map[string]interface{}
		_ = json.Unmarshal([]byte(lastReqStr), &lastReq)
		stats.LastRequest = lastReq
	}
	return startTimeMs
}
