package health

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"strconv"
	"time"

	"yardsale-board/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	StatusOK    = "ok"
	StatusIssue = "issue"

	depConnected    = "connected"
	depDisconnected = "disconnected"
	depDisabled     = "disabled"
	depError        = "error"
	depReachable    = "reachable"
	depUnreachable  = "unreachable"
)

// DBPinger is the optional ledger database.
type DBPinger interface {
	Ping() error
}

// Checker gathers health for /health/json. Pings maps a dependency name to a URL that
// is fetched with a short timeout; it may be empty.
type Checker struct {
	Rdb         *redis.Client
	DB          DBPinger
	Pings       map[string]string
	PingTimeout time.Duration
}

type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	AllocMB  int `json:"allocMb"`
	HeapInMB int `json:"heapInuseMb"`
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
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// Collect reports Redis (required), the ledger database (optional) and any HTTP pings.
// Status is "ok" only when Redis is connected and a configured database answers.
func (h *Checker) Collect(ctx context.Context) CollectResult {
	result := CollectResult{Dependencies: make(map[string]DepStatus)}

	dbStatus := DepStatus{Status: depDisabled}
	if h.DB != nil {
		start := time.Now()
		if err := h.DB.Ping(); err == nil {
			dbStatus = DepStatus{Status: depConnected, PingMs: since(start)}
		} else {
			dbStatus.Status = depError
		}
	}
	result.Dependencies["database"] = dbStatus

	redisStatus := DepStatus{Status: depDisconnected}
	stats := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	startTimeMs := time.Now().UnixMilli()
	if h.Rdb != nil {
		start := time.Now()
		if err := h.Rdb.Ping(ctx).Err(); err == nil {
			redisStatus = DepStatus{Status: depConnected, PingMs: since(start)}
			startTimeMs = h.readTraffic(ctx, &stats, startTimeMs)
		} else {
			redisStatus.Status = depError
		}
	}
	result.Dependencies["redis"] = redisStatus
	result.Traffic = stats

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptimeSec := (time.Now().UnixMilli() - startTimeMs) / 1000
	if uptimeSec < 0 {
		uptimeSec = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptimeSec,
		Memory:        MemoryInfo{AllocMB: int(m.Alloc / 1024 / 1024), HeapInMB: int(m.HeapInuse / 1024 / 1024)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	names := make([]string, 0, len(h.Pings))
	for name := range h.Pings {
		names = append(names, name)
	}
	sort.Strings(names)
	timeout := h.PingTimeout
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	for _, name := range names {
		ms := httpPing(ctx, h.Pings[name], timeout)
		st := depUnreachable
		if ms != nil {
			st = depReachable
		}
		result.Dependencies[name] = DepStatus{Status: st, PingMs: ms}
	}

	result.Status = StatusIssue
	if redisStatus.Status == depConnected && dbStatus.Status != depError {
		result.Status = StatusOK
	}
	return result
}

// readTraffic fills stats from the middleware counters and returns the recorded start time.
func (h *Checker) readTraffic(ctx context.Context, stats *TrafficInfo, startTimeMs int64) int64 {
	vals, err := h.Rdb.MGet(ctx, middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime,
		middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq).Result()
	if err != nil {
		return startTimeMs
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	if t, err := strconv.ParseInt(str(4), 10, 64); err == nil {
		startTimeMs = t
	} else {
		h.Rdb.Set(ctx, middleware.KeyStartTime, startTimeMs, 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(str(0))
	stats.FailedCount, _ = strconv.Atoi(str(1))
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	if countSum, _ := strconv.Atoi(str(3)); countSum > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(countSum), 'f', 2, 64)
	}
	if last := str(5); last != "" {
		var lastReq map[string]interface{}
		if json.Unmarshal([]byte(last), &lastReq) == nil {
			stats.LastRequest = lastReq
		}
	}
	return startTimeMs
}

func since(start time.Time) *int64 {
	ms := time.Since(start).Milliseconds()
	return &ms
}

func httpPing(ctx context.Context, url string, timeout time.Duration) *int64 {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	return since(start)
}
