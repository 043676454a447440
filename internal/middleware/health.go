package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"time"
)

const checkTimeout = 2 * time.Second

type HealthChecker interface {
	Check(ctx context.Context) error
}

// DatabaseHealthChecker pings the history store.
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// CheckerFunc adapts a function to HealthChecker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

type healthReport struct {
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []checkResult `json:"checks"`
}

type checkResult struct {
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	LatencyMs float64 `json:"latencyMs"`
	Error     string  `json:"error,omitempty"`
}

// HealthHandler runs every checker in name order, each bounded by its own
// timeout. Any failure turns the response into a 503.
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	names := make([]string, 0, len(checkers))
	for name := range checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		report := healthReport{Status: "up", Timestamp: time.Now().UTC(), Checks: []checkResult{}}
		for _, name := range names {
			res := runCheck(r.Context(), name, checkers[name])
			if res.Status != "up" {
				report.Status = "down"
			}
			report.Checks = append(report.Checks, res)
		}

		status := http.StatusOK
		if report.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	}
}

func runCheck(ctx context.Context, name string, c HealthChecker) checkResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := c.Check(ctx)
	res := checkResult{Name: name, Status: "up", LatencyMs: float64(time.Since(start).Microseconds()) / 1000}
	if err != nil {
		res.Status, res.Error = "down", err.Error()
	}
	return res
}

// ReadinessHandler reports ready once the router is serving.
func ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready", "timestamp": time.Now().UTC()})
}

func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
