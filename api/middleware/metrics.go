package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/procureflow/procureflow-backend/pkg/metrics"
)

// Metrics records request duration and counts labeled by method and status.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			m.Observe(r.Method, strconv.Itoa(rec.status), time.Since(start))
		})
	}
}
