// Package metrics содержит счётчики Prometheus для HTTP слоя и доменных отказов
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"erp-golang/internal/errs"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erp_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "erp_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DomainRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erp_domain_rejections_total",
			Help: "Total number of writes rejected by domain invariants",
		},
		[]string{"component", "kind"},
	)
)

// ErrorKind — метка для доменной ошибки
func ErrorKind(err error) string {
	var (
		dup        *errs.DuplicateSequenceError
		unknown    *errs.UnknownComponentTypeError
		transition *errs.InvalidStatusTransitionError
	)

	switch {
	case errors.As(err, &dup):
		return "duplicate_sequence"
	case errors.As(err, &unknown):
		return "unknown_component_type"
	case errors.As(err, &transition):
		return "invalid_status_transition"
	case errors.Is(err, errs.ErrValidation):
		return "validation"
	case errors.Is(err, errs.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

// RecordRejection учитывает только доменные отказы, инфраструктурные ошибки пропускаются
func RecordRejection(component string, err error) {
	if err == nil {
		return
	}
	kind := ErrorKind(err)
	if kind == "internal" || kind == "not_found" {
		return
	}
	DomainRejections.WithLabelValues(component, kind).Inc()
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
