package middleware

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/DINUSHA26/PrimeAuto/pkg/metrics"
)

const unmatchedRoute = "unmatched"

// MetricsMiddleware считает HTTP запросы и их длительность по шаблону маршрута
func MetricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured := httpsnoop.CaptureMetrics(next, w, r)

			route := routeTemplate(r)
			m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(captured.Code)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(captured.Duration.Seconds())
		})
	}
}

// routeTemplate возвращает шаблон маршрута, чтобы не плодить метки по ID
func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return unmatchedRoute
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return unmatchedRoute
	}
	return tpl
}
