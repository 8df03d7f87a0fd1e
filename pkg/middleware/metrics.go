package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics считает запросы по шаблону маршрута, а не по сырому URI.
// Метрики регистрируются в registerer, поэтому вызывать Metrics можно
// только один раз на реестр.
func Metrics(registerer prometheus.Registerer) echo.MiddlewareFunc {
	factory := promauto.With(registerer)
	httpRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "painel",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests broken down by route, method and status code.",
	}, []string{"route", "method", "code"})

	httpLatency := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "painel",
		Subsystem: "http",
		Name:      "latency_seconds",
		Help:      "Latency distribution for HTTP requests.",
		Buckets: []float64{
			0.001, 0.005, 0.01, 0.05,
			0.1, 0.5, 1, 5,
		},
	}, []string{"route", "method"})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			httpRequests.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			httpLatency.WithLabelValues(route, c.Request().Method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
