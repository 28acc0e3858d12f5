// Package checkout собирает HTTP-приложение оформления оплаты лицензий.
package checkout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/license-checkout/internal/http/middlewarectx"
	"github.com/magabrotheeeer/license-checkout/internal/metrics"
)

// Handlers обработчики, которые монтируются в роутер. Nil-обработчик не регистрируется.
type Handlers struct {
	CreateOrder   http.Handler
	VerifyPayment http.Handler
	ReadOrder     http.Handler
	Webhook       http.Handler
	Health        http.Handler
}

// Limits token bucket для платёжных эндпоинтов и для чтения заказов.
type Limits struct {
	Payments *rate.Limiter
	Lookup   *rate.Limiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, h Handlers, limits Limits,
	m *metrics.Metrics, gatherer prometheus.Gatherer) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)
	if m != nil {
		r.Use(m.Middleware)
	}

	// Метод проверяется до лимитера.
	payments := middlewarectx.RateLimitMiddleware(logger, limits.Payments)
	r.With(middlewarectx.AllowMethod(http.MethodPost), payments).Handle("/create-order", h.CreateOrder)
	r.With(middlewarectx.AllowMethod(http.MethodPost), payments).Handle("/verify-payment", h.VerifyPayment)

	if h.ReadOrder != nil {
		r.With(middlewarectx.RateLimitMiddleware(logger, limits.Lookup)).
			Get("/orders/{orderID}", h.ReadOrder.ServeHTTP)
	}
	if h.Webhook != nil {
		r.Post("/webhook", h.Webhook.ServeHTTP)
	}
	if h.Health != nil {
		r.Get("/health", h.Health.ServeHTTP)
	}

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
