package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/license-checkout/internal/cache"
	"github.com/magabrotheeeer/license-checkout/internal/config"
	"github.com/magabrotheeeer/license-checkout/internal/http/handlers/health"
	"github.com/magabrotheeeer/license-checkout/internal/http/handlers/payment/ordercreate"
	"github.com/magabrotheeeer/license-checkout/internal/http/handlers/payment/orderread"
	"github.com/magabrotheeeer/license-checkout/internal/http/handlers/payment/paymentverify"
	"github.com/magabrotheeeer/license-checkout/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/license-checkout/internal/http/middlewarectx"
	"github.com/magabrotheeeer/license-checkout/internal/lib/jwt"
	"github.com/magabrotheeeer/license-checkout/internal/lib/receipt"
	"github.com/magabrotheeeer/license-checkout/internal/lib/sl"
	"github.com/magabrotheeeer/license-checkout/internal/metrics"
	"github.com/magabrotheeeer/license-checkout/internal/migrations"
	"github.com/magabrotheeeer/license-checkout/internal/paymentprovider"
	"github.com/magabrotheeeer/license-checkout/internal/pricing"
	"github.com/magabrotheeeer/license-checkout/internal/rabbitmq"
	"github.com/magabrotheeeer/license-checkout/internal/services/order"
	"github.com/magabrotheeeer/license-checkout/internal/services/orderlookup"
	"github.com/magabrotheeeer/license-checkout/internal/services/verification"
	"github.com/magabrotheeeer/license-checkout/internal/services/webhook"
	"github.com/magabrotheeeer/license-checkout/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер и его подключения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	amqp   *amqp.Connection
	ch     *amqp.Channel
}

// New поднимает зависимости по конфигу и собирает роутер.
// PostgreSQL, Redis и RabbitMQ необязательны: пустой адрес отключает компонент.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.checkout.New"

	prices, err := pricing.New(cfg.Plans)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{logger: logger}
	ok := false
	defer func() {
		if !ok {
			app.close()
		}
	}()

	if cfg.StorageConnectionString != "" {
		app.db, err = storage.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = migrations.Run(app.db.DB, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		logger.Warn("storage connection string is empty, orders are not persisted")
	}

	if cfg.RedisConnection.Addr != "" {
		app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	var publisher *rabbitmq.Publisher
	if cfg.RabbitMQ.URL != "" {
		app.amqp, err = rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.ch, err = rabbitmq.SetupChannel(app.amqp, rabbitmq.Topology{
			Exchange:   cfg.RabbitMQ.Exchange,
			Queue:      cfg.RabbitMQ.Queue,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = rabbitmq.NewPublisher(app.ch, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	provider := paymentprovider.NewClient(
		cfg.PaymentProvider.KeyID,
		cfg.PaymentProvider.KeySecret,
		cfg.PaymentProvider.APIURL,
		cfg.PaymentProvider.Timeout,
	)

	orderOpts := []order.Option{order.WithMetrics(m)}
	verifyOpts := []verification.Option{verification.WithMetrics(m)}
	checks := map[string]health.Check{}
	var lookupCache orderlookup.Cache
	var lookupStore orderlookup.Store
	var webhookCache webhook.Cache

	if app.db != nil {
		orderOpts = append(orderOpts, order.WithStore(app.db))
		verifyOpts = append(verifyOpts, verification.WithStore(app.db))
		lookupStore = app.db
		checks["postgres"] = app.db.DB.PingContext
	}
	if app.cache != nil {
		orderOpts = append(orderOpts, order.WithCache(app.cache))
		lookupCache = app.cache
		webhookCache = app.cache
		checks["redis"] = func(ctx context.Context) error { return app.cache.Db.Ping(ctx).Err() }
	}
	if publisher != nil {
		verifyOpts = append(verifyOpts, verification.WithPublisher(publisher))
	}
	if cfg.ProvisioningToken.SecretKey != "" {
		verifyOpts = append(verifyOpts, verification.WithTokenMaker(
			jwt.NewMaker(cfg.ProvisioningToken.SecretKey, cfg.ProvisioningToken.TTL)))
	}

	orderService := order.New(logger, prices, provider, receipt.New(),
		cfg.PaymentProvider.Currency, cfg.PaymentProvider.Timeout, orderOpts...)
	verificationService := verification.New(logger, cfg.PaymentProvider.KeySecret, verifyOpts...)
	lookupService := orderlookup.New(logger, lookupCache, lookupStore, provider, cfg.PaymentProvider.Timeout)

	handlers := Handlers{
		CreateOrder:   ordercreate.New(logger, orderService),
		VerifyPayment: paymentverify.New(logger, verificationService),
		ReadOrder:     orderread.New(logger, lookupService),
		Health:        health.New(logger, checks),
	}
	if app.db != nil && cfg.PaymentProvider.WebhookSecret != "" {
		handlers.Webhook = paymentwebhook.New(logger,
			webhook.New(logger, app.db, webhookCache), cfg.PaymentProvider.WebhookSecret)
	} else {
		logger.Info("webhook endpoint disabled: needs storage and webhook secret")
	}

	router := chi.NewRouter()
	limits := Limits{
		Payments: middlewarectx.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Lookup:   middlewarectx.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}
	RegisterRoutes(router, logger, handlers, limits, m, registry)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	logger.Info("checkout configured",
		slog.Any("plans", prices.Plans()),
		slog.Bool("storage", app.db != nil),
		slog.Bool("cache", app.cache != nil),
		slog.Bool("events", publisher != nil))
	ok = true
	return app, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Warn("failed to close amqp channel", sl.Err(err))
		}
	}
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("failed to close amqp connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close storage", sl.Err(err))
		}
	}
}
