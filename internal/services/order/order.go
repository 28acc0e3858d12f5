// Package order создаёт платёжные заказы по серверной таблице цен.
//
// Сумма заказа всегда вычисляется на сервере: цена плана из таблицы,
// умноженная на 100 (провайдер принимает минимальные единицы валюты).
// Повторов при ошибке провайдера нет, повторная отправка создаёт новый заказ.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/license-checkout/internal/lib/sl"
	"github.com/magabrotheeeer/license-checkout/internal/metrics"
	"github.com/magabrotheeeer/license-checkout/internal/models"
	"github.com/magabrotheeeer/license-checkout/internal/paymentprovider"
)

var (
	// ErrInvalidPlan plan ID отсутствует в таблице цен.
	ErrInvalidPlan = errors.New("invalid plan id")
	// ErrCreateFailed заказ не удалось создать у провайдера.
	ErrCreateFailed = errors.New("failed to create payment order")
)

const sinkTimeout = 3 * time.Second

// ProviderClient создаёт заказы у платёжного провайдера.
type ProviderClient interface {
	CreateOrder(ctx context.Context, reqParams paymentprovider.CreateOrderRequest) (*paymentprovider.Order, error)
}

// PriceTable источник серверных цен.
type PriceTable interface {
	Amount(planID string) (int64, error)
}

// ReceiptGenerator выдаёт уникальные идентификаторы квитанций.
type ReceiptGenerator interface {
	Next() (string, error)
}

// Store журнал созданных заказов.
type Store interface {
	SaveOrder(ctx context.Context, order *models.OrderRecord) error
}

// Cache кэш созданных заказов.
type Cache interface {
	SetOrder(ctx context.Context, order *models.OrderRecord) error
}

// Service создаёт заказы.
type Service struct {
	log      *slog.Logger
	prices   PriceTable
	provider ProviderClient
	receipts ReceiptGenerator
	currency string
	timeout  time.Duration
	store    Store
	cache    Cache
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option настраивает необязательные зависимости сервиса.
type Option func(*Service)

func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

func WithCache(cache Cache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock подменяет часы, используется в тестах.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New создаёт сервис заказов. timeout ограничивает вызов провайдера.
func New(log *slog.Logger, prices PriceTable, provider ProviderClient, receipts ReceiptGenerator,
	currency string, timeout time.Duration, opts ...Option) *Service {
	s := &Service{
		log:      log,
		prices:   prices,
		provider: provider,
		receipts: receipts,
		currency: currency,
		timeout:  timeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder проверяет план, создаёт заказ у провайдера и возвращает его.
func (s *Service) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderRecord, error) {
	const op = "services.order.CreateOrder"
	log := s.log.With(sl.Op(op), slog.String("plan_id", req.PlanID))

	amount, err := s.prices.Amount(req.PlanID)
	if err != nil {
		s.metrics.ObserveOrder(metrics.OrderInvalidPlan)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidPlan, err)
	}

	receiptID, err := s.receipts.Next()
	if err != nil {
		s.metrics.ObserveOrder(metrics.OrderProviderError)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrCreateFailed, err)
	}

	createdAt := s.now().UTC()
	providerCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		providerCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	providerOrder, err := s.provider.CreateOrder(providerCtx, paymentprovider.CreateOrderRequest{
		Amount:   amount,
		Currency: s.currency,
		Receipt:  receiptID,
		Notes: map[string]string{
			"planId":     req.PlanID,
			"operatorId": req.OperatorID,
			"createdAt":  createdAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		s.metrics.ObserveOrder(metrics.OrderProviderError)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrCreateFailed, err)
	}
	if providerOrder.Amount != 0 && providerOrder.Amount != amount {
		log.Warn("provider echoed a different amount",
			slog.Int64("expected", amount), slog.Int64("got", providerOrder.Amount))
	}

	status := providerOrder.Status
	if status == "" {
		status = models.OrderStatusCreated
	}
	record := &models.OrderRecord{
		OrderID:    providerOrder.ID,
		Amount:     amount,
		Currency:   s.currency,
		Receipt:    receiptID,
		PlanID:     req.PlanID,
		OperatorID: req.OperatorID,
		Status:     status,
		CreatedAt:  createdAt,
	}

	s.metrics.ObserveOrder(metrics.OrderCreated)
	s.remember(ctx, log, record)
	log.Info("order created", slog.String("order_id", record.OrderID), slog.String("receipt", receiptID))
	return record, nil
}

// remember сохраняет заказ в журнал и кэш. Ошибки только логируются:
// заказ уже создан у провайдера и ответ клиенту от них не зависит.
func (s *Service) remember(ctx context.Context, log *slog.Logger, record *models.OrderRecord) {
	if s.store == nil && s.cache == nil {
		return
	}
	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()

	if s.store != nil {
		if err := s.store.SaveOrder(sinkCtx, record); err != nil {
			log.Error("failed to save order", slog.String("order_id", record.OrderID), sl.Err(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.SetOrder(sinkCtx, record); err != nil {
			log.Error("failed to cache order", slog.String("order_id", record.OrderID), sl.Err(err))
		}
	}
}
