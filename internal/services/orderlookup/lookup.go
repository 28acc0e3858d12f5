// Package orderlookup ищет ранее созданные заказы.
//
// Порядок поиска: кэш Redis, затем PostgreSQL, затем API провайдера.
// Найденный в базе или у провайдера заказ снова кладётся в кэш.
package orderlookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/magabrotheeeer/license-checkout/internal/lib/sl"
	"github.com/magabrotheeeer/license-checkout/internal/models"
	"github.com/magabrotheeeer/license-checkout/internal/paymentprovider"
	"github.com/magabrotheeeer/license-checkout/internal/storage"
)

// ErrOrderNotFound заказ не найден ни в одном источнике.
var ErrOrderNotFound = errors.New("order not found")

// Cache кэш заказов.
type Cache interface {
	GetOrder(ctx context.Context, orderID string) (*models.OrderRecord, error)
	SetOrder(ctx context.Context, order *models.OrderRecord) error
}

// Store журнал заказов.
type Store interface {
	GetOrder(ctx context.Context, orderID string) (*models.OrderRecord, error)
}

// ProviderClient читает заказы у провайдера.
type ProviderClient interface {
	FetchOrder(ctx context.Context, orderID string) (*paymentprovider.Order, error)
}

// Service ищет заказы.
type Service struct {
	log      *slog.Logger
	cache    Cache
	store    Store
	provider ProviderClient
	timeout  time.Duration
}

// New создаёт сервис. cache, store и provider могут быть nil.
func New(log *slog.Logger, cache Cache, store Store, provider ProviderClient, timeout time.Duration) *Service {
	return &Service{
		log:      log,
		cache:    cache,
		store:    store,
		provider: provider,
		timeout:  timeout,
	}
}

// Get возвращает заказ по order ID.
func (s *Service) Get(ctx context.Context, orderID string) (*models.OrderRecord, error) {
	const op = "services.orderlookup.Get"
	log := s.log.With(slog.String("op", op), slog.String("order_id", orderID))

	if s.cache != nil {
		order, err := s.cache.GetOrder(ctx, orderID)
		if err != nil {
			log.Warn("failed to read order from cache", sl.Err(err))
		}
		if order != nil {
			return order, nil
		}
	}

	if s.store != nil {
		order, err := s.store.GetOrder(ctx, orderID)
		switch {
		case err == nil:
			s.warm(ctx, log, order)
			return order, nil
		case !errors.Is(err, storage.ErrOrderNotFound):
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if s.provider == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}

	providerCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		providerCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	po, err := s.provider.FetchOrder(providerCtx, orderID)
	if err != nil {
		var apiErr *paymentprovider.APIError
		if errors.As(err, &apiErr) &&
			(apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order := fromProvider(po)
	s.warm(ctx, log, order)
	return order, nil
}

func (s *Service) warm(ctx context.Context, log *slog.Logger, order *models.OrderRecord) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetOrder(ctx, order); err != nil {
		log.Warn("failed to cache order", sl.Err(err))
	}
}

func fromProvider(po *paymentprovider.Order) *models.OrderRecord {
	order := &models.OrderRecord{
		OrderID:  po.ID,
		Amount:   po.Amount,
		Currency: po.Currency,
		Receipt:  po.Receipt,
		Status:   po.Status,
	}
	if po.Notes != nil {
		order.PlanID = po.Notes["planId"]
		order.OperatorID = po.Notes["operatorId"]
	}
	if po.CreatedAt > 0 {
		order.CreatedAt = time.Unix(po.CreatedAt, 0).UTC()
	}
	return order
}
