// Package webhook применяет события вебхука провайдера к сохранённым заказам.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/license-checkout/internal/lib/sl"
	"github.com/magabrotheeeer/license-checkout/internal/models"
)

// ErrNoOrderID в событии нет идентификатора заказа.
var ErrNoOrderID = errors.New("webhook event has no order id")

// Store обновляет статус заказа.
type Store interface {
	UpdateOrderStatus(ctx context.Context, orderID, status string) (int, error)
}

// Cache сбрасывает закэшированный заказ.
type Cache interface {
	InvalidateOrder(ctx context.Context, orderID string) error
}

// Service обрабатывает события вебхука.
type Service struct {
	log   *slog.Logger
	store Store
	cache Cache
}

// New создаёт сервис. cache может быть nil.
func New(log *slog.Logger, store Store, cache Cache) *Service {
	return &Service{
		log:   log,
		store: store,
		cache: cache,
	}
}

// StatusFor возвращает статус заказа для события. Второе значение false,
// если событие статус не меняет.
func StatusFor(event string) (string, bool) {
	switch event {
	case models.WebhookPaymentCaptured, models.WebhookOrderPaid:
		return models.OrderStatusPaid, true
	case models.WebhookPaymentFailed:
		return models.OrderStatusFailed, true
	default:
		return "", false
	}
}

// Process применяет событие. Неизвестные события игнорируются.
func (s *Service) Process(ctx context.Context, event *models.WebhookEvent) error {
	const op = "services.webhook.Process"
	log := s.log.With(slog.String("op", op), slog.String("event", event.Event))

	status, ok := StatusFor(event.Event)
	if !ok {
		log.Info("ignored webhook event")
		return nil
	}

	orderID := event.OrderID()
	if orderID == "" {
		return fmt.Errorf("%s: %w", op, ErrNoOrderID)
	}

	rows, err := s.store.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		// Заказ неизвестен или уже оплачен: paid не откатывается поздним событием.
		log.Warn("order status not changed: unknown or already paid",
			slog.String("order_id", orderID),
			slog.String("status", status))
		return nil
	}

	if s.cache != nil {
		if err := s.cache.InvalidateOrder(ctx, orderID); err != nil {
			log.Error("failed to invalidate cached order", slog.String("order_id", orderID), sl.Err(err))
		}
	}

	log.Info("order status updated",
		slog.String("order_id", orderID),
		slog.String("payment_id", event.PaymentID()),
		slog.String("status", status))
	return nil
}
