package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/license-checkout/internal/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) UpdateOrderStatus(ctx context.Context, orderID, status string) (int, error) {
	args := m.Called(ctx, orderID, status)
	return args.Int(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateOrder(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func paymentEvent(name, orderID string) *models.WebhookEvent {
	ev := &models.WebhookEvent{Event: name}
	ev.Payload.Payment = &models.WebhookPaymentEntity{Entity: models.WebhookPayment{ID: "pay_XYZ", OrderID: orderID}}
	return ev
}

func TestService_Process(t *testing.T) {
	tests := []struct {
		name          string
		event         *models.WebhookEvent
		setupMocks    func(*MockStore, *MockCache)
		expectedError error
		wantErr       bool
	}{
		{
			name:  "payment captured marks order paid",
			event: paymentEvent(models.WebhookPaymentCaptured, "order_ABC"),
			setupMocks: func(s *MockStore, c *MockCache) {
				s.On("UpdateOrderStatus", mock.Anything, "order_ABC", models.OrderStatusPaid).Return(1, nil).Once()
				c.On("InvalidateOrder", mock.Anything, "order_ABC").Return(nil).Once()
			},
		},
		{
			name:  "payment failed marks order failed",
			event: paymentEvent(models.WebhookPaymentFailed, "order_ABC"),
			setupMocks: func(s *MockStore, c *MockCache) {
				s.On("UpdateOrderStatus", mock.Anything, "order_ABC", models.OrderStatusFailed).Return(1, nil).Once()
				c.On("InvalidateOrder", mock.Anything, "order_ABC").Return(nil).Once()
			},
		},
		{
			name: "order paid uses order entity",
			event: func() *models.WebhookEvent {
				ev := paymentEvent(models.WebhookOrderPaid, "order_FROM_PAYMENT")
				ev.Payload.Order = &models.WebhookOrderEntity{Entity: models.WebhookOrder{ID: "order_ABC", Status: "paid"}}
				return ev
			}(),
			setupMocks: func(s *MockStore, c *MockCache) {
				s.On("UpdateOrderStatus", mock.Anything, "order_ABC", models.OrderStatusPaid).Return(1, nil).Once()
				c.On("InvalidateOrder", mock.Anything, "order_ABC").Return(nil).Once()
			},
		},
		{
			name:  "unknown order is not an error",
			event: paymentEvent(models.WebhookPaymentCaptured, "order_GONE"),
			setupMocks: func(s *MockStore, _ *MockCache) {
				s.On("UpdateOrderStatus", mock.Anything, "order_GONE", models.OrderStatusPaid).Return(0, nil).Once()
			},
		},
		{
			name:  "cache failure is ignored",
			event: paymentEvent(models.WebhookPaymentCaptured, "order_ABC"),
			setupMocks: func(s *MockStore, c *MockCache) {
				s.On("UpdateOrderStatus", mock.Anything, "order_ABC", models.OrderStatusPaid).Return(1, nil).Once()
				c.On("InvalidateOrder", mock.Anything, "order_ABC").Return(errors.New("redis down")).Once()
			},
		},
		{
			name:       "ignored event",
			event:      paymentEvent("refund.created", "order_ABC"),
			setupMocks: func(*MockStore, *MockCache) {},
		},
		{
			name:          "no order id",
			event:         &models.WebhookEvent{Event: models.WebhookPaymentCaptured},
			setupMocks:    func(*MockStore, *MockCache) {},
			expectedError: ErrNoOrderID,
		},
		{
			name:  "store error",
			event: paymentEvent(models.WebhookPaymentCaptured, "order_ABC"),
			setupMocks: func(s *MockStore, _ *MockCache) {
				s.On("UpdateOrderStatus", mock.Anything, "order_ABC", models.OrderStatusPaid).Return(0, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			cache := new(MockCache)
			tt.setupMocks(store, cache)
			svc := New(newNoopLogger(), store, cache)

			err := svc.Process(context.Background(), tt.event)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.wantErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			store.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_Process_NilCache(t *testing.T) {
	store := new(MockStore)
	store.On("UpdateOrderStatus", mock.Anything, "order_ABC", models.OrderStatusPaid).Return(1, nil).Once()

	svc := New(newNoopLogger(), store, nil)
	assert.NoError(t, svc.Process(context.Background(), paymentEvent(models.WebhookPaymentCaptured, "order_ABC")))
	store.AssertExpectations(t)
}

// statusStore повторяет правило хранилища: paid не перезаписывается.
type statusStore struct {
	statuses map[string]string
}

func (s *statusStore) UpdateOrderStatus(_ context.Context, orderID, status string) (int, error) {
	current, ok := s.statuses[orderID]
	if !ok || current == models.OrderStatusPaid {
		return 0, nil
	}
	s.statuses[orderID] = status
	return 1, nil
}

func TestService_Process_LateFailureKeepsPaid(t *testing.T) {
	store := &statusStore{statuses: map[string]string{"order_ABC": models.OrderStatusCreated}}
	cache := new(MockCache)
	cache.On("InvalidateOrder", mock.Anything, "order_ABC").Return(nil).Once()
	svc := New(newNoopLogger(), store, cache)
	ctx := context.Background()

	paid := paymentEvent(models.WebhookOrderPaid, "order_ABC")
	assert.NoError(t, svc.Process(ctx, paid))
	assert.NoError(t, svc.Process(ctx, paymentEvent(models.WebhookPaymentFailed, "order_ABC")))

	assert.Equal(t, models.OrderStatusPaid, store.statuses["order_ABC"])
	cache.AssertExpectations(t)
}

func TestStatusFor(t *testing.T) {
	status, ok := StatusFor(models.WebhookPaymentCaptured)
	assert.True(t, ok)
	assert.Equal(t, models.OrderStatusPaid, status)

	_, ok = StatusFor("payment.authorized")
	assert.False(t, ok)
}
