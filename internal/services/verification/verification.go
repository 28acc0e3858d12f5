// Package verification подтверждает оплату по подписи платёжного провайдера.
//
// Вердикт зависит только от входных данных и секрета: ожидаемая подпись
// hex(HMAC-SHA256(secret, orderID + "|" + paymentID)) сравнивается с подписью
// клиента за постоянное время. Журнал проверок и публикация события
// для выдачи лицензии выполняются после вердикта и на него не влияют.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/license-checkout/internal/lib/signature"
	"github.com/magabrotheeeer/license-checkout/internal/lib/sl"
	"github.com/magabrotheeeer/license-checkout/internal/metrics"
	"github.com/magabrotheeeer/license-checkout/internal/models"
)

var (
	// ErrMissingFields не передан order ID, payment ID или подпись.
	ErrMissingFields = errors.New("missing required payment verification fields")
	// ErrSignatureMismatch запрос корректен, но подпись не совпала.
	ErrSignatureMismatch = errors.New("invalid payment signature")
	// ErrVerificationFailed непредвиденная ошибка при проверке.
	ErrVerificationFailed = errors.New("payment verification failed")
)

// EventPaymentVerified тип события о подтверждённой оплате.
const EventPaymentVerified = "payment.verified"

const sinkTimeout = 3 * time.Second

// TokenMaker выпускает provisioning-токены.
type TokenMaker interface {
	GenerateToken(orderID, paymentID string) (string, error)
}

// Store журнал проверок.
type Store interface {
	SaveVerification(ctx context.Context, res *models.VerificationResult) error
}

// Publisher отправляет события о подтверждённой оплате.
type Publisher interface {
	PublishPaymentEvent(ctx context.Context, event models.PaymentEvent) error
}

// Service проверяет подписи оплат.
type Service struct {
	log       *slog.Logger
	secret    string
	tokens    TokenMaker
	store     Store
	publisher Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option настраивает необязательные зависимости сервиса.
type Option func(*Service)

// WithTokenMaker включает выпуск provisioning-токенов.
func WithTokenMaker(tm TokenMaker) Option {
	return func(s *Service) { s.tokens = tm }
}

func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New создаёт сервис проверки. secret это key secret провайдера.
func New(log *slog.Logger, secret string, opts ...Option) *Service {
	s := &Service{
		log:    log,
		secret: secret,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify проверяет подпись оплаты. При несовпадении возвращает результат
// с Verified=false и ErrSignatureMismatch.
func (s *Service) Verify(ctx context.Context, req models.VerificationRequest) (*models.VerificationResult, error) {
	const op = "services.verification.Verify"
	log := s.log.With(sl.Op(op), slog.String("order_id", req.OrderID), slog.String("payment_id", req.PaymentID))

	if isBlank(req.OrderID) || isBlank(req.PaymentID) || isBlank(req.Signature) {
		s.metrics.ObserveVerification(metrics.VerificationMissingFields)
		return nil, fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	ok, err := signature.VerifyPayment(s.secret, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		s.metrics.ObserveVerification(metrics.VerificationError)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrVerificationFailed, err)
	}

	res := &models.VerificationResult{
		Verified:  ok,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		CheckedAt: s.now().UTC(),
	}

	if !ok {
		s.metrics.ObserveVerification(metrics.VerificationMismatch)
		log.Warn("payment signature mismatch")
		s.record(ctx, log, res)
		return res, fmt.Errorf("%s: %w", op, ErrSignatureMismatch)
	}

	if s.tokens != nil {
		token, err := s.tokens.GenerateToken(req.OrderID, req.PaymentID)
		if err != nil {
			s.metrics.ObserveVerification(metrics.VerificationError)
			return nil, fmt.Errorf("%s: %w: %w", op, ErrVerificationFailed, err)
		}
		res.ProvisioningToken = token
	}

	s.metrics.ObserveVerification(metrics.VerificationVerified)
	s.record(ctx, log, res)
	log.Info("payment verified")
	return res, nil
}

// record пишет результат в журнал и публикует событие для подтверждённой оплаты.
func (s *Service) record(ctx context.Context, log *slog.Logger, res *models.VerificationResult) {
	if s.store == nil && s.publisher == nil {
		return
	}
	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()

	if s.store != nil {
		if err := s.store.SaveVerification(sinkCtx, res); err != nil {
			log.Error("failed to save verification", sl.Err(err))
		}
	}
	if s.publisher != nil && res.Verified {
		event := models.PaymentEvent{
			EventID:   uuid.NewString(),
			Type:      EventPaymentVerified,
			OrderID:   res.OrderID,
			PaymentID: res.PaymentID,
			Timestamp: res.CheckedAt,
		}
		if err := s.publisher.PublishPaymentEvent(sinkCtx, event); err != nil {
			log.Error("failed to publish payment event", sl.Err(err))
		}
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
