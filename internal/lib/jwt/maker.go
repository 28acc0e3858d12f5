// Package jwt выпускает provisioning-токены: короткоживущие JWT,
// которые клиент получает после подтверждения оплаты и предъявляет
// на шаге выдачи лицензии.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer значение поля iss в токенах.
const Issuer = "license-checkout"

// ErrEmptySecret возвращается, если секрет подписи не задан.
var ErrEmptySecret = errors.New("jwt secret is empty")

// ProvisioningClaims данные подтверждённой оплаты внутри токена.
type ProvisioningClaims struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	jwt.RegisteredClaims
}

// Maker подписывает токены HS256.
type Maker struct {
	secretKey string
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewMaker создаёт Maker на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *Maker {
	return &Maker{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// GenerateToken создаёт токен для пары order/payment.
func (m *Maker) GenerateToken(orderID, paymentID string) (string, error) {
	const op = "jwt.GenerateToken"
	if m.secretKey == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptySecret)
	}
	now := m.now()
	claims := ProvisioningClaims{
		OrderID:   orderID,
		PaymentID: paymentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   orderID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}
