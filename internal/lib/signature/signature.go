// Package signature вычисляет и проверяет подписи Razorpay.
//
// Подпись оплаты: hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
// Подпись вебхука: hex(HMAC-SHA256(webhookSecret, rawBody)).
// Сравнение всегда выполняется за постоянное время через hmac.Equal.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Separator разделитель order ID и payment ID в подписываемой строке.
const Separator = "|"

// ErrEmptySecret возвращается, если секрет не задан.
var ErrEmptySecret = errors.New("signing secret is empty")

// Payment возвращает ожидаемую подпись оплаты.
func Payment(secret, orderID, paymentID string) (string, error) {
	return sum(secret, []byte(orderID+Separator+paymentID))
}

// VerifyPayment сравнивает подпись клиента с ожидаемой.
func VerifyPayment(secret, orderID, paymentID, got string) (bool, error) {
	expected, err := Payment(secret, orderID, paymentID)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(expected), []byte(got)), nil
}

// VerifyBody проверяет подпись тела вебхука.
func VerifyBody(secret string, body []byte, got string) (bool, error) {
	expected, err := sum(secret, body)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(expected), []byte(got)), nil
}

func sum(secret string, msg []byte) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil)), nil
}
