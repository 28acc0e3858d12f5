package models

import "time"

// VerificationRequest данные, которые виджет оплаты вернул клиенту.
type VerificationRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// VerificationResult итог проверки подписи оплаты.
type VerificationResult struct {
	Verified          bool
	OrderID           string
	PaymentID         string
	ProvisioningToken string
	CheckedAt         time.Time
}

// PaymentEvent событие о подтверждённой оплате для сервиса выдачи лицензий.
type PaymentEvent struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	Timestamp time.Time `json:"timestamp"`
}
