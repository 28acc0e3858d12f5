package models

// События вебхука провайдера, которые меняют статус заказа.
const (
	WebhookPaymentCaptured = "payment.captured"
	WebhookPaymentFailed   = "payment.failed"
	WebhookOrderPaid       = "order.paid"
)

// WebhookEvent уведомление Razorpay о платеже или заказе.
type WebhookEvent struct {
	Entity    string         `json:"entity"`
	Event     string         `json:"event"`
	Payload   WebhookPayload `json:"payload"`
	CreatedAt int64          `json:"created_at"`
}

// WebhookPayload сущности, к которым относится событие.
type WebhookPayload struct {
	Payment *WebhookPaymentEntity `json:"payment,omitempty"`
	Order   *WebhookOrderEntity   `json:"order,omitempty"`
}

// WebhookPaymentEntity обёртка платежа в теле вебхука.
type WebhookPaymentEntity struct {
	Entity WebhookPayment `json:"entity"`
}

// WebhookOrderEntity обёртка заказа в теле вебхука.
type WebhookOrderEntity struct {
	Entity WebhookOrder `json:"entity"`
}

// WebhookPayment платёж из вебхука.
type WebhookPayment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// WebhookOrder заказ из вебхука.
type WebhookOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// OrderID возвращает идентификатор заказа, к которому относится событие.
func (e *WebhookEvent) OrderID() string {
	if e.Payload.Order != nil && e.Payload.Order.Entity.ID != "" {
		return e.Payload.Order.Entity.ID
	}
	if e.Payload.Payment != nil {
		return e.Payload.Payment.Entity.OrderID
	}
	return ""
}

// PaymentID возвращает идентификатор платежа, если он есть в событии.
func (e *WebhookEvent) PaymentID() string {
	if e.Payload.Payment != nil {
		return e.Payload.Payment.Entity.ID
	}
	return ""
}
