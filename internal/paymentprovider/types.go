package paymentprovider

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CreateOrderRequest запрос на создание заказа в Razorpay.
// Amount указывается в минимальных единицах валюты (пайсы).
type CreateOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order заказ, созданный Razorpay.
type Order struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	AmountDue  int64             `json:"amount_due"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	Status     string            `json:"status"`
	Attempts   int               `json:"attempts"`
	Notes      Notes             `json:"notes"`
	CreatedAt  int64             `json:"created_at"`
}

// Notes произвольные пары ключ-значение заказа. Razorpay отдаёт пустые
// notes как массив [], поэтому пустой массив и null читаются как пустая карта.
type Notes map[string]string

func (n *Notes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*n = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("notes: %w", err)
		}
		if len(items) != 0 {
			return fmt.Errorf("notes: unexpected non-empty array")
		}
		*n = Notes{}
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("notes: %w", err)
	}
	out := make(Notes, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	*n = out
	return nil
}

// APIError ошибка, которую вернул Razorpay в теле ответа.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("razorpay: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("razorpay: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}
