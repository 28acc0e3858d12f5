// Package response содержит типы и функции для формирования JSON-ответов
// платёжных обработчиков. Формат ответов фиксирован: виджет оплаты на клиенте
// разбирает поля error, message и verified.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Тексты ошибок, которые видит клиент.
const (
	MsgMethodNotAllowed      = "Method not allowed"
	MsgInvalidRequestBody    = "Invalid request body"
	MsgInvalidPlan           = "Invalid plan ID"
	MsgCreateOrderFailed     = "Failed to create payment order"
	MsgMissingFields         = "Missing required payment verification fields"
	MsgInvalidSignature      = "Invalid payment signature"
	MsgVerificationFailed    = "Payment verification failed"
	MsgVerificationSucceeded = "Payment verified successfully"
	MsgOrderNotFound         = "Order not found"
	MsgInternalError         = "Internal server error"
	MsgTooManyRequests       = "Too many requests"
)

// ErrorResponse ответ с ошибкой.
// Поле Message заполняется, когда клиенту нужен человеко-читаемый текст.
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid plan ID"`
	Message string `json:"message,omitempty" example:"plan kms-999 is not available"`
}

// VerifyResponse ответ обработчика проверки оплаты.
// Поле Verified сериализуется всегда, в том числе false.
type VerifyResponse struct {
	Verified          bool   `json:"verified"`
	PaymentID         string `json:"payment_id,omitempty" example:"pay_XYZ"`
	OrderID           string `json:"order_id,omitempty" example:"order_ABC"`
	ProvisioningToken string `json:"provisioning_token,omitempty"`
	Error             string `json:"error,omitempty"`
	Message           string `json:"message,omitempty" example:"Payment verified successfully"`
}

// StatusResponse ответ служебных эндпоинтов.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// Error возвращает ErrorResponse с переданным текстом.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

func ErrorWithMessage(msg, message string) ErrorResponse {
	return ErrorResponse{Error: msg, Message: message}
}

// NotVerified возвращает отрицательный ответ проверки оплаты.
func NotVerified(msg, message string) VerifyResponse {
	return VerifyResponse{Verified: false, Error: msg, Message: message}
}

// ValidationMessage собирает ошибки валидации в одну строку через запятую.
func ValidationMessage(errs validator.ValidationErrors) string {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return strings.Join(errsMsgs, ", ")
}
