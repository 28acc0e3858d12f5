// Package paymentwebhook принимает вебхуки Razorpay.
//
// Подпись из заголовка X-Razorpay-Signature проверяется по сырому телу
// запроса до разбора JSON.
package paymentwebhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/license-checkout/internal/http/request"
	"github.com/magabrotheeeer/license-checkout/internal/http/response"
	"github.com/magabrotheeeer/license-checkout/internal/lib/signature"
	"github.com/magabrotheeeer/license-checkout/internal/lib/sl"
	"github.com/magabrotheeeer/license-checkout/internal/models"
)

// SignatureHeader заголовок с подписью тела вебхука.
const SignatureHeader = "X-Razorpay-Signature"

// Service применяет события вебхука.
type Service interface {
	Process(ctx context.Context, event *models.WebhookEvent) error
}

// Handler обрабатывает вебхуки провайдера.
type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

// New создаёт новый экземпляр Handler.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// ServeHTTP godoc
// @Summary Вебхук Razorpay
// @Description Принимает события payment.captured, payment.failed и order.paid
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param X-Razorpay-Signature header string true "hex HMAC-SHA256 тела запроса"
// @Success 200 {object} response.StatusResponse "Событие принято"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело"
// @Failure 401 {object} response.ErrorResponse "Неверная подпись"
// @Failure 500 {object} response.ErrorResponse "Ошибка обработки"
// @Router /webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(io.LimitReader(r.Body, request.MaxBodyBytes))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidRequestBody))
		return
	}

	got := r.Header.Get(SignatureHeader)
	ok, err := signature.VerifyBody(h.webhookSecret, body, got)
	if err != nil {
		log.Error("webhook secret is not configured", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgInvalidSignature))
		return
	}
	if got == "" || !ok {
		log.Warn("invalid or missing webhook signature")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgInvalidSignature))
		return
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidRequestBody))
		return
	}

	if err := h.service.Process(r.Context(), &event); err != nil {
		log.Error("failed to process webhook event", slog.String("event", event.Event), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternalError))
		return
	}

	log.Info("webhook processed", slog.String("event", event.Event), slog.String("order_id", event.OrderID()))
	render.JSON(w, r, response.StatusResponse{Status: "ok"})
}
