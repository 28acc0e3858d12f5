// Package paymentverify обрабатывает подтверждение оплаты по подписи провайдера.
package paymentverify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/license-checkout/internal/http/request"
	"github.com/magabrotheeeer/license-checkout/internal/http/response"
	"github.com/magabrotheeeer/license-checkout/internal/lib/sl"
	"github.com/magabrotheeeer/license-checkout/internal/models"
	"github.com/magabrotheeeer/license-checkout/internal/services/verification"
)

// UnavailableMessage текст для клиента при непредвиденной ошибке проверки.
const UnavailableMessage = "Unable to verify payment at this time"

// Service проверяет подписи оплат.
type Service interface {
	Verify(ctx context.Context, req models.VerificationRequest) (*models.VerificationResult, error)
}

// Handler обрабатывает запросы на подтверждение оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: request.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить оплату
// @Description Проверяет HMAC-SHA256 подпись, которую виджет оплаты вернул клиенту
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.VerificationRequest true "Данные виджета оплаты"
// @Success 200 {object} response.VerifyResponse "Оплата подтверждена"
// @Failure 400 {object} response.VerifyResponse "Нет обязательных полей или подпись не совпала"
// @Failure 405 {object} response.ErrorResponse "Метод не поддерживается"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.VerifyResponse "Ошибка проверки"
// @Router /verify-payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		render.Status(r, http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error(response.MsgMethodNotAllowed))
		return
	}

	var req models.VerificationRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.NotVerified(response.MsgInvalidRequestBody, ""))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		var message string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			message = response.ValidationMessage(verrs)
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.NotVerified(response.MsgMissingFields, message))
		return
	}

	res, err := h.service.Verify(r.Context(), req)
	switch {
	case errors.Is(err, verification.ErrMissingFields):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.NotVerified(response.MsgMissingFields, ""))
		return
	case errors.Is(err, verification.ErrSignatureMismatch):
		log.Warn("payment verification rejected", slog.String("order_id", req.OrderID))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.NotVerified(response.MsgInvalidSignature, response.MsgVerificationFailed))
		return
	case err != nil:
		log.Error("payment verification failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.NotVerified(response.MsgVerificationFailed, UnavailableMessage))
		return
	}

	log.Info("payment verified", slog.String("order_id", res.OrderID), slog.String("payment_id", res.PaymentID))
	render.JSON(w, r, response.VerifyResponse{
		Verified:          true,
		PaymentID:         res.PaymentID,
		OrderID:           res.OrderID,
		ProvisioningToken: res.ProvisioningToken,
		Message:           response.MsgVerificationSucceeded,
	})
}
