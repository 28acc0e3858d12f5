// Package ordercreate обрабатывает создание платёжного заказа.
//
// Сумма заказа считается только на сервере по plan ID, цена из тела запроса
// игнорируется. Причина ошибки провайдера пишется в лог, клиенту уходит общий текст.
package ordercreate

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
	"github.com/magabrotheeeer/license-checkout/internal/services/order"
)

// ProviderUnavailableMessage текст для клиента при ошибке провайдера.
const ProviderUnavailableMessage = "Payment provider is unavailable, please try again"

// Service создаёт заказы.
type Service interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderRecord, error)
}

// OrderResponse данные созданного заказа для виджета оплаты.
type OrderResponse struct {
	OrderID  string `json:"orderId" example:"order_ABC"`
	Amount   int64  `json:"amount" example:"5000"`
	Currency string `json:"currency" example:"INR"`
	Receipt  string `json:"receipt" example:"receipt_1718000000000_a1b2c3d4"`
	PlanID   string `json:"planId" example:"kms-180"`
}

// Handler обрабатывает запросы на создание заказа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис создания заказов
	validate *validator.Validate // Валидатор структуры входящих данных
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
// @Summary Создать заказ
// @Description Создаёт заказ у платёжного провайдера по серверной цене плана
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.OrderRequest true "План и оператор"
// @Success 200 {object} OrderResponse "Заказ создан"
// @Failure 400 {object} response.ErrorResponse "Неизвестный план или некорректный JSON"
// @Failure 405 {object} response.ErrorResponse "Метод не поддерживается"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Ошибка провайдера"
// @Router /create-order [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.ordercreate"
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

	var req models.OrderRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidRequestBody))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidPlan))
		return
	}

	record, err := h.service.CreateOrder(r.Context(), req)
	switch {
	case errors.Is(err, order.ErrInvalidPlan):
		log.Warn("unknown plan requested", slog.String("plan_id", req.PlanID))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidPlan))
		return
	case err != nil:
		log.Error("failed to create order", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorWithMessage(response.MsgCreateOrderFailed, ProviderUnavailableMessage))
		return
	}

	log.Info("order created", slog.String("order_id", record.OrderID), slog.String("plan_id", record.PlanID))
	render.JSON(w, r, OrderResponse{
		OrderID:  record.OrderID,
		Amount:   record.Amount,
		Currency: record.Currency,
		Receipt:  record.Receipt,
		PlanID:   record.PlanID,
	})
}
