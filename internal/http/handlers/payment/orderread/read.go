// Package orderread реализует HTTP-обработчик для получения заказа по order ID.
package orderread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/license-checkout/internal/http/response"
	"github.com/magabrotheeeer/license-checkout/internal/lib/sl"
	"github.com/magabrotheeeer/license-checkout/internal/models"
	"github.com/magabrotheeeer/license-checkout/internal/services/orderlookup"
)

// Service описывает поиск заказа.
type Service interface {
	Get(ctx context.Context, orderID string) (*models.OrderRecord, error)
}

// Handler обрабатывает запросы на получение заказа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Получить заказ
// @Description Возвращает заказ из кэша, базы или API провайдера
// @Tags Payments
// @Produce  json
// @Param orderID path string true "Order ID"
// @Success 200 {object} models.OrderRecord "Заказ"
// @Failure 400 {object} response.ErrorResponse "Некорректный order ID"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /orders/{orderID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.orderread"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	orderID := chi.URLParam(r, "orderID")
	if err := h.validate.Var(orderID, "required,max=64,printascii"); err != nil {
		log.Warn("invalid order id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid order ID"))
		return
	}

	order, err := h.service.Get(r.Context(), orderID)
	switch {
	case errors.Is(err, orderlookup.ErrOrderNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgOrderNotFound))
		return
	case err != nil:
		log.Error("failed to read order", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternalError))
		return
	}

	log.Info("success to read order", slog.String("order_id", order.OrderID))
	render.JSON(w, r, order)
}
