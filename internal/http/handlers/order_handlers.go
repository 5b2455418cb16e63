package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/order-tracker/internal/validation"
)

// CreateOrderHandler godoc
// @Summary Place an order
// @Description Checks the user, the product and its stock, then decrements the stock and records the order.
// @Description A missing user or product is reported as 400 because it is part of the request body.
// @Tags orders
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first successful response for this key"
// @Param order body validation.OrderPayload true "Order to place"
// @Success 201 {object} SuccessResponse{data=models.Order}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Idempotency-Key in use"
// @Failure 500 {object} ErrorResponse
// @Router /orders [post]
func (h *Handler) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req validation.OrderPayload
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	h.ok(w, r, http.StatusCreated, order)
}

// GetOrderByIDHandler godoc
// @Summary Get order by ID
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} SuccessResponse{data=models.Order}
// @Failure 400 {object} ErrorResponse "Invalid order ID"
// @Failure 404 {object} ErrorResponse "Order not found"
// @Failure 500 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *Handler) GetOrderByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", validation.ErrInvalidOrderID)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}
	h.ok(w, r, http.StatusOK, order)
}

// GetOrdersByUserHandler godoc
// @Summary List a user's orders
// @Description Orders come back oldest first. The user is not required to exist.
// @Tags orders
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} ListResponse{data=[]models.Order}
// @Failure 400 {object} ErrorResponse "Invalid user ID"
// @Failure 500 {object} ErrorResponse
// @Router /orders/user/{userId} [get]
func (h *Handler) GetOrdersByUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId", validation.ErrInvalidUserID)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	orders, err := h.orders.OrdersByUser(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}
	h.list(w, r, orders, len(orders))
}
