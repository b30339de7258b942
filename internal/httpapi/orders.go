package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/billfinity/backoffice/internal/domains/orders/domain"
	"github.com/billfinity/backoffice/internal/domains/orders/ports"
	apierrors "github.com/billfinity/backoffice/internal/shared/errors"
)

type orderLinePayload struct {
	ItemID    int64  `json:"item_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// orderPayload is the HTTP representation of an order. Monetary values are
// decimal strings.
type orderPayload struct {
	ID         int64              `json:"id"`
	CustomerID int64              `json:"customer_id"`
	Total      string             `json:"total"`
	Status     string             `json:"status"`
	Lines      []orderLinePayload `json:"items"`
	CreatedAt  string             `json:"created_at"`
	UpdatedAt  string             `json:"updated_at"`
}

type orderLineRequest struct {
	ItemID   int64 `json:"item_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	CustomerID int64              `json:"customer_id" binding:"required"`
	Lines      []orderLineRequest `json:"items" binding:"required"`
}

type orderHandler struct {
	service   ports.Service
	responder *apierrors.Responder
}

func newOrderHandler(service ports.Service, responder *apierrors.Responder) *orderHandler {
	return &orderHandler{service: service, responder: responder}
}

func (h *orderHandler) list(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	payload := make([]orderPayload, 0, len(orders))
	for _, order := range orders {
		payload = append(payload, toOrderPayload(order))
	}
	c.JSON(http.StatusOK, payload)
}

func (h *orderHandler) create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	lines := make([]ports.LineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, ports.LineInput{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	order, err := h.service.CreateOrder(c.Request.Context(), ports.CreateOrderInput{
		CustomerID: req.CustomerID,
		Lines:      lines,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderPayload(order))
}

func (h *orderHandler) get(c *gin.Context) {
	id, ok := pathID(c, h.responder)
	if !ok {
		return
	}
	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderPayload(order))
}

func (h *orderHandler) complete(c *gin.Context) {
	id, ok := pathID(c, h.responder)
	if !ok {
		return
	}
	order, err := h.service.CompleteOrder(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderPayload(order))
}

func toOrderPayload(order *domain.Order) orderPayload {
	lines := make([]orderLinePayload, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, orderLinePayload{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Subtotal:  line.Subtotal().StringFixed(2),
		})
	}
	return orderPayload{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total.StringFixed(2),
		Status:     string(order.Status),
		Lines:      lines,
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  order.UpdatedAt.Format(time.RFC3339),
	}
}
