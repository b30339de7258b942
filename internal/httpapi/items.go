package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/billfinity/backoffice/internal/domains/catalog/domain"
	"github.com/billfinity/backoffice/internal/domains/catalog/ports"
	apierrors "github.com/billfinity/backoffice/internal/shared/errors"
)

// comboComponentPayload is the HTTP representation of one combo constituent.
type comboComponentPayload struct {
	ItemID   int64 `json:"item_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required"`
}

// itemPayload is the HTTP representation of a catalog item. Price is a
// decimal string to keep the wire format exact.
type itemPayload struct {
	ID           int64                   `json:"id"`
	Name         string                  `json:"name"`
	SKU          string                  `json:"sku"`
	Category     string                  `json:"category,omitempty"`
	Price        string                  `json:"price"`
	Stock        int                     `json:"stock"`
	ReorderPoint int                     `json:"reorder_point"`
	GSTRate      int                     `json:"gst_rate"`
	Components   []comboComponentPayload `json:"components,omitempty"`
	CreatedAt    string                  `json:"created_at"`
	UpdatedAt    string                  `json:"updated_at"`
}

type createItemRequest struct {
	Name         string                  `json:"name" binding:"required"`
	SKU          string                  `json:"sku" binding:"required"`
	Category     string                  `json:"category"`
	Price        decimal.Decimal         `json:"price"`
	Stock        int                     `json:"stock"`
	ReorderPoint int                     `json:"reorder_point"`
	Components   []comboComponentPayload `json:"components"`
}

type updateItemRequest struct {
	Name         *string          `json:"name"`
	SKU          *string          `json:"sku"`
	Category     *string          `json:"category"`
	Price        *decimal.Decimal `json:"price"`
	Stock        *int             `json:"stock"`
	ReorderPoint *int             `json:"reorder_point"`
}

type setStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

type itemHandler struct {
	service   ports.Service
	responder *apierrors.Responder
}

func newItemHandler(service ports.Service, responder *apierrors.Responder) *itemHandler {
	return &itemHandler{service: service, responder: responder}
}

func (h *itemHandler) list(c *gin.Context) {
	items, err := h.service.ListItems(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	payload := make([]itemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, toItemPayload(item))
	}
	c.JSON(http.StatusOK, payload)
}

func (h *itemHandler) create(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	components := make([]domain.ComboComponent, 0, len(req.Components))
	for _, component := range req.Components {
		components = append(components, domain.ComboComponent{
			ItemID:   component.ItemID,
			Quantity: component.Quantity,
		})
	}
	item, err := h.service.CreateItem(c.Request.Context(), &domain.Item{
		Name:         req.Name,
		SKU:          req.SKU,
		Category:     req.Category,
		Price:        req.Price,
		Stock:        req.Stock,
		ReorderPoint: req.ReorderPoint,
		Components:   components,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItemPayload(item))
}

func (h *itemHandler) get(c *gin.Context) {
	id, ok := pathID(c, h.responder)
	if !ok {
		return
	}
	item, err := h.service.GetItem(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemPayload(item))
}

func (h *itemHandler) update(c *gin.Context) {
	id, ok := pathID(c, h.responder)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	item, err := h.service.UpdateItem(c.Request.Context(), id, ports.UpdateItemInput{
		Name:         req.Name,
		SKU:          req.SKU,
		Category:     req.Category,
		Price:        req.Price,
		Stock:        req.Stock,
		ReorderPoint: req.ReorderPoint,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemPayload(item))
}

func (h *itemHandler) setStock(c *gin.Context) {
	id, ok := pathID(c, h.responder)
	if !ok {
		return
	}
	var req setStockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Stock == nil {
		h.responder.Respond(c, apierrors.ErrValidation.WithDetail("stock is required"))
		return
	}
	item, err := h.service.SetStock(c.Request.Context(), id, *req.Stock)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemPayload(item))
}

func (h *itemHandler) delete(c *gin.Context) {
	id, ok := pathID(c, h.responder)
	if !ok {
		return
	}
	actor := "unknown"
	if user := currentUser(c); user != nil {
		actor = user.Email
	}
	if err := h.service.DeleteItem(c.Request.Context(), id, actor); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toItemPayload(item *domain.Item) itemPayload {
	var components []comboComponentPayload
	for _, component := range item.Components {
		components = append(components, comboComponentPayload{
			ItemID:   component.ItemID,
			Quantity: component.Quantity,
		})
	}
	return itemPayload{
		ID:           item.ID,
		Name:         item.Name,
		SKU:          item.SKU,
		Category:     item.Category,
		Price:        item.Price.StringFixed(2),
		Stock:        item.Stock,
		ReorderPoint: item.ReorderPoint,
		GSTRate:      item.GSTRate,
		Components:   components,
		CreatedAt:    item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.Format(time.RFC3339),
	}
}
