package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/billfinity/backoffice/internal/domains/customers/domain"
	"github.com/billfinity/backoffice/internal/domains/customers/ports"
	apierrors "github.com/billfinity/backoffice/internal/shared/errors"
)

// customerPayload is the HTTP representation of a customer.
type customerPayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	GSTIN       string `json:"gstin,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Address     string `json:"address,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type createCustomerRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	GSTIN       string `json:"gstin"`
	CompanyName string `json:"company_name"`
	Address     string `json:"address"`
}

// updateCustomerRequest keeps field presence so a PATCH can clear a value
// without touching its siblings.
type updateCustomerRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	GSTIN       *string `json:"gstin"`
	CompanyName *string `json:"company_name"`
	Address     *string `json:"address"`
}

type customerHandler struct {
	service   ports.Service
	responder *apierrors.Responder
}

func newCustomerHandler(service ports.Service, responder *apierrors.Responder) *customerHandler {
	return &customerHandler{service: service, responder: responder}
}

func (h *customerHandler) list(c *gin.Context) {
	customers, err := h.service.ListCustomers(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	payload := make([]customerPayload, 0, len(customers))
	for _, customer := range customers {
		payload = append(payload, toCustomerPayload(customer))
	}
	c.JSON(http.StatusOK, payload)
}

func (h *customerHandler) create(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	customer, err := h.service.CreateCustomer(c.Request.Context(), &domain.Customer{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		GSTIN:       req.GSTIN,
		CompanyName: req.CompanyName,
		Address:     req.Address,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerPayload(customer))
}

func (h *customerHandler) get(c *gin.Context) {
	id, ok := pathID(c, h.responder)
	if !ok {
		return
	}
	customer, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerPayload(customer))
}

func (h *customerHandler) update(c *gin.Context) {
	id, ok := pathID(c, h.responder)
	if !ok {
		return
	}
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	customer, err := h.service.UpdateCustomer(c.Request.Context(), id, ports.UpdateCustomerInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		GSTIN:       req.GSTIN,
		CompanyName: req.CompanyName,
		Address:     req.Address,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerPayload(customer))
}

func (h *customerHandler) delete(c *gin.Context) {
	id, ok := pathID(c, h.responder)
	if !ok {
		return
	}
	if err := h.service.DeleteCustomer(c.Request.Context(), id); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toCustomerPayload(customer *domain.Customer) customerPayload {
	return customerPayload{
		ID:          customer.ID,
		Name:        customer.Name,
		Email:       customer.Email,
		Phone:       customer.Phone,
		GSTIN:       customer.GSTIN,
		CompanyName: customer.CompanyName,
		Address:     customer.Address,
		CreatedAt:   customer.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   customer.UpdatedAt.Format(time.RFC3339),
	}
}

// pathID parses the :id path parameter; on failure it responds and returns
// false.
func pathID(c *gin.Context, responder *apierrors.Responder) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		responder.Respond(c, apierrors.ErrBadRequest.WithDetail("id must be a positive integer"))
		return 0, false
	}
	return id, true
}
