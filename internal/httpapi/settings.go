package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/billfinity/backoffice/internal/domains/settings/domain"
	"github.com/billfinity/backoffice/internal/domains/settings/ports"
	apierrors "github.com/billfinity/backoffice/internal/shared/errors"
)

type settingsPayload struct {
	CompanyName       string `json:"company_name"`
	Address           string `json:"address"`
	Currency          string `json:"currency"`
	EmailUpdates      bool   `json:"email_updates"`
	SMSAlerts         bool   `json:"sms_alerts"`
	LowStockReminders bool   `json:"low_stock_reminders"`
	UpdatedAt         string `json:"updated_at"`
}

type updateSettingsRequest struct {
	CompanyName       *string `json:"company_name"`
	Address           *string `json:"address"`
	Currency          *string `json:"currency"`
	EmailUpdates      *bool   `json:"email_updates"`
	SMSAlerts         *bool   `json:"sms_alerts"`
	LowStockReminders *bool   `json:"low_stock_reminders"`
}

type settingsHandler struct {
	service   ports.Service
	responder *apierrors.Responder
}

func newSettingsHandler(service ports.Service, responder *apierrors.Responder) *settingsHandler {
	return &settingsHandler{service: service, responder: responder}
}

func (h *settingsHandler) get(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSettingsPayload(settings))
}

func (h *settingsHandler) update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	settings, err := h.service.UpdateSettings(c.Request.Context(), ports.UpdateSettingsInput{
		CompanyName:       req.CompanyName,
		Address:           req.Address,
		Currency:          req.Currency,
		EmailUpdates:      req.EmailUpdates,
		SMSAlerts:         req.SMSAlerts,
		LowStockReminders: req.LowStockReminders,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSettingsPayload(settings))
}

func toSettingsPayload(settings *domain.Settings) settingsPayload {
	return settingsPayload{
		CompanyName:       settings.CompanyName,
		Address:           settings.Address,
		Currency:          settings.Currency,
		EmailUpdates:      settings.EmailUpdates,
		SMSAlerts:         settings.SMSAlerts,
		LowStockReminders: settings.LowStockReminders,
		UpdatedAt:         settings.UpdatedAt.Format(time.RFC3339),
	}
}
