package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go-hiring-backend/config"
	"go-hiring-backend/internal/delivery/http/response"
	"go-hiring-backend/internal/domain"
	"go-hiring-backend/pkg/calendly"
	"go-hiring-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	bridgeUC domain.CalendarBridgeUsecase
	cfg      *config.Config
}

// NewWebhookHandler registers the inbound webhook route. The route is public:
// authenticity comes from the provider signature, not a bearer token.
func NewWebhookHandler(r *gin.RouterGroup, bridgeUC domain.CalendarBridgeUsecase, cfg *config.Config) {
	handler := &WebhookHandler{bridgeUC: bridgeUC, cfg: cfg}
	r.POST("/webhooks/calendly", handler.HandleCalendly)
}

// HandleCalendly godoc
// @Summary      Calendly webhook receiver
// @Description  Consumes invitee.created / invitee.canceled / invitee.updated events
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /webhooks/calendly [post]
func (h *WebhookHandler) HandleCalendly(c *gin.Context) {
	// The signature covers the raw body, so read it before any binding
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Unreadable request body", nil)
		return
	}

	sigHeader := c.GetHeader(calendly.SignatureHeader)
	if err := calendly.VerifySignature(body, sigHeader, h.cfg.CalendlySigningKey); err != nil {
		unverifiable := errors.Is(err, calendly.ErrMissingSignature) || errors.Is(err, calendly.ErrMissingSigningKey)
		if unverifiable && !h.cfg.IsProduction() {
			// Local/staging providers often cannot sign; tolerate with a warning
			logger.Log.Warn("calendly webhook accepted without verification (non-production)", "reason", err)
		} else {
			logger.Log.Warn("calendly webhook signature rejected", "error", err)
			response.Error(c, http.StatusUnauthorized, "Invalid webhook signature", nil)
			return
		}
	}

	var event calendly.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil || event.Event == "" || event.Payload.EventURI == "" {
		response.Error(c, http.StatusBadRequest, "Malformed webhook payload", nil)
		return
	}

	if err := h.bridgeUC.HandleEvent(c, event.Event, event.Payload.EventURI, event.Payload.InviteeURI); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The provider has no way to know the event isn't ours; ack and move on
			logger.Log.Info("calendly event for unknown event uri ignored", "event_uri", event.Payload.EventURI)
			response.Success(c, http.StatusOK, "Event ignored", nil)
			return
		}
		// Acknowledge anyway: a retry storm on a transient internal error
		// helps nobody, and the bridge is idempotent
		logger.Log.Error("calendly event processing failed", "event", event.Event, "error", err)
		response.Success(c, http.StatusOK, "Event received", nil)
		return
	}

	response.Success(c, http.StatusOK, "Event processed", nil)
}
