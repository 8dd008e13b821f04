package api

import (
	"crypto/subtle"
	"net/http"

	reqdto "reservation-engine/internal/handler/dto/request"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const webhookSecretHeader = "X-Webhook-Secret"

var errBadWebhookSecret = errs.New("webhook secret mismatch")

type PaymentHandler struct {
	cmds          commands.PaymentCommands
	webhookSecret []byte
}

func NewPaymentHandler(cmds commands.PaymentCommands, cfg config.PaymentConfig) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, webhookSecret: []byte(cfg.WebhookSecret)}
}

// @Summary Initiate payment
// @Description Start (or restart) payment for a pending reservation and return the processor's authorization URL.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.InitiatePaymentRequest true "Payment method"
// @Success 200 {object} resdto.PaymentSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/payments [post]
func (h *PaymentHandler) Initiate(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.Unauthorized(c, "Unauthorized")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}
	var req reqdto.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	session, err := h.cmds.InitiatePayment(c.Request.Context(), actor, id, req.Method)
	if err != nil {
		httperr.FromError(c, err, "Initiate payment failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentSession(session))
}

// @Summary Payment webhook
// @Description Processor callback carrying a payment outcome. Replays are acknowledged without effect.
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Webhook-Secret header string true "Shared webhook secret"
// @Param request body reqdto.PaymentWebhookRequest true "Outcome"
// @Success 200 {object} resdto.PaymentOutcomeResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /webhooks/payments [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	given := []byte(c.GetHeader(webhookSecretHeader))
	if len(h.webhookSecret) == 0 || subtle.ConstantTimeCompare(given, h.webhookSecret) != 1 {
		httperr.AbortWithError(c, http.StatusUnauthorized, errBadWebhookSecret, "Invalid webhook secret", nil)
		return
	}

	var req reqdto.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	outcome, err := req.ToOutcome()
	if err != nil {
		httperr.FromError(c, err, "Invalid payment outcome")
		return
	}

	result, err := h.cmds.OnPaymentOutcome(c.Request.Context(), outcome)
	if err != nil {
		var detail any
		if result != nil {
			detail = resdto.FromPaymentOutcome(result)
		}
		if errs.Is(err, errs.ErrAmountMismatch) {
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Payment amount does not match reservation", detail)
			return
		}
		httperr.FromError(c, err, "Payment outcome rejected")
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentOutcome(result))
}
