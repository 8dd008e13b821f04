package api

import (
	"net/http"

	reqdto "reservation-engine/internal/handler/dto/request"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

type ReservationHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q}
}

// @Summary Create reservation
// @Description Book an excursion, room or flight. Replays with the same Idempotency-Key return the original reservation.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Success 200 {object} resdto.ReservationResponse "Idempotent replay"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.Unauthorized(c, "Unauthorized")
		return
	}

	idempotencyKey, err := optionalIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid idempotency key format", nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.FromError(c, err, "Invalid reservation request")
		return
	}

	result, err := h.cmds.CreateReservation(c.Request.Context(), actor, in, idempotencyKey)
	if err != nil {
		httperr.FromError(c, err, "Create reservation failed")
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromReservationResult(result))
}

// @Summary Get reservation
// @Description Get reservation by ID
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} queries.ReservationView
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
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

	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.FromError(c, err, "Reservation not found")
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List reservations
// @Description Keyset-paginated reservations of a customer, newest first. Staff may pass customer_id.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param customer_id query string false "Customer ID (staff only)"
// @Param after query string false "Cursor from a previous page"
// @Param limit query int false "Page size (default 20, max 200)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.Unauthorized(c, "Unauthorized")
		return
	}
	var req reqdto.ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	customerID, err := req.Customer(actor.ID)
	if err != nil {
		httperr.FromError(c, err, "Invalid customer_id")
		return
	}

	items, next, err := h.q.ListByCustomer(c.Request.Context(), actor, customerID, req.Cursor(), req.Limit)
	if err != nil {
		httperr.FromError(c, err, "List reservations failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationList(items, next))
}

// @Summary Update reservation
// @Description Change item, quantity, guests, dates, special requests or status. Allocation changes re-run the availability check.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.UpdateReservationRequest true "Fields to change"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id} [patch]
func (h *ReservationHandler) Update(c *gin.Context) {
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
	var req reqdto.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		httperr.FromError(c, err, "Invalid reservation update")
		return
	}

	result, err := h.cmds.UpdateReservation(c.Request.Context(), actor, id, patch)
	if err != nil {
		httperr.FromError(c, err, "Update reservation failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationResult(result))
}

// @Summary Cancel reservation
// @Description Cancel and release held inventory. A completed payment must be refunded first.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
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

	res, err := h.cmds.CancelReservation(c.Request.Context(), actor, id)
	if err != nil {
		httperr.FromError(c, err, "Cancel reservation failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(res))
}

// @Summary Delete reservation
// @Description Delete an unpaid reservation, or cancel it when payment state forbids deletion.
// @Tags reservations
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c *gin.Context) {
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

	if err := h.cmds.CancelOrDeleteReservation(c.Request.Context(), actor, id); err != nil {
		httperr.FromError(c, err, "Delete reservation failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// optionalIdempotencyKey returns nil when the header is absent.
func optionalIdempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	keyStr := c.GetHeader(idempotencyKeyHeader)
	if keyStr == "" {
		return nil, nil
	}
	key, err := uuid.Parse(keyStr)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
