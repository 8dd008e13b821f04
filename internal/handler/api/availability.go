package api

import (
	"net/http"

	"reservation-engine/internal/domain/inventory"
	reqdto "reservation-engine/internal/handler/dto/request"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Check availability
// @Description Advisory availability check. Nothing is held; booking re-checks inside its transaction.
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param kind query string true "EXCURSION, ROOM or FLIGHT"
// @Param item_id query string true "Item ID"
// @Param start_at query string false "Room check-in (RFC3339)"
// @Param end_at query string false "Room check-out (RFC3339)"
// @Param requested query int false "Units requested (default 1)"
// @Success 200 {object} queries.AvailabilityView
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	var req reqdto.CheckAvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.FromError(c, err, "Invalid availability query")
		return
	}

	view, err := h.q.CheckAvailability(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err, "Availability check failed")
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Get item
// @Description Get an inventory item by kind and ID
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param kind path string true "excursions, rooms or flights"
// @Param id path string true "Item ID"
// @Success 200 {object} queries.ItemView
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /items/{kind}/{id} [get]
func (h *AvailabilityHandler) GetItem(c *gin.Context) {
	kind, id, ok := itemPath(c)
	if !ok {
		return
	}
	view, err := h.q.GetItem(c.Request.Context(), kind, id)
	if err != nil {
		httperr.FromError(c, err, "Item not found")
		return
	}
	c.JSON(http.StatusOK, view)
}

var pathKinds = map[string]inventory.Kind{
	"excursions": inventory.KindExcursion,
	"rooms":      inventory.KindRoom,
	"flights":    inventory.KindFlight,
}

// itemPath parses /:kind/:id, aborting with 400 on failure.
func itemPath(c *gin.Context) (inventory.Kind, uuid.UUID, bool) {
	kind, known := pathKinds[c.Param("kind")]
	if !known {
		parsed, err := inventory.ParseKind(c.Param("kind"))
		if err != nil {
			httperr.FromError(c, err, "Unknown inventory kind")
			return "", uuid.Nil, false
		}
		kind = parsed
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid item ID format", nil)
		return "", uuid.Nil, false
	}
	return kind, id, true
}
