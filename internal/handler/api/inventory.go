package api

import (
	"net/http"

	reqdto "reservation-engine/internal/handler/dto/request"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// InventoryHandler serves the operator-facing inventory endpoints.
type InventoryHandler struct {
	cmds commands.InventoryCommands
}

func NewInventoryHandler(cmds commands.InventoryCommands) *InventoryHandler {
	return &InventoryHandler{cmds: cmds}
}

// @Summary Create excursion
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateExcursionRequest true "Excursion"
// @Success 201 {object} queries.ItemView
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/excursions [post]
func (h *InventoryHandler) CreateExcursion(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.Unauthorized(c, "Unauthorized")
		return
	}
	var req reqdto.CreateExcursionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	e, err := h.cmds.CreateExcursion(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		httperr.FromError(c, err, "Create excursion failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromExcursion(e))
}

// @Summary Create flight
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateFlightRequest true "Flight"
// @Success 201 {object} queries.ItemView
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/flights [post]
func (h *InventoryHandler) CreateFlight(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.Unauthorized(c, "Unauthorized")
		return
	}
	var req reqdto.CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	f, err := h.cmds.CreateFlight(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		httperr.FromError(c, err, "Create flight failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromFlight(f))
}

// @Summary Create room
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateRoomRequest true "Room type"
// @Success 201 {object} queries.ItemView
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/rooms [post]
func (h *InventoryHandler) CreateRoom(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.Unauthorized(c, "Unauthorized")
		return
	}
	var req reqdto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	r, err := h.cmds.CreateRoom(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		httperr.FromError(c, err, "Create room failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromRoom(r))
}

// @Summary Adjust capacity
// @Description Resize an item. Shrinking below what active reservations hold is rejected.
// @Tags inventory
// @Accept json
// @Security BearerAuth
// @Param kind path string true "excursions, rooms or flights"
// @Param id path string true "Item ID"
// @Param request body reqdto.AdjustCapacityRequest true "New capacity"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /admin/items/{kind}/{id}/capacity [put]
func (h *InventoryHandler) AdjustCapacity(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.Unauthorized(c, "Unauthorized")
		return
	}
	kind, id, ok := itemPath(c)
	if !ok {
		return
	}
	var req reqdto.AdjustCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	if err := h.cmds.AdjustCapacity(c.Request.Context(), actor, kind, id, req.ToInput()); err != nil {
		httperr.FromError(c, err, "Adjust capacity failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Change item status
// @Description Move an item through its lifecycle. Cancelling an item cancels its active reservations.
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "excursions or flights"
// @Param id path string true "Item ID"
// @Param request body reqdto.ChangeItemStatusRequest true "Target status"
// @Success 200 {object} resdto.ItemStatusResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/items/{kind}/{id}/status [put]
func (h *InventoryHandler) ChangeStatus(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.Unauthorized(c, "Unauthorized")
		return
	}
	kind, id, ok := itemPath(c)
	if !ok {
		return
	}
	var req reqdto.ChangeItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	result, err := h.cmds.ChangeItemStatus(c.Request.Context(), actor, kind, id, req.ToInput())
	if err != nil {
		httperr.FromError(c, err, "Change item status failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromItemStatusResult(result))
}
