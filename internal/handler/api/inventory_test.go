//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/handler/api"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"
	"reservation-engine/tests/common/builder"
	"reservation-engine/tests/common/httptest"
	"reservation-engine/tests/common/testutil"
	commandsmock "reservation-engine/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type InventoryHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockInventoryCommands
	actor        user.Actor
}

func (s *InventoryHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockInventoryCommands(s.mockCtrl)
	s.actor = user.NewActor(uuid.New(), user.RoleOperator)
	h := api.NewInventoryHandler(s.mockCommands)

	auth := fakeAuth(&s.actor)
	s.router.POST("/admin/excursions", auth, h.CreateExcursion)
	s.router.POST("/admin/flights", auth, h.CreateFlight)
	s.router.POST("/admin/rooms", auth, h.CreateRoom)
	s.router.PUT("/admin/items/:kind/:id/capacity", auth, h.AdjustCapacity)
	s.router.PUT("/admin/items/:kind/:id/status", auth, h.ChangeStatus)
}

func (s *InventoryHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestInventoryHandlerSuite(t *testing.T) {
	suite.Run(t, new(InventoryHandlerTestSuite))
}

func (s *InventoryHandlerTestSuite) TestCreate() {
	s.Run("success: excursion", func() {
		e := builder.NewExcursionBuilder().Build()
		s.mockCommands.EXPECT().CreateExcursion(gomock.Any(), s.actor, gomock.Any()).
			DoAndReturn(func(_ any, _ user.Actor, in commands.CreateExcursionInput) (*inventory.Excursion, error) {
				s.Equal(e.Title, in.Title)
				s.Equal(e.MaxGuests, in.MaxGuests)
				s.Equal(e.PricePerGuestCents, in.PricePerGuestCents)
				s.True(e.StartAt.Equal(in.StartAt))
				s.True(e.EndAt.Equal(in.EndAt))
				return e, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/excursions",
			builder.NewExcursionBuilder().BuildCreateRequestDTO(), "bearer-token")
		var body queries.ItemView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(e.ID, body.ID)
		s.Equal("EXCURSION", body.Kind)
	})

	s.Run("success: flight and room", func() {
		f := builder.NewFlightBuilder().Build()
		s.mockCommands.EXPECT().CreateFlight(gomock.Any(), s.actor, gomock.Any()).Return(f, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/flights", builder.NewFlightBuilder().BuildCreateRequestDTO(), "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)

		r := builder.NewRoomBuilder().Build()
		s.mockCommands.EXPECT().CreateRoom(gomock.Any(), s.actor, gomock.Any()).Return(r, nil)
		rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/rooms", builder.NewRoomBuilder().BuildCreateRequestDTO(), "bearer-token")
		var body queries.ItemView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Require().NotNil(body.TotalRooms)
		s.Equal(5, *body.TotalRooms)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		excursion := builder.NewExcursionBuilder().BuildCreateRequestDTO()
		room := builder.NewRoomBuilder().BuildCreateRequestDTO()
		cases := []struct {
			name string
			url  string
			body map[string]any
		}{
			{"excursion without title", "/admin/excursions", testutil.DtoMap(s.T(), excursion, testutil.Field("title", nil))},
			{"excursion negative guests", "/admin/excursions", testutil.DtoMap(s.T(), excursion, testutil.Field("max_guests", -1))},
			{"excursion without start", "/admin/excursions", testutil.DtoMap(s.T(), excursion, testutil.Field("start_at", nil))},
			{"room without capacity", "/admin/rooms", testutil.DtoMap(s.T(), room, testutil.Field("capacity", 0))},
			{"room negative price", "/admin/rooms", testutil.DtoMap(s.T(), room, testutil.Field("price_per_night_cents", -5))},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, tc.url, tc.body, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: domain validation surfaces as 400", func() {
		s.mockCommands.EXPECT().CreateFlight(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errs.ErrInvalidDateRange)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/flights", builder.NewFlightBuilder().BuildCreateRequestDTO(), "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "INVALID_DATE_RANGE")
	})
}

func (s *InventoryHandlerTestSuite) TestAdjustCapacity() {
	id := uuid.New()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().
			AdjustCapacity(gomock.Any(), s.actor, inventory.KindRoom, id, gomock.Any()).
			DoAndReturn(func(_ any, _ user.Actor, _ inventory.Kind, _ uuid.UUID, in commands.AdjustCapacityInput) error {
				s.Require().NotNil(in.TotalRooms)
				s.Equal(3, *in.TotalRooms)
				s.Nil(in.Capacity)
				return nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/admin/items/rooms/"+id.String()+"/capacity",
			map[string]any{"total_rooms": 3}, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 422 when demand exceeds the new capacity", func() {
		s.mockCommands.EXPECT().AdjustCapacity(gomock.Any(), gomock.Any(), inventory.KindExcursion, id, gomock.Any()).
			Return(errs.Wrap(errs.ErrCapacityBelowDemand, "4 guests booked"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/admin/items/excursions/"+id.String()+"/capacity",
			map[string]any{"max_guests": 2}, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusUnprocessableEntity, "CAPACITY_BELOW_DEMAND")
	})

	s.Run("error: 400 Bad Request on negative values", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/admin/items/flights/"+id.String()+"/capacity",
			map[string]any{"capacity": -1}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *InventoryHandlerTestSuite) TestChangeStatus() {
	id := uuid.New()
	url := "/admin/items/excursions/" + id.String() + "/status"

	s.Run("success: reports cascaded cancellations", func() {
		s.mockCommands.EXPECT().
			ChangeItemStatus(gomock.Any(), s.actor, inventory.KindExcursion, id, commands.ChangeItemStatusInput{Status: "cancelled"}).
			Return(&commands.ChangeItemStatusResult{Status: "CANCELLED", CancelledReservations: 4}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"status": "cancelled"}, "bearer-token")
		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("CANCELLED", body["status"])
		s.EqualValues(4, body["cancelled_reservations"])
	})

	s.Run("error: 409 Conflict on an illegal transition", func() {
		s.mockCommands.EXPECT().ChangeItemStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrInvalidTransition)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"status": "UPCOMING"}, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "INVALID_TRANSITION")
	})

	s.Run("error: 400 Bad Request without a status", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}
