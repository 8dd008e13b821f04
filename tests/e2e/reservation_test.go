//go:build e2e

package e2e

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"reservation-engine/internal/domain/inventory"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/usecase/queries"
	"reservation-engine/tests/common/builder"
	"reservation-engine/tests/common/dbtest"
	"reservation-engine/tests/common/httptest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type ReservationE2ESuite struct {
	SharedSuite
}

func TestReservationE2E(t *testing.T) {
	suite.Run(t, new(ReservationE2ESuite))
}

func (s *ReservationE2ESuite) book(token string, body map[string]any, headers map[string]string) (*resdto.ReservationResponse, int) {
	rec := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/reservations", body, token, headers)
	if rec.Code != http.StatusCreated && rec.Code != http.StatusOK {
		return nil, rec.Code
	}
	var res resdto.ReservationResponse
	httptest.AssertSuccessResponse(s.T(), rec, rec.Code, &res)
	return &res, rec.Code
}

func (s *ReservationE2ESuite) TestBookPayConfirm() {
	_, operator := s.JWT.Operator(s.T())
	_, customer := s.JWT.Customer(s.T())

	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/excursions",
		builder.NewExcursionBuilder().BuildCreateRequestDTO(), operator)
	var item queries.ItemView
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &item)

	res, code := s.book(customer, map[string]any{"kind": "excursion", "item_id": item.ID, "quantity": 2}, nil)
	s.Require().Equal(http.StatusCreated, code)
	expected := &resdto.ReservationResponse{
		Kind:        "EXCURSION",
		ItemID:      item.ID,
		Status:      "PENDING",
		Quantity:    2,
		Guests:      2,
		AmountCents: 10000,
		Price:       &resdto.PriceResponse{UnitPriceCents: 5000, Units: 2, TotalCents: 10000},
	}
	opts := []cmp.Option{
		cmpopts.IgnoreFields(resdto.ReservationResponse{}, "ID", "CustomerID", "StartAt", "EndAt",
			"PaymentDeadline", "ImmediatePayment", "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(resdto.PriceResponse{}, "Nights"),
	}
	if diff := cmp.Diff(expected, res, opts...); diff != "" {
		s.T().Errorf("reservation mismatch (-want +got):\n%s", diff)
	}
	s.Equal(2, dbtest.ExcursionGuestsBooked(s.T(), s.DB, item.ID))

	rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/reservations/"+res.ID.String()+"/payments",
		map[string]any{"method": "card"}, customer)
	var session resdto.PaymentSessionResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &session)
	s.NotEmpty(session.Reference)

	rec = httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/webhooks/payments",
		map[string]any{"reference": session.Reference, "status": "COMPLETED", "amount_cents": res.AmountCents},
		"", map[string]string{"X-Webhook-Secret": s.Config.Payment.WebhookSecret})
	var outcome resdto.PaymentOutcomeResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &outcome)
	s.Equal("CONFIRMED", outcome.ReservationStatus)

	s.Equal("CONFIRMED", dbtest.ReservationStatus(s.T(), s.DB, res.ID))
	s.Equal(2, dbtest.ExcursionGuestsBooked(s.T(), s.DB, item.ID))

	rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/reservations/"+res.ID.String()+"/cancel", nil, customer)
	httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "REFUND_REQUIRED")
}

func (s *ReservationE2ESuite) TestConcurrentBookingsNeverOversell() {
	e := builder.NewExcursionBuilder().WithCapacity(5, 0).Build()
	dbtest.InsertExcursion(s.T(), s.DB, e)

	const callers = 12
	tokens := make([]string, callers)
	for i := range tokens {
		_, tokens[i] = s.JWT.Customer(s.T())
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
	)
	for i := range callers {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/reservations",
				map[string]any{"kind": "EXCURSION", "item_id": e.ID, "quantity": 1}, token)
			mu.Lock()
			codes[rec.Code]++
			mu.Unlock()
		}(tokens[i])
	}
	wg.Wait()

	s.Equal(5, codes[http.StatusCreated])
	s.Equal(callers-5, codes[http.StatusConflict])
	s.Equal(5, dbtest.ExcursionGuestsBooked(s.T(), s.DB, e.ID))
}

func (s *ReservationE2ESuite) TestIdempotentReplay() {
	f := builder.NewFlightBuilder().WithSeats(10, 10).Build()
	dbtest.InsertFlight(s.T(), s.DB, f)
	_, customer := s.JWT.Customer(s.T())

	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	body := map[string]any{"kind": "FLIGHT", "item_id": f.ID, "quantity": 3}

	first, code := s.book(customer, body, headers)
	s.Require().Equal(http.StatusCreated, code)
	replay, code := s.book(customer, body, headers)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(first.ID, replay.ID)
	s.Equal(7, dbtest.FlightSeatsAvailable(s.T(), s.DB, f.ID))

	body["quantity"] = 4
	rec := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/reservations", body, customer, headers)
	httptest.AssertErrorCode(s.T(), rec, http.StatusUnprocessableEntity, "IDEMPOTENCY_MISMATCH")
}

func (s *ReservationE2ESuite) TestRoomStaysRespectOverlap() {
	r := builder.NewRoomBuilder().WithRooms(1, 2).Build()
	dbtest.InsertRoom(s.T(), s.DB, r)
	_, customer := s.JWT.Customer(s.T())

	stay := func(start, end time.Time) map[string]any {
		return map[string]any{"kind": "ROOM", "item_id": r.ID, "quantity": 1, "start_at": start, "end_at": end}
	}
	in, out := builder.Stay(10, 3)

	_, code := s.book(customer, stay(in, out), nil)
	s.Require().Equal(http.StatusCreated, code)

	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/reservations",
		stay(in.Add(24*time.Hour), out.Add(24*time.Hour)), customer)
	detail := httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "INSUFFICIENT_INVENTORY")
	s.Equal(inventory.KindRoom.String(), detail["kind"])

	_, code = s.book(customer, stay(out, out.Add(48*time.Hour)), nil)
	s.Equal(http.StatusCreated, code)
}

func (s *ReservationE2ESuite) TestStartedExcursionRejectsBookings() {
	e := builder.NewExcursionBuilder().StartingAt(time.Now().Add(-10 * time.Minute)).Build()
	dbtest.InsertExcursion(s.T(), s.DB, e)
	_, customer := s.JWT.Customer(s.T())

	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/reservations",
		map[string]any{"kind": "EXCURSION", "item_id": e.ID, "quantity": 2}, customer)
	httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "INVALID_DATE_RANGE")

	// the counter update refuses on its own, whatever the caller checked
	rows, err := sqlstore.New().ReserveExcursionGuests(context.Background(), s.DB, e.ID, 1)
	s.Require().NoError(err)
	s.Zero(rows)
	s.Equal(0, dbtest.ExcursionGuestsBooked(s.T(), s.DB, e.ID))
}

func (s *ReservationE2ESuite) TestDeadlineSweepReleasesInventory() {
	e := builder.NewExcursionBuilder().Build()
	dbtest.InsertExcursion(s.T(), s.DB, e)
	_, customer := s.JWT.Customer(s.T())
	_, operator := s.JWT.Operator(s.T())

	res, code := s.book(customer, map[string]any{"kind": "EXCURSION", "item_id": e.ID, "quantity": 4}, nil)
	s.Require().Equal(http.StatusCreated, code)
	dbtest.ForceDeadline(s.T(), s.DB, res.ID, time.Now().Add(-time.Minute))

	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/jobs/deadline-sweeper/run", nil, operator)
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusAccepted, nil)

	s.Equal("CANCELLED", dbtest.ReservationStatus(s.T(), s.DB, res.ID))
	s.Equal(0, dbtest.ExcursionGuestsBooked(s.T(), s.DB, e.ID))

	rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/jobs/deadline-sweeper/run", nil, customer)
	httptest.AssertErrorCode(s.T(), rec, http.StatusForbidden, "FORBIDDEN")

	s.Positive(s.PendingEvents())
	for i := 0; i < 20 && s.PendingEvents() > 0; i++ {
		s.RunJob("outbox-relay")
	}
	s.Zero(s.PendingEvents())
}
