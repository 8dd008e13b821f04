package httperr

import (
	"errors"
	"net/http"
	"strconv"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

// RetryAfterSeconds is advertised on retryable contention responses.
const RetryAfterSeconds = 1

var errUnauthenticated = errors.New("unauthenticated")

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}
	abort(c, status, err, msg, "", detail)
}

func Unauthorized(c *gin.Context, msg string) {
	abort(c, http.StatusUnauthorized, errUnauthenticated, msg, "UNAUTHENTICATED", nil)
}

type mapping struct {
	target error
	status int
	code   string
}

// First match wins; more specific sentinels come first.
var mappings = []mapping{
	{errs.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{errs.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{errs.ErrInvalidDateRange, http.StatusBadRequest, "INVALID_DATE_RANGE"},
	{errs.ErrValidation, http.StatusBadRequest, "VALIDATION_FAILED"},
	{errs.ErrInsufficientInventory, http.StatusConflict, "INSUFFICIENT_INVENTORY"},
	{errs.ErrContention, http.StatusConflict, "CONTENTION"},
	{errs.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{errs.ErrRefundRequired, http.StatusConflict, "REFUND_REQUIRED"},
	{errs.ErrImmutableReservation, http.StatusConflict, "IMMUTABLE_RESERVATION"},
	{errs.ErrIdempotencyInProgress, http.StatusConflict, "IDEMPOTENCY_IN_PROGRESS"},
	{errs.ErrIdempotencyMismatch, http.StatusUnprocessableEntity, "IDEMPOTENCY_MISMATCH"},
	{errs.ErrPaymentRequired, http.StatusPaymentRequired, "PAYMENT_REQUIRED"},
	{errs.ErrAmountMismatch, http.StatusUnprocessableEntity, "AMOUNT_MISMATCH"},
	{errs.ErrCapacityBelowDemand, http.StatusUnprocessableEntity, "CAPACITY_BELOW_DEMAND"},
	{errs.ErrNotBookable, http.StatusUnprocessableEntity, "NOT_BOOKABLE"},
}

// Classify returns the HTTP status and machine code for a usecase error.
// Unknown errors are 500; storage outages are 503.
func Classify(err error) (int, string) {
	for _, m := range mappings {
		if errs.Is(err, m.target) {
			return m.status, m.code
		}
	}
	if errs.Is(err, shared.ErrStorageUnavailable) {
		return http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// FromError aborts the request with the status the taxonomy maps err to.
func FromError(c *gin.Context, err error, msg string) {
	status, code := Classify(err)

	var detail any
	var insufficient *inventory.InsufficientInventoryError
	if errors.As(err, &insufficient) {
		detail = gin.H{
			"kind":      insufficient.Kind.String(),
			"item_id":   insufficient.ItemID,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		}
	}

	if code == "CONTENTION" || status == http.StatusServiceUnavailable {
		c.Header("Retry-After", strconv.Itoa(RetryAfterSeconds))
	}

	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	abort(c, status, err, msg, code, detail)
}

func abort(c *gin.Context, status int, err error, msg, code string, detail any) {
	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Code = code
	resp.Detail = detail

	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
