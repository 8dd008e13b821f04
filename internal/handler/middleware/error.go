package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"reservation-engine/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders errors a handler recorded with c.Error without writing
// a response. Public errors carry their prepared httperr.Response; anything
// else goes through the error taxonomy.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		if last == nil {
			if c.Writer.Status() == http.StatusOK {
				internalError(c)
			}
			return
		}
		if resp, ok := last.Meta.(httperr.Response); ok && last.IsType(gin.ErrorTypePublic) {
			c.JSON(resp.Status, resp)
			return
		}
		httperr.FromError(c, last.Err, "Request failed")
	}
}

// Recovery turns a panic into a 500 and logs it with the request id and stack.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			logger.ErrorContext(c.Request.Context(), "panic recovered",
				"panic", rec,
				"request_id", GetRequestID(c),
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)
			internalError(c)
		}()
		c.Next()
	}
}

func internalError(c *gin.Context) {
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Message = http.StatusText(http.StatusInternalServerError)
	resp.Error.Code = "INTERNAL"
	c.AbortWithStatusJSON(resp.Status, resp)
}
