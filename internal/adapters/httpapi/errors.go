package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// errorEnvelope is the wire shape of every non-2xx response.
type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// mapError turns a domain error into status + envelope. OutOfTurn and
// IllegalState both answer 409 but keep distinct codes so clients can
// tell a turn violation from a wrong-phase call.
func mapError(err error) (int, errorEnvelope) {
	var (
		badRequest *shared.BadRequestError
		notFound   *shared.NotFoundError
		forbidden  *shared.ForbiddenError
		illegal    *shared.IllegalStateError
		outOfTurn  *shared.OutOfTurnError
		conflict   *shared.ConflictError
	)
	switch {
	case errors.As(err, &badRequest):
		return http.StatusBadRequest, errorEnvelope{Code: "BAD_REQUEST", Message: err.Error()}
	case errors.As(err, &notFound):
		return http.StatusNotFound, errorEnvelope{Code: "NOT_FOUND", Message: err.Error()}
	case errors.As(err, &forbidden):
		return http.StatusForbidden, errorEnvelope{Code: "FORBIDDEN", Message: err.Error()}
	case errors.As(err, &outOfTurn):
		return http.StatusConflict, errorEnvelope{Code: "OUT_OF_TURN", Message: err.Error()}
	case errors.As(err, &illegal):
		return http.StatusConflict, errorEnvelope{Code: "ILLEGAL_STATE", Message: err.Error()}
	case errors.As(err, &conflict):
		return http.StatusConflict, errorEnvelope{Code: "CONFLICT", Message: err.Error()}
	default:
		return http.StatusInternalServerError, errorEnvelope{Code: "INTERNAL", Message: "internal server error"}
	}
}

// newErrorHandler builds the echo HTTPErrorHandler: domain errors go
// through mapError, echo's own errors (unknown route, rate limit)
// keep their status. Internal errors are logged with their cause; the
// envelope never carries it.
func newErrorHandler(logger *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var status int
		var envelope errorEnvelope

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			envelope = errorEnvelope{
				Code:    statusCode(status),
				Message: messageOf(httpErr),
			}
		} else {
			status, envelope = mapError(err)
		}

		if status >= http.StatusInternalServerError {
			logger.Errorw("request failed",
				"method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(status); err != nil {
				logger.Warnw("failed to write error response", "error", err)
			}
			return
		}
		if err := c.JSON(status, envelope); err != nil {
			logger.Warnw("failed to write error response", "error", err)
		}
	}
}

// statusCode derives a stable envelope code from an HTTP status,
// e.g. 429 -> TOO_MANY_REQUESTS.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

func messageOf(err *echo.HTTPError) string {
	if msg, ok := err.Message.(string); ok {
		return msg
	}
	return http.StatusText(err.Code)
}
