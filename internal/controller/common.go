package controller

import (
	"errors"
	"net/http"

	"sajilokaam-api/internal/gateway"
	"sajilokaam-api/internal/service"

	"github.com/labstack/echo"
)

const (
	defaultLimit  = 20
	defaultOffset = 0

	// set by the identity provider in front of this service
	callerHeader = "X-User-Id"
)

type errorResponse struct {
	Reason string `json:"reason"`
}

func callerId(c echo.Context) (string, bool) {
	id := c.Request().Header.Get(callerHeader)

	return id, id != ""
}

func respondUnauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{"Caller identity missing"})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// conflicts are reported as already-processed rather than generic failures,
// gateway trouble is a bad-gateway, everything else falls through as a 400.
func respondServiceError(c echo.Context, err error) error {
	var gwErr *gateway.Error
	switch {
	case service.IsNotFound(err):
		return c.JSON(http.StatusNotFound, errorResponse{err.Error()})
	case service.IsConflict(err):
		return c.JSON(http.StatusConflict, errorResponse{"Already processed: " + err.Error()})
	case service.IsAuthorization(err):
		return c.JSON(http.StatusForbidden, errorResponse{err.Error()})
	case service.IsValidation(err):
		return c.JSON(http.StatusBadRequest, errorResponse{err.Error()})
	case errors.As(err, &gwErr):
		return c.JSON(http.StatusBadGateway, errorResponse{"Payment gateway unavailable, try again"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{"Internal error"})
	}
}
