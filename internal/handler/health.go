// Package handler contains the HTTP handlers.  Handlers bind and
// validate request bodies, delegate to the booking coordinator, the
// promotion evaluator or a repository, and translate the typed errors
// they get back into HTTP statuses.  No business rules live here.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness endpoint used by load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
