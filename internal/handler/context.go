package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

var errNoIdentity = errors.New("no identity in context")

// currentUser reads the identity JWTAuth stored in the context.
func currentUser(c echo.Context) (uint64, string, error) {
	id, ok := c.Get("user_id").(uint64)
	if !ok || id == 0 {
		return 0, "", errNoIdentity
	}
	role, _ := c.Get("role").(string)
	return id, role, nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
