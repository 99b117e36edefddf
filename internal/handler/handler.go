package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "github.com/Opeso2580/eduplatform/internal/errors"
	"github.com/Opeso2580/eduplatform/internal/model"
)

// CurrentUserKey is the echo context key under which the role gates stash
// the freshly-loaded user record.
const CurrentUserKey = "currentUser"

// httpError converts a domain error into the standard error payload.
func httpError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// currentUser returns the gate-loaded user, or nil outside a gated route.
func currentUser(c echo.Context) *model.User {
	user, _ := c.Get(CurrentUserKey).(*model.User)
	return user
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
