package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the user id injected by the Auth middleware and performs
// a fast-fail check before any service call: a zero id means the middleware
// did not run or the token carried no subject.
func ctxUserID(c echo.Context) (uint, error) {
	id, _ := c.Get("user_id").(uint)
	if id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
