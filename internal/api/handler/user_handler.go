package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/userhub/users-api/internal/api/metrics"
	"github.com/userhub/users-api/internal/core/domain"
	"github.com/userhub/users-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user account operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{Errors: []string{"id must be a positive integer"}}
	}
	return uint(id), nil
}

// Create handles POST /api/users.
//
// @Summary      Create a new user account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in, err := toCreateInput(req)
	if err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.Request().Context(), in)
	if err != nil {
		return err
	}

	metrics.CreatedTotal.Inc()
	return c.JSON(http.StatusCreated, ok("user created", userData{User: user}))
}

// List handles GET /api/users.
//
// @Summary      List users with pagination and filters
// @Tags         users
// @Produce      json
// @Param        page       query  int     false  "Page (1-based)"
// @Param        limit      query  int     false  "Rows per page (1-100)"
// @Param        status     query  string  false  "Filter by account status"
// @Param        search     query  string  false  "Substring match on username, full name or email"
// @Param        sortBy     query  string  false  "created_at, username, last_login_at, login_count"
// @Param        sortOrder  query  string  false  "asc or desc"
// @Success      200  {object}  envelope
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	result, err := h.service.GetUserList(c.Request().Context(), ports.ListUsersInput{
		Status:    c.QueryParam("status"),
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return err
	}

	resp := ok("users retrieved", userListData{Users: result.Users})
	resp.Pagination = toPagination(result)
	return c.JSON(http.StatusOK, resp)
}

// Search handles GET /api/users/search.
//
// @Summary      Search users by keyword
// @Tags         users
// @Produce      json
// @Param        keyword  query  string  true   "Keyword matched against username, full name and email"
// @Param        page     query  int     false  "Page (1-based)"
// @Param        limit    query  int     false  "Rows per page (1-100)"
// @Success      200  {object}  envelope
// @Router       /api/users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	result, err := h.service.SearchUsers(c.Request().Context(), ports.SearchUsersInput{
		Keyword: c.QueryParam("keyword"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	resp := ok("search results", searchData{Users: result.Users, Keyword: result.Keyword})
	resp.Pagination = toPagination(result)
	return c.JSON(http.StatusOK, resp)
}

// Statistics handles GET /api/users/statistics.
//
// @Summary      Aggregate account statistics
// @Tags         users
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /api/users/statistics [get]
func (h *UserHandler) Statistics(c echo.Context) error {
	stats, err := h.service.GetUserStatistics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("statistics retrieved", stats))
}

// GetByUsername handles GET /api/users/username/:username.
func (h *UserHandler) GetByUsername(c echo.Context) error {
	user, err := h.service.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("user retrieved", userData{User: user}))
}

// GetByID handles GET /api/users/:id. The include_private query flag returns
// the full record instead of the public projection; the password hash is
// excluded from JSON either way.
func (h *UserHandler) GetByID(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	includePrivate, _ := strconv.ParseBool(c.QueryParam("include_private"))
	full, public, err := h.service.GetUserByID(c.Request().Context(), id, includePrivate)
	if err != nil {
		return err
	}

	if includePrivate {
		return c.JSON(http.StatusOK, ok("user retrieved", userData{User: full}))
	}
	return c.JSON(http.StatusOK, ok("user retrieved", userData{User: public}))
}

// Update handles PUT /api/users/:id.
//
// @Summary      Update a user account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	in, err := toUpdateInput(req)
	if err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("user updated", userData{User: user}))
}

// Delete handles DELETE /api/users/:id (soft delete).
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.DeletedTotal.Inc()
	return c.JSON(http.StatusOK, ok("user deleted", nil))
}

// Restore handles POST /api/users/:id/restore.
func (h *UserHandler) Restore(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, err := h.service.RestoreUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("user restored", userData{User: user}))
}

// VerifyEmail handles POST /api/users/:id/verify-email.
func (h *UserHandler) VerifyEmail(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, err := h.service.VerifyEmail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	metrics.EmailsVerifiedTotal.Inc()
	return c.JSON(http.StatusOK, ok("email verified", userData{User: user}))
}
