package handlers

import (
	"errors"
	"strconv"

	"github.com/s-puig/ecommerce-demo/internal/core/domain"
	"github.com/s-puig/ecommerce-demo/internal/core/services"
	"github.com/s-puig/ecommerce-demo/internal/pkg/identity"
	"github.com/s-puig/ecommerce-demo/internal/pkg/pagination"
	"github.com/s-puig/ecommerce-demo/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers handles listing all users (Administrator only)
// @Summary List all users
// @Description Get a paginated list of users (Administrator only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param include query string false "Set to 'all' to disable visibility filtering"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.List(c.Context(), flagsFrom(c), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	items := make([]interface{}, len(users))
	for i, u := range users {
		items[i] = u.ToResponse()
	}

	return response.Success(c, "Users retrieved", pagination.NewResponse(items, params, total))
}

// GetUser handles getting a user by ID (self or administrator)
// @Summary Get user by ID
// @Description Get a specific user (self or Administrator)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	caller, ok := identity.FromContext(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	if caller.UserID != uint(id) && !caller.IsAdministrator() {
		return response.Forbidden(c, "You don't have permission to access this resource")
	}

	user, err := h.userService.FindByIDWith(c.Context(), uint(id), flagsFrom(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved", fiber.Map{
		"user": user.ToResponse(),
	})
}

// UpdateUser handles updating a user (self or administrator)
// @Summary Update user
// @Description Apply a partial update to a user. Role and active changes require Administrator.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	caller, ok := identity.FromContext(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	if caller.UserID != uint(id) && !caller.IsAdministrator() {
		return response.Forbidden(c, "You don't have permission to access this resource")
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, validationMessage(err))
	}

	// Only administrators may change role or active status
	if !caller.IsAdministrator() {
		input.Role = nil
		input.Active = nil
	}

	user, err := h.userService.UpdateByIDWith(c.Context(), uint(id), &input, flagsFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.Conflict(c, "Email already in use")
		case errors.Is(err, domain.ErrConcurrentModification):
			return response.Conflict(c, "User was modified concurrently, please retry")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated", fiber.Map{
		"user": user.ToResponse(),
	})
}

// DeleteUser handles soft-deleting a user (Administrator only)
// @Summary Soft-delete user
// @Description Mark a user as deleted (Administrator only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "No Content"
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	if callerID, ok := identity.FromContext(c); ok && callerID.UserID == uint(id) {
		return response.BadRequest(c, "Cannot delete your own account")
	}

	if err := h.userService.DeleteByID(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrConcurrentModification):
			return response.Conflict(c, "User was modified concurrently, please retry")
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.NoContent(c)
}
