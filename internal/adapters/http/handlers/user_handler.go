package handlers

import (
	"errors"

	"cityguard/internal/core/domain"
	"cityguard/internal/core/services"
	"cityguard/internal/pkg/pagination"
	"cityguard/internal/pkg/response"
	"cityguard/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user profile and admin user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the current user's profile
// @Summary Get current user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	user, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "المستخدم غير موجود")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء جلب البيانات")
	}

	return response.Success(c, "تم جلب البيانات بنجاح", fiber.Map{"user": user})
}

// UpdateProfile updates the current user's profile
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}
	if fieldErrors := validation.Struct(&input); fieldErrors != nil {
		return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
	}

	user, err := h.userService.UpdateProfile(c.Context(), userID, &input)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "المستخدم غير موجود")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء تحديث البيانات")
	}

	return response.Success(c, "تم تحديث البيانات بنجاح", fiber.Map{"user": user})
}

// ChangePassword changes the current user's password
// @Summary Change password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Passwords"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/me/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}
	if fieldErrors := validation.Struct(&input); fieldErrors != nil {
		return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
	}

	if err := h.userService.ChangePassword(c.Context(), userID, &input); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPassword):
			return response.Unauthorized(c, "كلمة المرور الحالية غير صحيحة")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "المستخدم غير موجود")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء تغيير كلمة المرور")
		}
	}

	return response.Success(c, "تم تغيير كلمة المرور بنجاح", nil)
}

// ListUsers lists users (admin)
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by name or email"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, meta, err := h.userService.ListUsers(c.Context(), c.Query("search"), params)
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء جلب المستخدمين")
	}

	return response.Success(c, "تم جلب المستخدمين بنجاح", fiber.Map{
		"users": users,
		"meta":  meta,
	})
}

// GetUser returns one user (admin)
// @Summary Get user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "معرف المستخدم غير صالح")
	}

	user, err := h.userService.GetUser(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "المستخدم غير موجود")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء جلب المستخدم")
	}

	return response.Success(c, "تم جلب المستخدم بنجاح", fiber.Map{"user": user})
}

// CreateUser creates a user with an explicit role (admin)
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AdminCreateUserInput true "User data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var input services.AdminCreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}
	if fieldErrors := validation.Struct(&input); fieldErrors != nil {
		return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
	}

	user, err := h.userService.CreateUser(c.Context(), &input)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyUsed) {
			return response.Conflict(c, "البريد الإلكتروني مسجل مسبقاً")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء إنشاء المستخدم")
	}

	return response.Created(c, "تم إنشاء المستخدم بنجاح", fiber.Map{"user": user})
}

// UpdateUser updates a user including role and activation (admin)
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.AdminUpdateUserInput true "User fields"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	actorID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "معرف المستخدم غير صالح")
	}

	var input services.AdminUpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}
	if fieldErrors := validation.Struct(&input); fieldErrors != nil {
		return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
	}

	user, err := h.userService.UpdateUser(c.Context(), actorID, uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOwnRoleChange):
			return response.Forbidden(c, "لا يمكنك تغيير دورك الخاص")
		case errors.Is(err, domain.ErrEmailAlreadyUsed):
			return response.Conflict(c, "البريد الإلكتروني مسجل مسبقاً")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "المستخدم غير موجود")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء تحديث المستخدم")
		}
	}

	return response.Success(c, "تم تحديث المستخدم بنجاح", fiber.Map{"user": user})
}

// DeleteUser soft deletes a user (admin)
// @Summary Delete user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	actorID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "معرف المستخدم غير صالح")
	}

	if err := h.userService.DeleteUser(c.Context(), actorID, uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrSelfDelete):
			return response.Forbidden(c, "لا يمكنك حذف حسابك الخاص")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "المستخدم غير موجود")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء حذف المستخدم")
		}
	}

	return response.Success(c, "تم حذف المستخدم بنجاح", nil)
}

// ActiveSessions lists live refresh sessions (admin)
// @Summary List active sessions
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/sessions [get]
func (h *UserHandler) ActiveSessions(c *fiber.Ctx) error {
	sessions, err := h.userService.ActiveSessions(c.Context())
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء جلب الجلسات")
	}

	return response.Success(c, "تم جلب الجلسات بنجاح", fiber.Map{
		"sessions": sessions,
		"total":    len(sessions),
	})
}
