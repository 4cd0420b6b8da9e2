package handlers

import (
	"errors"
	"mime/multipart"
	"strings"

	"cityguard/internal/core/domain"
	"cityguard/internal/core/services"
	"cityguard/internal/pkg/response"
	"cityguard/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// BusinessHandler handles business directory endpoints
type BusinessHandler struct {
	businessService *services.BusinessService
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businessService *services.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// CreateBusinessRequest represents business creation request body
type CreateBusinessRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	City        string `json:"city" form:"city"`
	Address     string `json:"address" form:"address"`
	Phone       string `json:"phone" form:"phone"`
	Website     string `json:"website" form:"website"`
}

// UpdateBusinessRequest represents business update request body
type UpdateBusinessRequest struct {
	Name         *string  `json:"name" form:"name"`
	Description  *string  `json:"description" form:"description"`
	City         *string  `json:"city" form:"city"`
	Address      *string  `json:"address" form:"address"`
	Phone        *string  `json:"phone" form:"phone"`
	Website      *string  `json:"website" form:"website"`
	RemoveImages []string `json:"removeImages" form:"removeImages"`
}

// CreateBusiness registers a business for the caller
// @Summary Create business
// @Tags Businesses
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Business name"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /bus [post]
func (h *BusinessHandler) CreateBusiness(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	var req CreateBusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}

	input := &services.CreateBusinessInput{
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Address:     req.Address,
		Phone:       req.Phone,
		Website:     req.Website,
	}
	if fieldErrors := validation.Struct(input); fieldErrors != nil {
		return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
	}

	business, err := h.businessService.CreateBusiness(c.Context(), userID, input, formFiles(c, "images"))
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء إنشاء المنشأة")
	}

	return response.Created(c, "تم إنشاء المنشأة بنجاح", fiber.Map{"business": business})
}

// GetMyBusinesses lists the caller's businesses
// @Summary List own businesses
// @Tags Businesses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /bus/my [get]
func (h *BusinessHandler) GetMyBusinesses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	businesses, err := h.businessService.GetOwnerBusinesses(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء جلب المنشآت")
	}

	return response.Success(c, "تم جلب المنشآت بنجاح", fiber.Map{
		"businesses": businesses,
		"total":      len(businesses),
	})
}

// CheckUserBusiness reports whether the caller owns a business
// @Summary Check business ownership
// @Tags Businesses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /bus/check [get]
func (h *BusinessHandler) CheckUserBusiness(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	hasBusiness, count, err := h.businessService.CheckUserBusiness(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء التحقق")
	}

	return response.Success(c, "تم التحقق بنجاح", fiber.Map{
		"has_business": hasBusiness,
		"count":        count,
	})
}

// GetBusiness returns one business for its owner or an admin
// @Summary Get business
// @Tags Businesses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Business ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bus/{id} [get]
func (h *BusinessHandler) GetBusiness(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف المنشأة غير صالح")
	}

	business, err := h.businessService.GetBusiness(c.Context(), userID, role, uint(id))
	if err != nil {
		return h.mapError(c, err, "حدث خطأ أثناء جلب المنشأة")
	}

	return response.Success(c, "تم جلب المنشأة بنجاح", fiber.Map{"business": business})
}

// UpdateBusiness updates a business
// @Summary Update business
// @Tags Businesses
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Business ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /bus/{id} [put]
func (h *BusinessHandler) UpdateBusiness(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف المنشأة غير صالح")
	}

	var req UpdateBusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}

	input := &services.UpdateBusinessInput{
		Name:         req.Name,
		Description:  req.Description,
		City:         req.City,
		Address:      req.Address,
		Phone:        req.Phone,
		Website:      req.Website,
		RemoveImages: req.RemoveImages,
	}
	if fieldErrors := validation.Struct(input); fieldErrors != nil {
		return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
	}

	business, err := h.businessService.UpdateBusiness(c.Context(), userID, role, uint(id), input, formFiles(c, "images"))
	if err != nil {
		return h.mapError(c, err, "حدث خطأ أثناء تحديث المنشأة")
	}

	return response.Success(c, "تم تحديث المنشأة بنجاح", fiber.Map{"business": business})
}

// DeleteBusiness deletes a business
// @Summary Delete business
// @Tags Businesses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Business ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /bus/{id} [delete]
func (h *BusinessHandler) DeleteBusiness(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف المنشأة غير صالح")
	}

	if err := h.businessService.DeleteBusiness(c.Context(), userID, role, uint(id)); err != nil {
		return h.mapError(c, err, "حدث خطأ أثناء حذف المنشأة")
	}

	return response.Success(c, "تم حذف المنشأة بنجاح", nil)
}

// GetBusinessStats returns job and ad counts for one business
// @Summary Business statistics
// @Tags Businesses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Business ID"
// @Success 200 {object} response.Response
// @Router /bus/{id}/stats [get]
func (h *BusinessHandler) GetBusinessStats(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف المنشأة غير صالح")
	}

	stats, err := h.businessService.GetBusinessStats(c.Context(), userID, role, uint(id))
	if err != nil {
		return h.mapError(c, err, "حدث خطأ أثناء جلب الإحصائيات")
	}

	return response.Success(c, "تم جلب الإحصائيات بنجاح", fiber.Map{"stats": stats})
}

// mapError maps business domain errors to responses
func (h *BusinessHandler) mapError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrBusinessNotFound):
		return response.NotFound(c, "المنشأة غير موجودة")
	case errors.Is(err, domain.ErrNotBusinessOwner):
		return response.Forbidden(c, "غير مصرح")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// actor reads the authenticated identity from the request context
func actor(c *fiber.Ctx) (uint, string, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return 0, "", errors.New("missing identity")
	}
	role, _ := c.Locals("role").(string)
	return userID, role, nil
}

// formFiles extracts uploaded files for a multipart field, tolerating
// non-multipart requests
func formFiles(c *fiber.Ctx, field string) []*multipart.FileHeader {
	if !strings.Contains(c.Get(fiber.HeaderContentType), "multipart/form-data") {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}
