package handlers

import (
	"errors"
	"strconv"

	"cityguard/internal/adapters/persistence/repositories"
	"cityguard/internal/core/domain"
	"cityguard/internal/core/services"
	"cityguard/internal/pkg/pagination"
	"cityguard/internal/pkg/response"
	"cityguard/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// BloodDonorHandler handles donor registry endpoints
type BloodDonorHandler struct {
	donorService *services.BloodDonorService
}

// NewBloodDonorHandler creates a new blood donor handler
func NewBloodDonorHandler(donorService *services.BloodDonorService) *BloodDonorHandler {
	return &BloodDonorHandler{donorService: donorService}
}

// RegisterDonor registers or updates the caller as a donor
// @Summary Register as blood donor
// @Tags BloodDonors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RegisterDonorInput true "Donor data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /blood-donors/register [post]
func (h *BloodDonorHandler) RegisterDonor(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	var input services.RegisterDonorInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}
	if fieldErrors := validation.Struct(&input); fieldErrors != nil {
		return response.ValidationFailed(c, "فصيلة الدم والمدينة ورقم الهاتف مطلوبة", fieldErrors)
	}

	donor, created, err := h.donorService.RegisterDonor(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidBloodType):
			return response.BadRequest(c, "فصيلة الدم غير صالحة")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "صيغة التاريخ غير صالحة")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء التسجيل كمتبرع")
		}
	}

	if created {
		return response.Created(c, "تم تسجيلك كمتبرع بالدم بنجاح", fiber.Map{"donor": donor})
	}
	return response.Success(c, "تم تحديث بيانات المتبرع بنجاح", fiber.Map{"donor": donor})
}

// GetDonorProfile returns the caller's donor registration
// @Summary Get own donor profile
// @Tags BloodDonors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blood-donors/my-profile [get]
func (h *BloodDonorHandler) GetDonorProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	donor, err := h.donorService.GetDonorProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrDonorNotFound) {
			return response.NotFound(c, "لم يتم العثور على بيانات المتبرع")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء جلب بيانات المتبرع")
	}

	return response.Success(c, "تم جلب بيانات المتبرع بنجاح", fiber.Map{"donor": donor})
}

// UpdateDonorStatus updates availability settings
// @Summary Update donor availability
// @Tags BloodDonors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateDonorStatusInput true "Availability fields"
// @Success 200 {object} response.Response
// @Router /blood-donors/status [put]
func (h *BloodDonorHandler) UpdateDonorStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	var input services.UpdateDonorStatusInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}
	if fieldErrors := validation.Struct(&input); fieldErrors != nil {
		return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
	}

	donor, err := h.donorService.UpdateDonorStatus(c.Context(), userID, &input)
	if err != nil {
		if errors.Is(err, domain.ErrDonorNotFound) {
			return response.NotFound(c, "لم يتم العثور على بيانات المتبرع")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء تحديث حالة المتبرع")
	}

	return response.Success(c, "تم تحديث حالة المتبرع بنجاح", fiber.Map{"donor": donor})
}

// UpdateLastDonation records donation dates
// @Summary Update last donation date
// @Tags BloodDonors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateLastDonationInput true "Donation dates"
// @Success 200 {object} response.Response
// @Router /blood-donors/last-donation [put]
func (h *BloodDonorHandler) UpdateLastDonation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	var input services.UpdateLastDonationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}

	donor, err := h.donorService.UpdateLastDonation(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDonorNotFound):
			return response.NotFound(c, "لم يتم العثور على بيانات المتبرع")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "صيغة التاريخ غير صالحة")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء تحديث تاريخ التبرع")
		}
	}

	return response.Success(c, "تم تحديث تاريخ آخر تبرع بنجاح", fiber.Map{"donor": donor})
}

// UpdateDonorProfile updates donor profile fields
// @Summary Update donor profile
// @Tags BloodDonors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateDonorProfileInput true "Profile fields"
// @Success 200 {object} response.Response
// @Router /blood-donors/updateprofile [put]
func (h *BloodDonorHandler) UpdateDonorProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	var input services.UpdateDonorProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}
	if fieldErrors := validation.Struct(&input); fieldErrors != nil {
		return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
	}

	donor, err := h.donorService.UpdateDonorProfile(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDonorNotFound):
			return response.NotFound(c, "لم يتم العثور على بيانات المتبرع")
		case errors.Is(err, domain.ErrInvalidBloodType):
			return response.BadRequest(c, "فصيلة الدم غير صالحة")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء تحديث بيانات المتبرع")
		}
	}

	return response.Success(c, "تم تحديث بيانات المتبرع بنجاح", fiber.Map{"donor": donor})
}

// GetAllDonors lists donors (admin)
// @Summary List donors
// @Tags BloodDonors
// @Produce json
// @Security BearerAuth
// @Param blood_type query string false "Blood type"
// @Param city query string false "City"
// @Param is_available query bool false "Availability"
// @Success 200 {object} response.Response
// @Router /blood-donors [get]
func (h *BloodDonorHandler) GetAllDonors(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := &repositories.DonorFilter{
		BloodType:   c.Query("blood_type"),
		City:        c.Query("city"),
		IsAvailable: parseBoolQuery(c, "is_available"),
	}

	donors, meta, err := h.donorService.GetAllDonors(c.Context(), filter, params)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBloodType) {
			return response.BadRequest(c, "فصيلة الدم غير صالحة")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء جلب المتبرعين")
	}

	return response.Success(c, "تم جلب المتبرعين بنجاح", fiber.Map{
		"donors": donors,
		"meta":   meta,
	})
}

// SearchDonors is the public donor search
// @Summary Search donors
// @Tags BloodDonors
// @Produce json
// @Param blood_type query string false "Blood type"
// @Param city query string false "City"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Response
// @Router /blood-donors/search [get]
func (h *BloodDonorHandler) SearchDonors(c *fiber.Ctx) error {
	filter := &repositories.DonorFilter{
		BloodType: c.Query("blood_type"),
		City:      c.Query("city"),
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	donors, err := h.donorService.SearchDonors(c.Context(), filter, limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBloodType) {
			return response.BadRequest(c, "فصيلة الدم غير صالحة")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء البحث عن متبرعين")
	}

	return response.Success(c, "تم البحث بنجاح", fiber.Map{
		"donors": donors,
		"total":  len(donors),
	})
}

// GetMatchingDonors finds eligible donors for a blood request
// @Summary Matching donors for a request
// @Tags BloodDonors
// @Produce json
// @Param requestId path int true "Blood request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blood-donors/matching/{requestId} [get]
func (h *BloodDonorHandler) GetMatchingDonors(c *fiber.Ctx) error {
	requestID, err := c.ParamsInt("requestId")
	if err != nil || requestID < 1 {
		return response.BadRequest(c, "معرف الطلب غير صالح")
	}

	matches, err := h.donorService.GetMatchingDonors(c.Context(), uint(requestID))
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return response.NotFound(c, "طلب التبرع غير موجود")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء البحث عن متبرعين متطابقين")
	}

	return response.Success(c, "تم البحث بنجاح", matches)
}

// GetDonorStatistics returns public registry statistics
// @Summary Donor statistics
// @Tags BloodDonors
// @Produce json
// @Success 200 {object} response.Response
// @Router /blood-donors/statistics [get]
func (h *BloodDonorHandler) GetDonorStatistics(c *fiber.Ctx) error {
	stats, err := h.donorService.GetDonorStatistics(c.Context())
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء جلب إحصائيات المتبرعين")
	}

	return response.Success(c, "تم جلب الإحصائيات بنجاح", fiber.Map{"statistics": stats})
}

// parseBoolQuery reads an optional bool query param
func parseBoolQuery(c *fiber.Ctx, key string) *bool {
	value := c.Query(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil
	}
	return &parsed
}
