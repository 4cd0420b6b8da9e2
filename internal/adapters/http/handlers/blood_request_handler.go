package handlers

import (
	"errors"
	"strconv"

	"cityguard/internal/adapters/persistence/repositories"
	"cityguard/internal/config"
	"cityguard/internal/core/domain"
	"cityguard/internal/core/services"
	"cityguard/internal/pkg/pagination"
	"cityguard/internal/pkg/response"
	"cityguard/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// BloodRequestHandler handles request board endpoints
type BloodRequestHandler struct {
	requestService *services.BloodRequestService
	cfg            *config.Config
}

// NewBloodRequestHandler creates a new blood request handler
func NewBloodRequestHandler(requestService *services.BloodRequestService, cfg *config.Config) *BloodRequestHandler {
	return &BloodRequestHandler{
		requestService: requestService,
		cfg:            cfg,
	}
}

// UpdateRequestStatusRequest represents the admin status transition body
type UpdateRequestStatusRequest struct {
	Status string `json:"status"`
}

// CreateRequest posts a blood request, anonymously or as the caller
// @Summary Create blood request
// @Tags BloodRequests
// @Accept json
// @Produce json
// @Param body body services.CreateRequestInput true "Request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /blood-requests [post]
func (h *BloodRequestHandler) CreateRequest(c *fiber.Ctx) error {
	var input services.CreateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}
	if fieldErrors := validation.Struct(&input); fieldErrors != nil {
		return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
	}

	// Identity is optional here
	var requesterID *uint
	if userID, ok := c.Locals("userID").(uint); ok {
		requesterID = &userID
	}

	request, err := h.requestService.CreateRequest(c.Context(), requesterID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidBloodType):
			return response.BadRequest(c, "فصيلة الدم غير صالحة. يجب أن تكون: A+, A-, B+, B-, AB+, AB-, O+, O-")
		case errors.Is(err, domain.ErrInvalidUnits):
			return response.BadRequest(c, "عدد الوحدات يجب أن يكون بين 1 و 10")
		case errors.Is(err, domain.ErrInvalidUrgency):
			return response.BadRequest(c, "درجة الإلحاح غير صالحة")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "صيغة التاريخ غير صالحة")
		default:
			if h.cfg.IsDev() {
				return response.InternalServerErrorWithDetail(c, "حدث خطأ أثناء إنشاء الطلب", err.Error())
			}
			return response.InternalServerError(c, "حدث خطأ أثناء إنشاء الطلب")
		}
	}

	return response.Created(c, "تم إنشاء طلب التبرع بنجاح", fiber.Map{"request": request})
}

// GetAllRequests lists open requests by default
// @Summary List blood requests
// @Tags BloodRequests
// @Produce json
// @Param status query string false "Status"
// @Param blood_type query string false "Blood type"
// @Param urgency query string false "Urgency"
// @Param city query string false "City"
// @Param search query string false "Search in hospital, city and notes"
// @Success 200 {object} response.Response
// @Router /blood-requests [get]
func (h *BloodRequestHandler) GetAllRequests(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := &repositories.RequestFilter{
		Status:    c.Query("status"),
		BloodType: c.Query("blood_type"),
		Urgency:   c.Query("urgency"),
		City:      c.Query("city"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	requests, meta, err := h.requestService.GetAllRequests(c.Context(), filter, params)
	if err != nil {
		return h.mapFilterError(c, err, "حدث خطأ أثناء جلب الطلبات")
	}

	return response.Success(c, "تم جلب الطلبات بنجاح", fiber.Map{
		"requests": requests,
		"meta":     meta,
	})
}

// GetRequest returns one request
// @Summary Get blood request
// @Tags BloodRequests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blood-requests/{id} [get]
func (h *BloodRequestHandler) GetRequest(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "معرف الطلب غير صالح")
	}

	request, rerr := h.requestService.GetRequest(c.Context(), uint(id))
	if rerr != nil {
		if errors.Is(rerr, domain.ErrRequestNotFound) {
			return response.NotFound(c, "طلب التبرع غير موجود")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء جلب الطلب")
	}

	return response.Success(c, "تم جلب الطلب بنجاح", fiber.Map{"request": request})
}

// GetMyRequests lists the caller's requests
// @Summary List own blood requests
// @Tags BloodRequests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status"
// @Success 200 {object} response.Response
// @Router /my/blood-requests [get]
func (h *BloodRequestHandler) GetMyRequests(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	params := pagination.GetParams(c)

	requests, meta, err := h.requestService.GetMyRequests(c.Context(), userID, c.Query("status"), params)
	if err != nil {
		return h.mapFilterError(c, err, "حدث خطأ أثناء جلب طلباتك")
	}

	return response.Success(c, "تم جلب طلباتك بنجاح", fiber.Map{
		"requests": requests,
		"meta":     meta,
	})
}

// UpdateRequest updates a request by its requester or an admin
// @Summary Update blood request
// @Tags BloodRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body services.UpdateRequestInput true "Request fields"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /blood-requests/{id} [put]
func (h *BloodRequestHandler) UpdateRequest(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الطلب غير صالح")
	}

	var input services.UpdateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}
	if fieldErrors := validation.Struct(&input); fieldErrors != nil {
		return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
	}

	request, uerr := h.requestService.UpdateRequest(c.Context(), userID, role, uint(id), &input)
	if uerr != nil {
		switch {
		case errors.Is(uerr, domain.ErrRequestNotFound):
			return response.NotFound(c, "طلب التبرع غير موجود")
		case errors.Is(uerr, domain.ErrForbidden):
			return response.Forbidden(c, "غير مصرح لك بتعديل هذا الطلب")
		case errors.Is(uerr, domain.ErrInvalidBloodType):
			return response.BadRequest(c, "فصيلة الدم غير صالحة")
		case errors.Is(uerr, domain.ErrInvalidUnits):
			return response.BadRequest(c, "عدد الوحدات يجب أن يكون بين 1 و 10")
		case errors.Is(uerr, domain.ErrInvalidUrgency):
			return response.BadRequest(c, "درجة الإلحاح غير صالحة")
		case errors.Is(uerr, domain.ErrInvalidStatus):
			return response.BadRequest(c, "حالة غير صالحة")
		case errors.Is(uerr, domain.ErrInvalidInput):
			return response.BadRequest(c, "صيغة التاريخ غير صالحة")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء تحديث الطلب")
		}
	}

	return response.Success(c, "تم تحديث طلب التبرع بنجاح", fiber.Map{"request": request})
}

// DeleteRequest removes a request by its requester or an admin
// @Summary Delete blood request
// @Tags BloodRequests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /blood-requests/{id} [delete]
func (h *BloodRequestHandler) DeleteRequest(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الطلب غير صالح")
	}

	if err := h.requestService.DeleteRequest(c.Context(), userID, role, uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "طلب التبرع غير موجود")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "غير مصرح لك بحذف هذا الطلب")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء حذف الطلب")
		}
	}

	return response.Success(c, "تم حذف طلب التبرع بنجاح", nil)
}

// UpdateStatus transitions a request (admin)
// @Summary Update blood request status
// @Tags BloodRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body UpdateRequestStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /blood-requests/{id}/status [put]
func (h *BloodRequestHandler) UpdateStatus(c *fiber.Ctx) error {
	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الطلب غير صالح")
	}

	var req UpdateRequestStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}

	request, err := h.requestService.UpdateStatus(c.Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			return response.BadRequest(c, "حالة غير صالحة")
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "طلب التبرع غير موجود")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء تحديث الحالة")
		}
	}

	return response.Success(c, "تم تحديث الحالة بنجاح", fiber.Map{"request": request})
}

// SearchRequests is the public urgent-first search
// @Summary Search blood requests
// @Tags BloodRequests
// @Produce json
// @Param blood_type query string false "Blood type"
// @Param city query string false "City"
// @Param hospital query string false "Hospital"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Response
// @Router /blood-requests/search [get]
func (h *BloodRequestHandler) SearchRequests(c *fiber.Ctx) error {
	filter := &repositories.RequestFilter{
		BloodType: c.Query("blood_type"),
		City:      c.Query("city"),
		Hospital:  c.Query("hospital"),
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	requests, err := h.requestService.SearchRequests(c.Context(), filter, limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBloodType) {
			return response.BadRequest(c, "فصيلة الدم غير صالحة")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء البحث")
	}

	return response.Success(c, "تم البحث بنجاح", fiber.Map{
		"requests": requests,
		"total":    len(requests),
	})
}

// MatchDonors finds alert-ready donors for one request
// @Summary Match donors for a request
// @Tags BloodRequests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blood-requests/{id}/match-donors [get]
func (h *BloodRequestHandler) MatchDonors(c *fiber.Ctx) error {
	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الطلب غير صالح")
	}

	matches, err := h.requestService.MatchDonors(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return response.NotFound(c, "طلب التبرع غير موجود")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء البحث عن متبرعين")
	}

	return response.Success(c, "تم البحث بنجاح", matches)
}

// GetStatistics returns the public board statistics
// @Summary Blood request statistics
// @Tags BloodRequests
// @Produce json
// @Success 200 {object} response.Response
// @Router /blood-requests/statistics [get]
func (h *BloodRequestHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.requestService.GetStatistics(c.Context())
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء جلب الإحصائيات")
	}

	return response.Success(c, "تم جلب الإحصائيات بنجاح", fiber.Map{"statistics": stats})
}

// mapFilterError maps listing filter errors to responses
func (h *BloodRequestHandler) mapFilterError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidBloodType):
		return response.BadRequest(c, "فصيلة الدم غير صالحة")
	case errors.Is(err, domain.ErrInvalidUrgency):
		return response.BadRequest(c, "درجة الإلحاح غير صالحة")
	case errors.Is(err, domain.ErrInvalidStatus):
		return response.BadRequest(c, "حالة غير صالحة")
	default:
		return response.InternalServerError(c, fallback)
	}
}
