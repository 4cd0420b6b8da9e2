package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"cityguard/internal/adapters/persistence/repositories"
	"cityguard/internal/core/domain"
	"cityguard/internal/core/services"
	"cityguard/internal/pkg/pagination"
	"cityguard/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// JobHandler handles job board endpoints
type JobHandler struct {
	jobService *services.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// RenewJobRequest represents the renew body
type RenewJobRequest struct {
	Days int `json:"days"`
}

// CreateJob publishes a job under the caller's business
// @Summary Create job
// @Tags Jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateJobInput true "Job data"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /jobs/create [post]
func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	userID, _, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	var input services.CreateJobInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "بيانات الوظيفة غير صالحة")
	}

	job, fieldErrors, cerr := h.jobService.CreateJob(c.Context(), userID, &input)
	if cerr != nil {
		switch {
		case errors.Is(cerr, domain.ErrNoBusiness):
			return response.Forbidden(c, "ليس لديك أي منشأة تجارية مسجلة")
		case errors.Is(cerr, domain.ErrInvalidInput):
			return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء نشر الوظيفة")
		}
	}

	return response.Created(c, "تم نشر الوظيفة بنجاح", fiber.Map{"job": job})
}

// GetAllJobs lists unexpired jobs with facets
// @Summary List jobs
// @Tags Jobs
// @Produce json
// @Param city query string false "City"
// @Param region query string false "Region"
// @Param type query string false "Job type"
// @Param search query string false "Search in title and description"
// @Success 200 {object} response.Response
// @Router /jobs/getall [get]
func (h *JobHandler) GetAllJobs(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := &repositories.JobFilter{
		City:      c.Query("city"),
		Region:    c.Query("region"),
		Type:      c.Query("type"),
		Title:     c.Query("title"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	listing, err := h.jobService.GetAllJobs(c.Context(), filter, params)
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء جلب الوظائف")
	}

	return response.Success(c, "تم جلب الوظائف بنجاح", listing)
}

// GetJob returns one job, 410 when expired
// @Summary Get job
// @Tags Jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 410 {object} response.Response
// @Router /jobs/getjob/{id} [get]
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "معرف الوظيفة غير صالح")
	}

	job, gerr := h.jobService.GetJob(c.Context(), uint(id))
	if gerr != nil {
		switch {
		case errors.Is(gerr, domain.ErrJobNotFound):
			return response.NotFound(c, "الوظيفة غير موجودة")
		case errors.Is(gerr, domain.ErrJobExpired):
			return response.Gone(c, "انتهت صلاحية هذه الوظيفة")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء جلب الوظيفة")
		}
	}

	return response.Success(c, "تم جلب الوظيفة بنجاح", fiber.Map{"job": job})
}

// UpdateJob updates a job by its business owner or an admin
// @Summary Update job
// @Tags Jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param body body services.UpdateJobInput true "Job fields"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /jobs/update/{id} [put]
func (h *JobHandler) UpdateJob(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الوظيفة غير صالح")
	}

	var input services.UpdateJobInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "بيانات الوظيفة غير صالحة")
	}

	job, fieldErrors, uerr := h.jobService.UpdateJob(c.Context(), userID, role, uint(id), &input)
	if uerr != nil {
		switch {
		case errors.Is(uerr, domain.ErrJobNotFound):
			return response.NotFound(c, "الوظيفة غير موجودة")
		case errors.Is(uerr, domain.ErrForbidden), errors.Is(uerr, domain.ErrNotBusinessOwner):
			return response.Forbidden(c, "ليس لديك صلاحية لتعديل هذه الوظيفة")
		case errors.Is(uerr, domain.ErrInvalidInput):
			return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء تحديث الوظيفة")
		}
	}

	return response.Success(c, "تم تحديث الوظيفة بنجاح", fiber.Map{"job": job})
}

// DeleteJob removes a job by its business owner or an admin
// @Summary Delete job
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /jobs/delete/{id} [delete]
func (h *JobHandler) DeleteJob(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الوظيفة غير صالح")
	}

	if err := h.jobService.DeleteJob(c.Context(), userID, role, uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrJobNotFound):
			return response.NotFound(c, "الوظيفة غير موجودة")
		case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotBusinessOwner):
			return response.Forbidden(c, "ليس لديك صلاحية لحذف هذه الوظيفة")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء حذف الوظيفة")
		}
	}

	return response.Success(c, "تم حذف الوظيفة بنجاح", nil)
}

// RenewJob extends a job's expiry and reactivates it
// @Summary Renew job
// @Tags Jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param body body RenewJobRequest false "Renewal period"
// @Success 200 {object} response.Response
// @Router /jobs/{id}/renew [post]
func (h *JobHandler) RenewJob(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الوظيفة غير صالح")
	}

	var req RenewJobRequest
	// Body is optional, missing days falls back to the default period
	_ = c.BodyParser(&req)

	job, rerr := h.jobService.RenewJob(c.Context(), userID, role, uint(id), req.Days)
	if rerr != nil {
		switch {
		case errors.Is(rerr, domain.ErrJobNotFound):
			return response.NotFound(c, "الوظيفة غير موجودة")
		case errors.Is(rerr, domain.ErrForbidden), errors.Is(rerr, domain.ErrNotBusinessOwner):
			return response.Forbidden(c, "ليس لديك صلاحية لتجديد هذه الوظيفة")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء تجديد الوظيفة")
		}
	}

	return response.Success(c, "تم تجديد الوظيفة بنجاح", fiber.Map{"job": job})
}

// ToggleJobStatus flips a job between active and inactive
// @Summary Toggle job status
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} response.Response
// @Router /jobs/{id}/toggle-status [patch]
func (h *JobHandler) ToggleJobStatus(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الوظيفة غير صالح")
	}

	job, terr := h.jobService.ToggleJobStatus(c.Context(), userID, role, uint(id))
	if terr != nil {
		switch {
		case errors.Is(terr, domain.ErrJobNotFound):
			return response.NotFound(c, "الوظيفة غير موجودة")
		case errors.Is(terr, domain.ErrForbidden), errors.Is(terr, domain.ErrNotBusinessOwner):
			return response.Forbidden(c, "ليس لديك صلاحية لتعديل هذه الوظيفة")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء تحديث حالة الوظيفة")
		}
	}

	return response.Success(c, "تم تحديث حالة الوظيفة بنجاح", fiber.Map{"job": job})
}

// GetBusinessJobs lists the caller's business jobs
// @Summary List own business jobs
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param business_id query int false "Business ID"
// @Param is_active query bool false "Active filter"
// @Success 200 {object} response.Response
// @Router /jobs/business/myjobs [get]
func (h *JobHandler) GetBusinessJobs(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "يجب تسجيل الدخول")
	}

	params := pagination.GetParams(c)
	businessID := parseUintQuery(c, "business_id")
	isActive := parseBoolQuery(c, "is_active")

	jobs, meta, gerr := h.jobService.GetBusinessJobs(c.Context(), userID, role, businessID, isActive, params)
	if gerr != nil {
		switch {
		case errors.Is(gerr, domain.ErrNoBusiness):
			return response.Forbidden(c, "ليس لديك أي منشأة تجارية")
		case errors.Is(gerr, domain.ErrBusinessNotFound):
			return response.NotFound(c, "المنشأة غير موجودة")
		case errors.Is(gerr, domain.ErrNotBusinessOwner):
			return response.Forbidden(c, "غير مصرح")
		default:
			return response.InternalServerError(c, "حدث خطأ أثناء جلب وظائفك")
		}
	}

	return response.Success(c, "تم جلب وظائفك بنجاح", fiber.Map{
		"jobs": jobs,
		"meta": meta,
	})
}

// GetStatistics returns the job board statistics (admin)
// @Summary Job statistics
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /jobs/statistics [get]
func (h *JobHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.jobService.GetStatistics(c.Context())
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء جلب إحصائيات الوظائف")
	}

	return response.Success(c, "تم جلب الإحصائيات بنجاح", fiber.Map{"statistics": stats})
}

// GetPopularCategories returns the most used job types
// @Summary Popular job categories
// @Tags Jobs
// @Produce json
// @Success 200 {object} response.Response
// @Router /jobs/popular-categories [get]
func (h *JobHandler) GetPopularCategories(c *fiber.Ctx) error {
	categories, err := h.jobService.GetPopularCategories(c.Context())
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء جلب الفئات الشائعة")
	}

	return response.Success(c, "تم جلب الفئات الشائعة بنجاح", fiber.Map{"categories": categories})
}

// GetJobsByCategory lists jobs of one type
// @Summary Jobs by category
// @Tags Jobs
// @Produce json
// @Param category path string true "Job type"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Response
// @Router /jobs/category/{category} [get]
func (h *JobHandler) GetJobsByCategory(c *fiber.Ctx) error {
	// Arabic type names arrive percent-encoded in the path
	category, err := url.QueryUnescape(c.Params("category"))
	if err != nil || category == "" {
		return response.BadRequest(c, "فئة غير صالحة")
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	jobs, gerr := h.jobService.GetJobsByCategory(c.Context(), category, limit)
	if gerr != nil {
		if errors.Is(gerr, domain.ErrInvalidInput) {
			return response.BadRequest(c, "فئة غير صالحة")
		}
		return response.InternalServerError(c, "حدث خطأ أثناء جلب الوظائف حسب الفئة")
	}

	return response.Success(c, "تم جلب الوظائف بنجاح", fiber.Map{
		"jobs":     jobs,
		"category": category,
		"total":    len(jobs),
	})
}

// QuickSearch is the lightweight title search for autocomplete
// @Summary Quick job search
// @Tags Jobs
// @Produce json
// @Param q query string true "Query"
// @Success 200 {object} response.Response
// @Router /jobs/search/quick [get]
func (h *JobHandler) QuickSearch(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))

	jobs, err := h.jobService.QuickSearch(c.Context(), c.Query("q"), limit)
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء البحث")
	}

	return response.Success(c, "تم البحث بنجاح", fiber.Map{"jobs": jobs})
}

// GetFeaturedJobs returns the latest active jobs for the home page
// @Summary Featured jobs
// @Tags Jobs
// @Produce json
// @Param limit query int false "Max results"
// @Success 200 {object} response.Response
// @Router /jobs/featured [get]
func (h *JobHandler) GetFeaturedJobs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))

	jobs, err := h.jobService.GetFeaturedJobs(c.Context(), limit)
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء جلب الوظائف المميزة")
	}

	return response.Success(c, "تم جلب الوظائف المميزة بنجاح", fiber.Map{"jobs": jobs})
}

// GetJobsInMyCity lists jobs in the caller's city
// @Summary Jobs in my city
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /jobs/mycity [get]
func (h *JobHandler) GetJobsInMyCity(c *fiber.Ctx) error {
	city, _ := c.Locals("city").(string)
	if city == "" {
		city = c.Query("city")
	}
	if city == "" {
		return response.Success(c, "لم يتم تحديد مدينتك بعد", fiber.Map{
			"jobs": []*struct{}{},
		})
	}

	params := pagination.GetParams(c)

	jobs, meta, err := h.jobService.GetJobsInMyCity(c.Context(), city, params)
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء جلب وظائف مدينتك")
	}

	return response.Success(c, "تم جلب وظائف مدينتك بنجاح", fiber.Map{
		"jobs": jobs,
		"city": city,
		"meta": meta,
	})
}

// GetNewJobsNotification reports fresh postings since yesterday
// @Summary New jobs notification
// @Tags Jobs
// @Produce json
// @Success 200 {object} response.Response
// @Router /jobs/notifications/new [get]
func (h *JobHandler) GetNewJobsNotification(c *fiber.Ctx) error {
	city, _ := c.Locals("city").(string)
	if city == "" {
		city = c.Query("city")
	}

	notification, err := h.jobService.GetNewJobsNotification(c.Context(), city)
	if err != nil {
		return response.InternalServerError(c, "حدث خطأ أثناء جلب الإشعارات")
	}

	return response.Success(c, "تم جلب الإشعارات بنجاح", notification)
}
