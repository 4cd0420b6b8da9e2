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

// AdHandler handles ad campaign endpoints
type AdHandler struct {
	adService *services.AdService
}

// NewAdHandler creates a new ad handler
func NewAdHandler(adService *services.AdService) *AdHandler {
	return &AdHandler{adService: adService}
}

// CreateAdRequest represents ad creation request body
type CreateAdRequest struct {
	Title      string `json:"title" form:"title"`
	Content    string `json:"content" form:"content"`
	BannerType string `json:"banner_type" form:"banner_type"`
	TargetType string `json:"target_type" form:"target_type"`
	TargetID   *uint  `json:"target_id" form:"target_id"`
	URL        string `json:"url" form:"url"`
	StartAt    string `json:"start_at" form:"start_at"`
	EndAt      string `json:"end_at" form:"end_at"`
}

// UpdateAdRequest represents ad update request body
type UpdateAdRequest struct {
	Title      *string `json:"title" form:"title"`
	Content    *string `json:"content" form:"content"`
	BannerType *string `json:"banner_type" form:"banner_type"`
	URL        *string `json:"url" form:"url"`
	StartAt    *string `json:"start_at" form:"start_at"`
	EndAt      *string `json:"end_at" form:"end_at"`
	Status     *string `json:"status" form:"status"`
	Priority   *int    `json:"priority" form:"priority"`
	IsActive   *bool   `json:"is_active" form:"is_active"`
}

// UpdateAdStatusRequest represents the review request body
type UpdateAdStatusRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}

// CreateAd creates an ad pending review
// @Summary Create ad
// @Tags Ads
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /ads [post]
func (h *AdHandler) CreateAd(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "غير مصرح")
	}

	var req CreateAdRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}

	input := &services.CreateAdInput{
		Title:      req.Title,
		Content:    req.Content,
		BannerType: req.BannerType,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		URL:        req.URL,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
	}
	if fieldErrors := validation.Struct(input); fieldErrors != nil {
		return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
	}

	ad, err := h.adService.CreateAd(c.Context(), userID, role, input, adImages(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAdWindow):
			return response.BadRequest(c, "تاريخ الانتهاء يجب أن يكون بعد تاريخ البداية")
		case errors.Is(err, domain.ErrInvalidAdTarget):
			if role == "ADMIN" {
				return response.BadRequest(c, "المدير يمكنه إنشاء إعلانات خارجية فقط")
			}
			return response.BadRequest(c, "المالك يمكنه الإعلان عن متجره فقط")
		case errors.Is(err, domain.ErrNotBusinessOwner):
			return response.Forbidden(c, "لا يمكنك الإعلان عن متجر لا تملكه")
		case errors.Is(err, domain.ErrInvalidBannerType):
			return response.BadRequest(c, "نوع غير صالح")
		case errors.Is(err, domain.ErrBusinessNotFound):
			return response.NotFound(c, "المنشأة غير موجودة")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "صيغة التاريخ غير صالحة")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "غير مصرح")
		default:
			return response.InternalServerError(c, "خطأ داخلي")
		}
	}

	return response.Created(c, "تم إنشاء الإعلان وهو قيد المراجعة", fiber.Map{"ad": ad})
}

// GetPublicAds returns all servable ads
// @Summary Public ads
// @Tags Ads
// @Produce json
// @Success 200 {object} response.Response
// @Router /ads/public [get]
func (h *AdHandler) GetPublicAds(c *fiber.Ctx) error {
	ads, err := h.adService.GetPublicAds(c.Context())
	if err != nil {
		return response.InternalServerError(c, "خطأ داخلي")
	}

	return response.Success(c, "تم جلب الإعلانات بنجاح", fiber.Map{
		"ads":   ads,
		"total": len(ads),
	})
}

// GetAdsByType returns servable ads for one placement
// @Summary Public ads by banner type
// @Tags Ads
// @Produce json
// @Param type path string true "Banner type"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /ads/type/{type} [get]
func (h *AdHandler) GetAdsByType(c *fiber.Ctx) error {
	ads, err := h.adService.GetAdsByType(c.Context(), c.Params("type"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBannerType) {
			return response.BadRequest(c, "نوع غير صالح")
		}
		return response.InternalServerError(c, "خطأ داخلي")
	}

	return response.Success(c, "تم جلب الإعلانات بنجاح", fiber.Map{
		"ads":   ads,
		"total": len(ads),
	})
}

// GetAllAds lists ads for admins and owners
// @Summary List ads
// @Tags Ads
// @Produce json
// @Security BearerAuth
// @Param status query string false "Review status"
// @Param banner_type query string false "Banner type"
// @Param search query string false "Search in title and content"
// @Success 200 {object} response.Response
// @Router /ads [get]
func (h *AdHandler) GetAllAds(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "غير مصرح")
	}

	params := pagination.GetParams(c)
	filter := &repositories.AdFilter{
		Status:     c.Query("status"),
		BannerType: c.Query("banner_type"),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	ads, meta, err := h.adService.GetAllAds(c.Context(), userID, role, filter, params)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAdStatus), errors.Is(err, domain.ErrInvalidBannerType):
			return response.BadRequest(c, "نوع غير صالح")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "غير مصرح")
		default:
			return response.InternalServerError(c, "خطأ داخلي")
		}
	}

	return response.Success(c, "تم جلب الإعلانات بنجاح", fiber.Map{
		"ads":  ads,
		"meta": meta,
	})
}

// GetMyAds lists the owner's business ads
// @Summary List own ads
// @Tags Ads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /ads/my [get]
func (h *AdHandler) GetMyAds(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "غير مصرح")
	}

	ads, err := h.adService.GetMyAds(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "خطأ داخلي")
	}

	return response.Success(c, "تم جلب إعلاناتك بنجاح", fiber.Map{
		"ads":   ads,
		"total": len(ads),
	})
}

// GetAd returns one ad
// @Summary Get ad
// @Tags Ads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ad ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /ads/{id} [get]
func (h *AdHandler) GetAd(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "غير مصرح")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الإعلان غير صالح")
	}

	ad, err := h.adService.GetAd(c.Context(), userID, role, uint(id))
	if err != nil {
		return h.mapError(c, err)
	}

	return response.Success(c, "تم جلب الإعلان بنجاح", fiber.Map{"ad": ad})
}

// UpdateAdStatus reviews an ad (admin)
// @Summary Review ad
// @Tags Ads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ad ID"
// @Param body body UpdateAdStatusRequest true "Review decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /ads/{id}/status [patch]
func (h *AdHandler) UpdateAdStatus(c *fiber.Ctx) error {
	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الإعلان غير صالح")
	}

	var req UpdateAdStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}

	ad, err := h.adService.UpdateAdStatus(c.Context(), uint(id), req.Status, req.RejectionReason)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAdStatus) {
			return response.BadRequest(c, "حالة غير صالحة")
		}
		return h.mapError(c, err)
	}

	return response.Success(c, "تم تحديث حالة الإعلان", fiber.Map{"ad": ad})
}

// IncrementClicks records an ad click
// @Summary Record ad click
// @Tags Ads
// @Produce json
// @Param id path int true "Ad ID"
// @Success 200 {object} response.Response
// @Router /ads/{id}/click [post]
func (h *AdHandler) IncrementClicks(c *fiber.Ctx) error {
	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الإعلان غير صالح")
	}

	if err := h.adService.IncrementClicks(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrAdNotFound) {
			return response.NotFound(c, "الإعلان غير موجود")
		}
		return response.InternalServerError(c, "خطأ داخلي")
	}

	return response.Success(c, "تم تسجيل النقرة", nil)
}

// UpdateAd updates an ad
// @Summary Update ad
// @Tags Ads
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ad ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /ads/{id} [put]
func (h *AdHandler) UpdateAd(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "غير مصرح")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الإعلان غير صالح")
	}

	var req UpdateAdRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "بيانات الطلب غير صالحة")
	}

	input := &services.UpdateAdInput{
		Title:      req.Title,
		Content:    req.Content,
		BannerType: req.BannerType,
		URL:        req.URL,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Status:     req.Status,
		Priority:   req.Priority,
		IsActive:   req.IsActive,
	}
	if fieldErrors := validation.Struct(input); fieldErrors != nil {
		return response.ValidationFailed(c, "بيانات غير صالحة", fieldErrors)
	}

	ad, err := h.adService.UpdateAd(c.Context(), userID, role, uint(id), input, adImages(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAdWindow):
			return response.BadRequest(c, "تاريخ الانتهاء يجب أن يكون بعد تاريخ البداية")
		case errors.Is(err, domain.ErrInvalidBannerType), errors.Is(err, domain.ErrInvalidAdStatus):
			return response.BadRequest(c, "نوع غير صالح")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "صيغة التاريخ غير صالحة")
		default:
			return h.mapError(c, err)
		}
	}

	return response.Success(c, "تم تحديث الإعلان بنجاح", fiber.Map{"ad": ad})
}

// DeleteAd deletes an ad
// @Summary Delete ad
// @Tags Ads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ad ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /ads/{id} [delete]
func (h *AdHandler) DeleteAd(c *fiber.Ctx) error {
	userID, role, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "غير مصرح")
	}

	id, perr := c.ParamsInt("id")
	if perr != nil || id < 1 {
		return response.BadRequest(c, "معرف الإعلان غير صالح")
	}

	if err := h.adService.DeleteAd(c.Context(), userID, role, uint(id)); err != nil {
		return h.mapError(c, err)
	}

	return response.Success(c, "تم حذف الإعلان بنجاح", nil)
}

// mapError maps ad domain errors to responses
func (h *AdHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrAdNotFound):
		return response.NotFound(c, "الإعلان غير موجود")
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotBusinessOwner):
		return response.Forbidden(c, "غير مصرح")
	default:
		return response.InternalServerError(c, "خطأ داخلي")
	}
}

// adImages collects the optional per-device uploads
func adImages(c *fiber.Ctx) *services.AdImages {
	images := &services.AdImages{}
	if f, err := c.FormFile("image"); err == nil {
		images.Image = f
	}
	if f, err := c.FormFile("mobileImage"); err == nil {
		images.MobileImage = f
	}
	if f, err := c.FormFile("tabletImage"); err == nil {
		images.TabletImage = f
	}
	if images.Image == nil && images.MobileImage == nil && images.TabletImage == nil {
		return nil
	}
	return images
}

// parseUintQuery reads an optional uint query param
func parseUintQuery(c *fiber.Ctx, key string) uint {
	v, err := strconv.ParseUint(c.Query(key), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}
