package controllers

import (
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/database"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/gates"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/middlewares"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/models"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	// freeAdDays is how long a free ad stays listed.
	freeAdDays = 30
	// classifiedCooldownDays is the phone-scoped cooldown between classified ads.
	classifiedCooldownDays = 30
)

type createAdDTO struct {
	Title string `json:"title" validate:"required,min=3,max=120"`
	Body  string `json:"body" validate:"max=4000"`
	City  string `json:"city" validate:"max=80"`
	Phone string `json:"phone" validate:"omitempty,min=5,max=20"`
}

type updateAdDTO struct {
	Title *string `json:"title" validate:"omitempty,min=3,max=120"`
	Body  *string `json:"body" validate:"omitempty,max=4000"`
	City  *string `json:"city" validate:"omitempty,max=80"`
}

// CreateFreeAd publishes a free, time-limited ad. Each user gets one per
// calendar month; the allowance is consumed atomically before the ad row is
// written.
func CreateFreeAd(c *fiber.Ctx) error {
	var dto createAdDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	userID, _ := c.Locals("userID").(string)
	now := clock.Now()

	res, err := gateEngine.Evaluate(c.UserContext(), gates.Monthly(), userID, now, true, map[string]string{
		"month": gates.PeriodKey(now),
		"kind":  models.AdKindFree,
	})
	if err != nil {
		return err
	}
	if res.Decision == gates.AlreadyUsed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "free ad already used this month",
		})
	}

	expires := now.AddDate(0, 0, freeAdDays)
	ad := models.Ad{
		OwnerId:      userID,
		Kind:         models.AdKindFree,
		Title:        dto.Title,
		Body:         dto.Body,
		City:         dto.City,
		ContactPhone: utils.NormalizePhone(dto.Phone),
		ExpiresAt:    &expires,
	}
	if err := database.FromCtx(c).Create(&ad).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create ad")
	}
	return c.Status(fiber.StatusCreated).JSON(ad)
}

// CreateClassifiedAd publishes a classified ad gated by a 30-day cooldown on
// the contact phone, so swapping accounts doesn't reset the limit.
func CreateClassifiedAd(c *fiber.Ctx) error {
	var dto createAdDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	phone := utils.NormalizePhone(dto.Phone)
	if phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "contact phone required")
	}

	userID, _ := c.Locals("userID").(string)
	now := clock.Now()

	res, err := gateEngine.Evaluate(c.UserContext(), gates.Cooldown(classifiedCooldownDays), phone, now, true, map[string]string{
		"user": userID,
		"kind": models.AdKindClassified,
	})
	if err != nil {
		return err
	}
	if res.Decision == gates.AlreadyUsed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":        "this phone number was used recently, try again later",
			"remaining_days": res.RemainingDays,
		})
	}

	ad := models.Ad{
		OwnerId:      userID,
		Kind:         models.AdKindClassified,
		Title:        dto.Title,
		Body:         dto.Body,
		City:         dto.City,
		ContactPhone: phone,
	}
	if err := database.FromCtx(c).Create(&ad).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create ad")
	}
	return c.Status(fiber.StatusCreated).JSON(ad)
}

// GetAds lists ads, newest first, hiding expired free ads.
func GetAds(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 20)
	if limit > 100 {
		limit = 100
	}
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	q := database.DB.Model(&models.Ad{}).
		Where("expires_at IS NULL OR expires_at > ?", clock.Now())
	if kind := c.Query("kind"); kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if city := c.Query("city"); city != "" {
		q = q.Where("city = ?", city)
	}

	var ads []models.Ad
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ads).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list ads")
	}
	return c.JSON(fiber.Map{"ads": ads, "message": "success"})
}

// UpdateAd patches an ad's editable fields. Publishing limits are not
// re-checked here; editing never consumes an allowance.
func UpdateAd(c *fiber.Ctx) error {
	var dto updateAdDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&dto)

	userID, _ := c.Locals("userID").(string)
	id := c.Params("id")

	var ad models.Ad
	db := database.FromCtx(c)
	if err := db.Where("id = ? AND owner_id = ?", id, userID).First(&ad).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "ad not found")
	}

	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	if len(updates) == 0 {
		return c.JSON(ad)
	}
	if err := db.Model(&ad).Updates(updates).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update ad")
	}
	return c.JSON(ad)
}
