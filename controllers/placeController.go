package controllers

import (
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/database"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/gates"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/middlewares"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/models"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/utils"

	"github.com/gofiber/fiber/v2"
)

type createPlaceDTO struct {
	Name     string  `json:"name" validate:"required,min=2,max=120"`
	Address  string  `json:"address" validate:"required,min=5,max=255"`
	Lat      float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng      float64 `json:"lng" validate:"gte=-180,lte=180"`
	Category string  `json:"category" validate:"max=60"`
	Phone    string  `json:"phone" validate:"omitempty,min=5,max=20"`
}

// CreatePlace submits a halal place listing. The free listing is once per
// physical place, forever: the gate key is a fingerprint of the normalized
// address and rounded coordinates, so resubmitting the same storefront under
// a different account or phone number is still blocked.
func CreatePlace(c *fiber.Ctx) error {
	var dto createPlaceDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	userID, _ := c.Locals("userID").(string)
	now := clock.Now()

	normalized := utils.NormalizeAddress(dto.Address)
	fingerprint := gates.Fingerprint(normalized, dto.Lat, dto.Lng)

	res, err := gateEngine.Evaluate(c.UserContext(), gates.Lifetime(), fingerprint, now, true, map[string]string{
		"name": dto.Name,
		"user": userID,
	})
	if err != nil {
		return err
	}
	if res.Decision == gates.AlreadyUsed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "this place already used its free listing",
		})
	}

	place := models.Place{
		Name:              dto.Name,
		Address:           dto.Address,
		NormalizedAddress: normalized,
		Lat:               dto.Lat,
		Lng:               dto.Lng,
		Fingerprint:       fingerprint,
		Category:          dto.Category,
		PhoneNumber:       utils.NormalizePhone(dto.Phone),
		SubmittedBy:       userID,
	}
	if err := database.FromCtx(c).Create(&place).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create place")
	}
	return c.Status(fiber.StatusCreated).JSON(place)
}

// GetPlaces lists places, newest first.
func GetPlaces(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 20)
	if limit > 100 {
		limit = 100
	}
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	q := database.DB.Model(&models.Place{})
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var places []models.Place
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&places).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list places")
	}
	return c.JSON(fiber.Map{"places": places, "message": "success"})
}
