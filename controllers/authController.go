package controllers

import (
	"context"
	"net/mail"

	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/database"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/gates"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/middlewares"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// anonymousProvider backs the identity resolver with the users table: a
// bootstrap mints a fresh anonymous principal row.
type anonymousProvider struct {
	db *gorm.DB
}

func (p anonymousProvider) CurrentUser() (string, bool) { return "", false }

func (p anonymousProvider) SignInAnonymously(ctx context.Context) (string, error) {
	user := models.User{Anonymous: true}
	if err := p.db.WithContext(ctx).Create(&user).Error; err != nil {
		return "", err
	}
	return user.Id, nil
}

// Anonymous mints an anonymous principal and returns a bearer token for it.
// The mobile client falls back to this when nobody is signed in, so gate
// identities stay stable across requests.
func Anonymous(c *fiber.Ctx) error {
	resolver := gates.NewResolver(anonymousProvider{db: database.DB})
	id, err := resolver.Resolve(c.UserContext())
	if err != nil {
		return err
	}

	token, err := middlewares.GenerateJWT(id, true)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not issue token")
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  fiber.Map{"id": id, "anonymous": true},
	})
}

func Register(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	email := data["email"]
	if _, err := mail.ParseAddress(email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid email format",
		})
	}
	if data["password"] != data["password_confirm"] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "passwords do not match",
		})
	}

	var exists int64
	database.DB.Model(&models.User{}).Where("email = ?", email).Count(&exists)
	if exists > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "email already exists",
		})
	}

	user := models.User{Email: &email}
	user.SetPassword(data["password"])
	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create user",
			"error":   err.Error(),
		})
	}

	token, err := middlewares.GenerateJWT(user.Id, false)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not issue token")
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  fiber.Map{"id": user.Id, "email": email},
	})
}

func Login(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if _, err := mail.ParseAddress(data["email"]); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid email format",
		})
	}

	var user models.User
	if err := database.DB.Where("email = ?", data["email"]).First(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid credentials",
		})
	}
	if err := user.ComparePassword(data["password"]); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid credentials",
		})
	}

	token, err := middlewares.GenerateJWT(user.Id, false)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not issue token")
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  fiber.Map{"id": user.Id, "email": user.Email},
	})
}
