package controllers

import (
	"net/mail"
	"time"

	"equiptrack-backend/database"
	"equiptrack-backend/middlewares"
	"equiptrack-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type registerInput struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=admin quality dispatch distributor service"`
	DistributorID   *uint  `json:"distributor_id"`
}

func Register(c *fiber.Ctx) error {
	var data registerInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	if data.Password != data.PasswordConfirm {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "passwords do not match",
		})
	}

	var mailExist models.User
	database.DB.Where("email = ?", data.Email).First(&mailExist)
	if mailExist.Email != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "email already exists",
		})
	}

	// Distributor users must be bound to an existing distributor.
	if data.Role == models.RoleDistributor {
		if data.DistributorID == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "distributor users need a distributor_id",
			})
		}
		var d models.Distributor
		if err := database.DB.First(&d, *data.DistributorID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "distributor not found"})
		}
	}

	user := models.User{
		FirstName:     data.FirstName,
		LastName:      data.LastName,
		Email:         data.Email,
		Role:          data.Role,
		DistributorID: data.DistributorID,
	}
	user.SetPassword(data.Password)

	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create user",
			"error":   err.Error(),
		})
	}

	return c.JSON(user)
}

func Login(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return err
	}

	if _, err := mail.ParseAddress(data["email"]); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid email format",
		})
	}

	var user models.User
	if err := database.DB.Where("email = ?", data["email"]).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid credentials"})
		}
		return err
	}

	if err := user.ComparePassword(data["password"]); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid credentials",
		})
	}

	token, err := middlewares.GenerateJWT(user.Id, user.Role, user.DistributorID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.Id,
			"name":  user.FirstName + " " + user.LastName,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func Logout(c *fiber.Ctx) error {
	cookie := fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	}
	c.Cookie(&cookie)
	return c.JSON(fiber.Map{
		"message": "success",
	})
}
