package controllers

import (
	"equiptrack-backend/database"
	"equiptrack-backend/middlewares"
	"equiptrack-backend/models"

	"github.com/gofiber/fiber/v2"
)

type distributorInput struct {
	Name  string `json:"name" validate:"required"`
	City  string `json:"city"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
}

func CreateDistributor(c *fiber.Ctx) error {
	var data distributorInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	distributor := models.Distributor{
		Name:  data.Name,
		City:  data.City,
		Phone: data.Phone,
		Email: data.Email,
	}
	if err := database.HandlerDB(c).Create(&distributor).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create distributor",
			"error":   err.Error(),
		})
	}
	return c.JSON(distributor)
}

func GetDistributors(c *fiber.Ctx) error {
	var distributors []models.Distributor
	if err := database.HandlerDB(c).Order("name").Find(&distributors).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"distributors": distributors, "message": "success"})
}

type engineerInput struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

func CreateEngineer(c *fiber.Ctx) error {
	var data engineerInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	engineer := models.Engineer{Name: data.Name, Phone: data.Phone}
	if err := database.HandlerDB(c).Create(&engineer).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create engineer",
			"error":   err.Error(),
		})
	}
	return c.JSON(engineer)
}

func GetEngineers(c *fiber.Ctx) error {
	var engineers []models.Engineer
	if err := database.HandlerDB(c).Order("name").Find(&engineers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"engineers": engineers, "message": "success"})
}
