package controllers

import (
	"equiptrack-backend/database"
	"equiptrack-backend/middlewares"
	"equiptrack-backend/models"

	"github.com/gofiber/fiber/v2"
)

type categoryInput struct {
	Name string `json:"name" validate:"required"`
}

func CreateCategory(c *fiber.Ctx) error {
	var data categoryInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	category := models.Category{Name: data.Name}
	if err := database.HandlerDB(c).Create(&category).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create category",
			"error":   err.Error(),
		})
	}
	return c.JSON(category)
}

type modelInput struct {
	Name       string `json:"name" validate:"required"`
	CategoryID uint   `json:"category_id" validate:"required"`
}

func CreateModel(c *fiber.Ctx) error {
	var data modelInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	db := database.HandlerDB(c)

	var category models.Category
	if err := db.First(&category, data.CategoryID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "category not found"})
	}

	model := models.MachineModel{Name: data.Name, CategoryID: data.CategoryID}
	if err := db.Create(&model).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create model",
			"error":   err.Error(),
		})
	}

	db.Preload("Category").First(&model, model.ID)
	return c.JSON(model)
}

func GetModels(c *fiber.Ctx) error {
	var machineModels []models.MachineModel
	if err := database.HandlerDB(c).Preload("Category").Order("name").Find(&machineModels).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"models": machineModels, "message": "success"})
}
