package controllers

import (
	"encoding/json"
	"time"

	"equiptrack-backend/database"
	"equiptrack-backend/middlewares"
	"equiptrack-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type machineInput struct {
	SerialNumber      string                       `json:"serial_number" validate:"required,max=64"`
	ModelID           uint                         `json:"model_id" validate:"required"`
	ManufacturingDate time.Time                    `json:"manufacturing_date" validate:"required"`
	TestResults       map[string]models.TestResult `json:"test_results"`
	TestNotes         string                       `json:"test_notes"`
}

// CreateMachine is the quality-testing intake. The serial uniqueness check
// here is advisory; the unique index on machines.serial_number is the source
// of truth under concurrent intakes.
func CreateMachine(c *fiber.Ctx) error {
	var data machineInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	db := database.HandlerDB(c)

	var model models.MachineModel
	if err := db.First(&model, data.ModelID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine model not found"})
	}

	var count int64
	db.Model(&models.Machine{}).Where("serial_number = ?", data.SerialNumber).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "serial number already exists"})
	}

	results, err := json.Marshal(data.TestResults)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid test results"})
	}

	machine := models.Machine{
		SerialNumber:      data.SerialNumber,
		ModelID:           data.ModelID,
		ManufacturingDate: data.ManufacturingDate,
		TestResults:       datatypes.JSON(results),
		TestNotes:         data.TestNotes,
	}

	if err := db.Create(&machine).Error; err != nil {
		// Unique-index violation from a concurrent intake lands here.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "serial number already exists",
			"error":   err.Error(),
		})
	}

	db.Preload("Model.Category").First(&machine, machine.ID)
	return c.JSON(machine)
}

func machineWithHistory(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Model.Category").
		Preload("Supply.Distributor").
		Preload("Return").
		Preload("Sale").
		Preload("Certificate").
		Preload("ServiceRequests.Visit.Engineer").
		Preload("ServiceRequests.Visit.Comments.Attachments")
}

func GetMachines(c *fiber.Ctx) error {
	var machines []models.Machine
	if err := database.HandlerDB(c).Preload("Model.Category").Order("id").Find(&machines).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"machines": machines, "message": "success"})
}

func GetMachine(c *fiber.Ctx) error {
	var machine models.Machine
	err := machineWithHistory(database.HandlerDB(c)).First(&machine, "machines.id = ?", c.Params("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine not found"})
		}
		return err
	}
	return c.JSON(machine)
}

func GetMachineBySerial(c *fiber.Ctx) error {
	var machine models.Machine
	err := machineWithHistory(database.HandlerDB(c)).
		Where("serial_number = ?", c.Params("serial")).First(&machine).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine not found"})
		}
		return err
	}
	return c.JSON(machine)
}

// CountMachinesByModel backs the production report; read-only.
func CountMachinesByModel(c *fiber.Ctx) error {
	db := database.HandlerDB(c)

	var model models.MachineModel
	if err := db.First(&model, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine model not found"})
	}

	var count int64
	if err := db.Model(&models.Machine{}).Where("model_id = ?", model.ID).Count(&count).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"model_id": model.ID, "count": count})
}
