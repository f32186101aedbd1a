package controllers

import (
	"time"

	"equiptrack-backend/database"
	"equiptrack-backend/middlewares"
	"equiptrack-backend/models"
	"equiptrack-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type returnInput struct {
	MachineID  uint      `json:"machine_id" validate:"required"`
	ReturnDate time.Time `json:"return_date" validate:"required"`
	Reason     string    `json:"reason" validate:"required"`
}

// CreateReturn records a machine coming back from its distributor. A return
// needs a live supply and may happen once; the guarded UPDATE enforces both
// under concurrency.
func CreateReturn(c *fiber.Ctx) error {
	var data returnInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	db := database.HandlerDB(c)

	var machine models.Machine
	if err := db.First(&machine, data.MachineID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine not found"})
	}
	if machine.ReturnID != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "machine already returned"})
	}
	if machine.SupplyID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "machine has not been supplied"})
	}

	ret := models.Return{
		ReturnDate: data.ReturnDate,
		Reason:     data.Reason,
	}
	if err := db.Create(&ret).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create return",
			"error":   err.Error(),
		})
	}

	res := db.Model(&models.Machine{}).
		Where("id = ? AND supply_id IS NOT NULL AND return_id IS NULL", machine.ID).
		Update("return_id", ret.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "machine already returned"})
	}

	return c.JSON(ret)
}

type returnPatch struct {
	ReturnDate *time.Time `json:"return_date"`
	Reason     *string    `json:"reason"`
}

func UpdateReturn(c *fiber.Ctx) error {
	var data returnPatch
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&data)

	db := database.HandlerDB(c)

	var ret models.Return
	if err := db.First(&ret, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "return not found"})
		}
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&data, nil)
	if len(updates) > 0 {
		if err := db.Model(&ret).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "could not update return",
				"error":   err.Error(),
			})
		}
	}

	return c.JSON(ret)
}

// GetReturn resolves one return together with its machine's model, category
// and the supply it came back from.
func GetReturn(c *fiber.Ctx) error {
	var machine models.Machine
	err := database.HandlerDB(c).
		Where("return_id = ?", c.Params("id")).
		Preload("Return").
		Preload("Model.Category").
		Preload("Supply.Distributor").
		First(&machine).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "return not found"})
		}
		return err
	}
	return c.JSON(machine)
}

// GetReturns lists returned machines, most recent return first.
func GetReturns(c *fiber.Ctx) error {
	var machines []models.Machine
	err := database.HandlerDB(c).
		Joins("JOIN returns ON returns.id = machines.return_id").
		Where("machines.return_id IS NOT NULL").
		Preload("Return").
		Preload("Model.Category").
		Preload("Supply.Distributor").
		Order("returns.return_date DESC").
		Find(&machines).Error
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"machines": machines, "message": "success"})
}
