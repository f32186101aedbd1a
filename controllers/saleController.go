package controllers

import (
	"time"

	"equiptrack-backend/database"
	"equiptrack-backend/middlewares"
	"equiptrack-backend/models"
	"equiptrack-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type saleInput struct {
	CustomerName   string    `json:"customer_name" validate:"required"`
	Phone          string    `json:"phone" validate:"required"`
	Address        string    `json:"address" validate:"required"`
	SaleDate       time.Time `json:"sale_date" validate:"required"`
	Email          string    `json:"email" validate:"omitempty,email"`
	WhatsApp       string    `json:"whatsapp"`
	ReminderOptOut bool      `json:"reminder_opt_out"`
}

// CreateSale records the transfer of a machine out of the acting
// distributor's inventory to an end customer. An unknown machine and one
// outside the sellable inventory report the same 404 so nothing leaks about
// other distributors' stock.
func CreateSale(c *fiber.Ctx) error {
	actor := middlewares.ActingDistributor(c)
	if actor == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "no distributor bound to this user"})
	}

	var data saleInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	db := database.HandlerDB(c)

	var machine models.Machine
	err := db.
		Joins("JOIN supplies ON supplies.id = machines.supply_id").
		Where("machines.id = ? AND supplies.distributor_id = ?", c.Params("machineId"), *actor).
		Where("machines.sale_id IS NULL AND machines.return_id IS NULL").
		First(&machine).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine not found or not available for sale"})
	}

	sale := models.Sale{
		SaleDate:       data.SaleDate,
		CustomerName:   data.CustomerName,
		Phone:          data.Phone,
		Address:        data.Address,
		Email:          data.Email,
		WhatsApp:       data.WhatsApp,
		ReminderOptOut: data.ReminderOptOut,
	}
	if err := db.Create(&sale).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create sale",
			"error":   err.Error(),
		})
	}

	// Guarded claim, re-stating every precondition so a concurrent sale or
	// return between the read above and this write loses cleanly.
	res := db.Model(&models.Machine{}).
		Where("id = ? AND sale_id IS NULL AND return_id IS NULL", machine.ID).
		Where("supply_id IN (SELECT id FROM supplies WHERE distributor_id = ?)", *actor).
		Update("sale_id", sale.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine not found or not available for sale"})
	}

	return c.JSON(sale)
}

// ListInventory lists the acting distributor's unsold, unreturned machines,
// newest supply first.
func ListInventory(c *fiber.Ctx) error {
	actor := middlewares.ActingDistributor(c)
	if actor == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "no distributor bound to this user"})
	}

	var machines []models.Machine
	err := database.HandlerDB(c).
		Joins("JOIN supplies ON supplies.id = machines.supply_id").
		Where("supplies.distributor_id = ?", *actor).
		Where("machines.sale_id IS NULL AND machines.return_id IS NULL").
		Preload("Model.Category").
		Preload("Supply").
		Order("supplies.supply_date DESC").
		Find(&machines).Error
	if err != nil {
		return err
	}

	// Drop anything whose supply relation failed to resolve.
	inventory := make([]models.Machine, 0, len(machines))
	for _, m := range machines {
		if m.Supply == nil {
			continue
		}
		inventory = append(inventory, m)
	}
	return c.JSON(fiber.Map{"machines": inventory, "message": "success"})
}
