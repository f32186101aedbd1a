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

type supplyInput struct {
	MachineID     uint      `json:"machine_id" validate:"required"`
	DistributorID uint      `json:"distributor_id" validate:"required"`
	SupplyDate    time.Time `json:"supply_date" validate:"required"`
	SellBy        time.Time `json:"sell_by" validate:"required"`
	Notes         string    `json:"notes"`
}

// CreateSupply assigns a machine to a distributor. The existence pre-checks
// give precise messages; the guarded UPDATE on machines.supply_id is what
// actually decides the race between two concurrent dispatches.
func CreateSupply(c *fiber.Ctx) error {
	var data supplyInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)
	if data.SellBy.Before(data.SupplyDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "sell_by must not precede supply_date"})
	}

	db := database.HandlerDB(c)

	var machine models.Machine
	if err := db.First(&machine, data.MachineID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine not found"})
	}
	var distributor models.Distributor
	if err := db.First(&distributor, data.DistributorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "distributor not found"})
	}
	if machine.SupplyID != nil && machine.ReturnID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "machine already supplied"})
	}

	supply := models.Supply{
		DistributorID: data.DistributorID,
		SupplyDate:    data.SupplyDate,
		SellBy:        data.SellBy,
		Notes:         data.Notes,
	}
	if err := db.Create(&supply).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create supply",
			"error":   err.Error(),
		})
	}

	// Atomic claim: only an unsupplied, unreturned machine picks up the row.
	// Zero rows means a concurrent dispatch won; the 400 rolls the orphan
	// supply row back with the request transaction.
	res := db.Model(&models.Machine{}).
		Where("id = ? AND supply_id IS NULL AND return_id IS NULL", machine.ID).
		Update("supply_id", supply.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "machine already supplied"})
	}

	db.Preload("Distributor").First(&supply, supply.ID)
	return c.JSON(supply)
}

type supplyPatch struct {
	DistributorID *uint      `json:"distributor_id"`
	SupplyDate    *time.Time `json:"supply_date"`
	SellBy        *time.Time `json:"sell_by"`
	Notes         *string    `json:"notes"`
}

func UpdateSupply(c *fiber.Ctx) error {
	var data supplyPatch
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&data)

	db := database.HandlerDB(c)

	var supply models.Supply
	if err := db.First(&supply, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "supply not found"})
		}
		return err
	}

	if data.DistributorID != nil {
		var distributor models.Distributor
		if err := db.First(&distributor, *data.DistributorID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "distributor not found"})
		}
	}

	// Window check against the merged state, not just the patch.
	supplyDate, sellBy := supply.SupplyDate, supply.SellBy
	if data.SupplyDate != nil {
		supplyDate = *data.SupplyDate
	}
	if data.SellBy != nil {
		sellBy = *data.SellBy
	}
	if sellBy.Before(supplyDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "sell_by must not precede supply_date"})
	}

	updates := utils.UpdatesFromPtrDTO(&data, nil)
	if len(updates) > 0 {
		if err := db.Model(&supply).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "could not update supply",
				"error":   err.Error(),
			})
		}
	}

	db.Preload("Distributor").First(&supply, supply.ID)
	return c.JSON(supply)
}

// GetSupplied lists machines currently placed with distributors (supplied,
// not returned), newest supply first.
func GetSupplied(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 0)

	q := database.HandlerDB(c).
		Joins("JOIN supplies ON supplies.id = machines.supply_id").
		Where("machines.supply_id IS NOT NULL AND machines.return_id IS NULL").
		Preload("Model.Category").
		Preload("Supply.Distributor").
		Order("supplies.supply_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var machines []models.Machine
	if err := q.Find(&machines).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"machines": machines, "message": "success"})
}

// AvailableMachines lists machines fresh off quality testing: neither
// supplied nor returned.
func AvailableMachines(c *fiber.Ctx) error {
	var machines []models.Machine
	err := database.HandlerDB(c).
		Where("supply_id IS NULL AND return_id IS NULL").
		Preload("Model.Category").
		Order("id").
		Find(&machines).Error
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"machines": machines, "message": "success"})
}

// AvailableForSupply backs the supply edit form: unreturned machines that
// are unsupplied, or tied to the supply currently being edited
// (?excluding_supply_id=) so the form keeps showing it.
func AvailableForSupply(c *fiber.Ctx) error {
	db := database.HandlerDB(c).Where("return_id IS NULL")

	if excluding := utils.ParseIntDefault(c.Query("excluding_supply_id"), 0); excluding > 0 {
		db = db.Where("supply_id IS NULL OR supply_id = ?", excluding)
	} else {
		db = db.Where("supply_id IS NULL")
	}

	var machines []models.Machine
	if err := db.Preload("Model.Category").Order("id").Find(&machines).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"machines": machines, "message": "success"})
}
