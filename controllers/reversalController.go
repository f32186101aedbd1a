package controllers

import (
	"equiptrack-backend/database"
	"equiptrack-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReverseDirectSale undoes a direct-to-consumer sale: it deletes the Sale
// and Supply records and clears both references on the machine, making it
// indistinguishable from one that was never supplied. Preconditions run in
// order, each a hard stop; the effect re-states them inside one guarded
// UPDATE so a concurrent write between check and delete aborts the whole
// reversal instead of half of it.
func ReverseDirectSale(c *fiber.Ctx) error {
	db := database.HandlerDB(c)

	// 1) Supply must exist and be linked to a machine.
	var supply models.Supply
	if err := db.Preload("Distributor").First(&supply, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "supply not found"})
		}
		return err
	}
	var machine models.Machine
	if err := db.
		Preload("Return").Preload("Certificate").Preload("ServiceRequests").
		First(&machine, "supply_id = ?", supply.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "supply not found"})
		}
		return err
	}

	// 2) Only supplies on the direct-to-consumer channel are reversible.
	if supply.Distributor.Name != database.D2CChannelName() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "supply is not on the direct sale channel"})
	}

	// 3) There has to be a sale to undo.
	if machine.SaleID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "no sale to reverse"})
	}

	// 4) Downstream records make the reversal unsafe. Collect every blocker
	// so the caller can resolve them in one pass.
	var blockers []string
	if machine.ReturnID != nil {
		blockers = append(blockers, "return record")
	}
	if machine.CertificateID != nil {
		blockers = append(blockers, "warranty certificate")
	}
	if len(machine.ServiceRequests) > 0 {
		blockers = append(blockers, "service requests")
	}
	if len(blockers) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":  "dependent records block reversal",
			"blockers": blockers,
		})
	}

	saleID := *machine.SaleID

	// Effect. The machine row goes first: its FK columns RESTRICT deletion
	// of the child rows, and the WHERE clause re-validates every
	// precondition so the update claims the machine or nothing happens.
	res := db.Model(&models.Machine{}).
		Where("id = ? AND supply_id = ? AND sale_id = ?", machine.ID, supply.ID, saleID).
		Where("return_id IS NULL AND certificate_id IS NULL").
		Where("NOT EXISTS (SELECT 1 FROM service_requests WHERE service_requests.machine_id = machines.id)").
		Updates(map[string]any{"supply_id": nil, "sale_id": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "machine state changed, reversal aborted"})
	}

	if err := db.Delete(&models.Sale{}, saleID).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.Supply{}, supply.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":       "sale reversed, machine reclaimed for redistribution",
		"machine_id":    machine.ID,
		"serial_number": machine.SerialNumber,
	})
}
