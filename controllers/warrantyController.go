package controllers

import (
	"log"
	"time"

	"equiptrack-backend/database"
	"equiptrack-backend/mailer"
	"equiptrack-backend/middlewares"
	"equiptrack-backend/models"
	"equiptrack-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type warrantyInput struct {
	MachineID uint   `json:"machine_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Address   string `json:"address" validate:"required"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

// RegisterWarranty creates the one certificate a sold machine may carry.
// The confirmation mail is queued for after the commit: the durable record
// never depends on the mail transport being reachable.
func RegisterWarranty(c *fiber.Ctx) error {
	var data warrantyInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	db := database.HandlerDB(c)

	var machine models.Machine
	if err := db.Preload("Sale").First(&machine, data.MachineID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine not eligible for warranty registration"})
	}
	if machine.SaleID == nil || machine.CertificateID != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine not eligible for warranty registration"})
	}

	cert := models.WarrantyCertificate{
		Name:         data.Name,
		Address:      data.Address,
		State:        data.State,
		ZipCode:      data.ZipCode,
		Country:      data.Country,
		RegisteredAt: time.Now().UTC(),
	}
	if cert.Country == "" {
		cert.Country = "India"
	}
	if err := db.Create(&cert).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create warranty certificate",
			"error":   err.Error(),
		})
	}

	res := db.Model(&models.Machine{}).
		Where("id = ? AND sale_id IS NOT NULL AND certificate_id IS NULL", machine.ID).
		Update("certificate_id", cert.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine not eligible for warranty registration"})
	}

	// Best-effort confirmation to the sale's customer email, outside the
	// transaction; a failed send is logged and nothing else.
	if machine.Sale != nil && machine.Sale.Email != "" {
		to := machine.Sale.Email
		serial := machine.SerialNumber
		registeredAt := cert.RegisteredAt
		name := cert.Name
		database.AfterCommit(c, func() {
			subject, body := mailer.WarrantyConfirmation(name, serial, registeredAt)
			if err := mailer.Default.Send(to, subject, body); err != nil {
				log.Printf("warranty confirmation mail to %s failed: %v", to, err)
			}
		})
	}

	return c.JSON(cert)
}

// GetWarrantyCertificate returns a certificate with its machine context.
func GetWarrantyCertificate(c *fiber.Ctx) error {
	var machine models.Machine
	err := database.HandlerDB(c).
		Where("certificate_id = ?", c.Params("id")).
		Preload("Certificate").
		Preload("Model.Category").
		Preload("Sale").
		First(&machine).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "warranty certificate not found"})
	}
	return c.JSON(machine)
}
