package routes

import (
	"github.com/gofiber/fiber/v2"

	"equiptrack-backend/controllers"
	"equiptrack-backend/middlewares"
)

// write wraps a mutating handler with its capability gate and the
// per-request transaction, in that order: a denied request never opens one.
func write(capability string, h fiber.Handler) []fiber.Handler {
	return []fiber.Handler{middlewares.RequireCapability(capability), middlewares.Tx(), h}
}

// read wraps a read-only handler with just its capability gate.
func read(capability string, h fiber.Handler) []fiber.Handler {
	return []fiber.Handler{middlewares.RequireCapability(capability), h}
}

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth, then idempotency guard — the stored
	// key/response must not be tied to any handler transaction)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())
	protected.Use(middlewares.Idempotency())

	// Catalog
	protected.Post("/categories", write(middlewares.CapPartnersWrite, controllers.CreateCategory)...)
	protected.Post("/models", write(middlewares.CapPartnersWrite, controllers.CreateModel)...)
	protected.Get("/models", read(middlewares.CapMachinesRead, controllers.GetModels)...)
	protected.Get("/models/:id/machine-count", read(middlewares.CapMachinesRead, controllers.CountMachinesByModel)...)

	// Partners
	protected.Post("/distributors", write(middlewares.CapPartnersWrite, controllers.CreateDistributor)...)
	protected.Get("/distributors", read(middlewares.CapPartnersRead, controllers.GetDistributors)...)
	protected.Post("/engineers", write(middlewares.CapPartnersWrite, controllers.CreateEngineer)...)
	protected.Get("/engineers", read(middlewares.CapPartnersRead, controllers.GetEngineers)...)

	// Machines (static paths before :id)
	protected.Post("/machines", write(middlewares.CapMachinesCreate, controllers.CreateMachine)...)
	protected.Get("/machines/available", read(middlewares.CapSuppliesRead, controllers.AvailableMachines)...)
	protected.Get("/machines/available-for-supply", read(middlewares.CapSuppliesRead, controllers.AvailableForSupply)...)
	protected.Get("/machines/serial/:serial", read(middlewares.CapMachinesRead, controllers.GetMachineBySerial)...)
	protected.Get("/machines/:id", read(middlewares.CapMachinesRead, controllers.GetMachine)...)
	protected.Get("/machines", read(middlewares.CapMachinesRead, controllers.GetMachines)...)

	// Supplies
	protected.Post("/supplies", write(middlewares.CapSuppliesWrite, controllers.CreateSupply)...)
	protected.Patch("/supplies/:id", write(middlewares.CapSuppliesWrite, controllers.UpdateSupply)...)
	protected.Get("/supplies", read(middlewares.CapSuppliesRead, controllers.GetSupplied)...)
	protected.Post("/supplies/:id/reverse-sale", write(middlewares.CapSuppliesRevert, controllers.ReverseDirectSale)...)

	// Returns
	protected.Post("/returns", write(middlewares.CapReturnsWrite, controllers.CreateReturn)...)
	protected.Patch("/returns/:id", write(middlewares.CapReturnsWrite, controllers.UpdateReturn)...)
	protected.Get("/returns/:id", read(middlewares.CapReturnsRead, controllers.GetReturn)...)
	protected.Get("/returns", read(middlewares.CapReturnsRead, controllers.GetReturns)...)

	// Distributor inventory & sales
	protected.Get("/inventory", read(middlewares.CapSalesRead, controllers.ListInventory)...)
	protected.Post("/inventory/:machineId/sale", write(middlewares.CapSalesWrite, controllers.CreateSale)...)

	// Warranty
	protected.Post("/warranty-certificates", write(middlewares.CapWarrantyWrite, controllers.RegisterWarranty)...)
	protected.Get("/warranty-certificates/:id", read(middlewares.CapMachinesRead, controllers.GetWarrantyCertificate)...)

	// Service
	protected.Post("/service-requests", write(middlewares.CapServiceWrite, controllers.CreateServiceRequest)...)
	protected.Get("/service-requests/:id", read(middlewares.CapServiceRead, controllers.GetServiceRequest)...)
	protected.Get("/service-requests", read(middlewares.CapServiceRead, controllers.GetServiceRequests)...)
	protected.Post("/service-requests/:id/visit", write(middlewares.CapServiceWrite, controllers.AssignVisit)...)
	protected.Patch("/service-visits/:id/status", write(middlewares.CapServiceWrite, controllers.UpdateVisitStatus)...)
	protected.Post("/service-visits/:id/complete", write(middlewares.CapServiceWrite, controllers.CompleteVisit)...)
	protected.Post("/service-visits/:id/comments", write(middlewares.CapServiceWrite, controllers.AddComment)...)
}
