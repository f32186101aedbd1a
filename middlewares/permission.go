package middlewares

import (
	"equiptrack-backend/models"

	"github.com/gofiber/fiber/v2"
)

// Capabilities gating the mutation and read surfaces. Every protected route
// names the capability it needs; nothing inside the handlers re-checks
// permissions or reads session state.
const (
	CapMachinesCreate = "machines:create"
	CapMachinesRead   = "machines:read"
	CapSuppliesWrite  = "supplies:write"
	CapSuppliesRead   = "supplies:read"
	CapSuppliesRevert = "supplies:reverse"
	CapReturnsWrite   = "returns:write"
	CapReturnsRead    = "returns:read"
	CapSalesWrite     = "sales:write"
	CapSalesRead      = "sales:read"
	CapWarrantyWrite  = "warranty:write"
	CapServiceWrite   = "service:write"
	CapServiceRead    = "service:read"
	CapPartnersWrite  = "partners:write"
	CapPartnersRead   = "partners:read"
)

var roleCapabilities = map[string]map[string]bool{
	models.RoleAdmin: nil, // admin passes every check
	models.RoleQuality: set(
		CapMachinesCreate, CapMachinesRead,
	),
	models.RoleDispatch: set(
		CapMachinesRead, CapSuppliesWrite, CapSuppliesRead, CapSuppliesRevert,
		CapReturnsWrite, CapReturnsRead, CapPartnersRead,
	),
	models.RoleDistributor: set(
		CapMachinesRead, CapSalesWrite, CapSalesRead, CapWarrantyWrite,
	),
	models.RoleService: set(
		CapMachinesRead, CapServiceWrite, CapServiceRead, CapPartnersRead,
	),
}

func set(caps ...string) map[string]bool {
	m := make(map[string]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}

// Allowed is the pure (role, capability) -> allow/deny decision.
func Allowed(role, capability string) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	return caps[capability]
}

// RequireCapability rejects the request with 403 unless the authenticated
// role holds the capability. Mount after IsAuthenticatedHeader and before
// Tx, so denied requests never open a transaction.
func RequireCapability(capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if !Allowed(role, capability) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "insufficient permissions"})
		}
		return c.Next()
	}
}
