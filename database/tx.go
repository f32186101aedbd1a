package database

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	localsTx          = "tx"
	localsAfterCommit = "afterCommit"
)

// HandlerDB returns the per-request transaction opened by middlewares.Tx,
// or a plain session for read-only requests that run outside one.
func HandlerDB(c *fiber.Ctx) *gorm.DB {
	if v := c.Locals(localsTx); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx
		}
	}
	return DB.Session(&gorm.Session{})
}

// BindTx attaches the request transaction; used by the Tx middleware only.
func BindTx(c *fiber.Ctx, tx *gorm.DB) {
	c.Locals(localsTx, tx)
}

// AfterCommit queues fn to run only after the request transaction commits.
// This is the seam for best-effort side effects (mail, notifications) that
// must never run inside the transaction or roll it back.
func AfterCommit(c *fiber.Ctx, fn func()) {
	hooks, _ := c.Locals(localsAfterCommit).([]func())
	c.Locals(localsAfterCommit, append(hooks, fn))
}

// CommitHooks returns the queued after-commit hooks.
func CommitHooks(c *fiber.Ctx) []func() {
	hooks, _ := c.Locals(localsAfterCommit).([]func())
	return hooks
}
