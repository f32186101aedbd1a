package middlewares

import (
	"log"

	"equiptrack-backend/database"

	"github.com/gofiber/fiber/v2"
)

// Tx opens a per-request DB transaction for mutating methods. The handler
// chain runs inside it; it commits only when the handler neither returned an
// error nor reported a 4xx/5xx response, so precondition failures leave no
// partial writes behind. After-commit hooks queued via database.AfterCommit
// run once the commit has succeeded, never inside the transaction.
func Tx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log.Printf("tx commit failed: %v", e)
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
				return
			}
			for _, hook := range database.CommitHooks(c) {
				hook()
			}
		}()

		database.BindTx(c, tx)

		err = c.Next()
		return err
	}
}
