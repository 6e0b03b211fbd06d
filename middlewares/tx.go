package middlewares

import (
	"log"

	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/database"

	"github.com/gofiber/fiber/v2"
)

// Tx opens a per-request DB transaction so a handler's writes (gate claim +
// the published ad/place) commit or roll back together.
// Order: run AFTER IsAuthenticatedHeader() and AFTER Idempotency() (so
// idempotency records aren't tied to the handler TX).
//
// Note the gate claim itself goes through the engine's own store handle, NOT
// this transaction: a claim that lands stays valid even if the caller gives
// up mid-flight, so it must not be rolled back with the request.
func Tx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		// Ensure we always cleanup.
		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log.Printf("tx commit failed: %v", e)
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		// Make the TX available to handlers via database.FromCtx(c).
		c.Locals("tx", tx)

		err = c.Next()
		return err
	}
}
