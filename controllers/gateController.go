package controllers

import (
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/gates"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/utils"

	"github.com/gofiber/fiber/v2"
)

// CheckFreeAdGate is the read-only preflight for the monthly free-ad gate.
// It never consumes the allowance, so the client can call it any number of
// times (e.g. to dim the "Free Ad" button).
func CheckFreeAdGate(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	now := clock.Now()

	res, err := gateEngine.Evaluate(c.UserContext(), gates.Monthly(), userID, now, false, nil)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"allowed": res.Decision == gates.Allowed,
		"period":  gates.PeriodKey(now),
	})
}

// CheckClassifiedGate is the read-only preflight for the phone cooldown gate.
func CheckClassifiedGate(c *fiber.Ctx) error {
	phone := utils.NormalizePhone(c.Query("phone"))
	if phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone query parameter required")
	}
	now := clock.Now()

	res, err := gateEngine.Evaluate(c.UserContext(), gates.Cooldown(classifiedCooldownDays), phone, now, false, nil)
	if err != nil {
		return err
	}
	out := fiber.Map{"allowed": res.Decision == gates.Allowed}
	if res.Decision == gates.AlreadyUsed {
		out["remaining_days"] = res.RemainingDays
	}
	return c.JSON(out)
}
