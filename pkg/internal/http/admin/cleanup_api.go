package admin

import (
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func (v *controller) adminTriggerCleanup(c *fiber.Ctx) error {
	go v.core.DoAutoDatabaseCleanup()

	return c.SendStatus(fiber.StatusOK)
}

func (v *controller) adminApplyDeletion(c *fiber.Ctx) error {
	key, err := exts.ParamsKey(c, "id")
	if err != nil {
		return err
	}

	if err := v.core.HandleDeletionEvent(c.UserContext(), c.Params("type"), key); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}
