package api

import (
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func (v *controller) getConversation(c *fiber.Ctx) error {
	a, err := exts.ParamsKey(c, "userA")
	if err != nil {
		return err
	}
	b, err := exts.ParamsKey(c, "userB")
	if err != nil {
		return err
	}
	items, err := v.core.Conversation(c.UserContext(), a, b)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (v *controller) listSentMessages(c *fiber.Ctx) error {
	user, err := exts.ParamsKey(c, "userId")
	if err != nil {
		return err
	}
	items, err := v.core.SentBy(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (v *controller) listReceivedMessages(c *fiber.Ctx) error {
	user, err := exts.ParamsKey(c, "userId")
	if err != nil {
		return err
	}
	items, err := v.core.ReceivedBy(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(items)
}
