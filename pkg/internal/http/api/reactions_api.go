package api

import (
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func (v *controller) listReactionsForPost(c *fiber.Ctx) error {
	post, err := exts.ParamsKey(c, "postId")
	if err != nil {
		return err
	}
	items, err := v.core.ReactionsForPost(c.UserContext(), post)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (v *controller) countReactionsForPost(c *fiber.Ctx) error {
	post, err := exts.ParamsKey(c, "postId")
	if err != nil {
		return err
	}
	summary, err := v.core.CountReactionsForPost(c.UserContext(), post)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
