package api

import (
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func (v *controller) listCommentsForPost(c *fiber.Ctx) error {
	post, err := exts.ParamsKey(c, "postId")
	if err != nil {
		return err
	}
	items, err := v.core.CommentsForPost(c.UserContext(), post)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (v *controller) listCommentsBy(c *fiber.Ctx) error {
	user, err := exts.ParamsKey(c, "userId")
	if err != nil {
		return err
	}
	items, err := v.core.CommentsBy(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(items)
}
