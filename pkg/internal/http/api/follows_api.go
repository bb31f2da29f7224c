package api

import (
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func (v *controller) listFollowers(c *fiber.Ctx) error {
	user, err := exts.ParamsKey(c, "userId")
	if err != nil {
		return err
	}
	items, err := v.core.FollowersOf(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (v *controller) listFollowing(c *fiber.Ctx) error {
	user, err := exts.ParamsKey(c, "userId")
	if err != nil {
		return err
	}
	items, err := v.core.FollowingOf(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(items)
}
