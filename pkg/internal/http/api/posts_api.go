package api

import (
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func (v *controller) listGlobalFeed(c *fiber.Ctx) error {
	items, err := v.core.GlobalFeed(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (v *controller) listFollowedFeed(c *fiber.Ctx) error {
	user, err := exts.ParamsKey(c, "userId")
	if err != nil {
		return err
	}
	items, err := v.core.FollowedFeed(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (v *controller) listPostsBy(c *fiber.Ctx) error {
	user, err := exts.ParamsKey(c, "userId")
	if err != nil {
		return err
	}
	items, err := v.core.PostsBy(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (v *controller) listFeaturedPosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", 10)
	if take > 100 {
		take = 100
	}
	items, err := v.core.FeaturedPosts(c.UserContext(), take)
	if err != nil {
		return err
	}
	return c.JSON(items)
}
