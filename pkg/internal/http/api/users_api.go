package api

import (
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
)

func hidePassword(item models.User) models.User {
	item.Password = ""
	return item
}

func (v *controller) authenticate(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, err := v.core.Authenticate(c.UserContext(), data.Email, data.Password)
	if err != nil {
		return err
	}

	return c.JSON(hidePassword(user))
}
