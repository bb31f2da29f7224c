package admin

import (
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

type controller struct {
	core *services.Core
}

// MapControllers mounts the admin routes, they are left out when token is empty
func MapControllers(app *fiber.App, core *services.Core, baseURL string, token string) {
	if len(token) == 0 {
		return
	}

	v := &controller{core: core}

	admin := app.Group(baseURL, keyauth.New(keyauth.Config{
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if key != token {
				return false, keyauth.ErrMissingOrMalformedAPIKey
			}
			return true, nil
		},
	}))
	{
		admin.Post("/cleanup", v.adminTriggerCleanup)
		admin.Post("/deletion/:type/:id", v.adminApplyDeletion)
	}
}
