package exts

import (
	"strconv"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validation = validator.New(validator.WithRequiredStructEnabled())

func BindAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	} else if err := validation.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// BindPayload decodes the request body into a field-named payload
func BindPayload(c *fiber.Ctx) (services.Payload, error) {
	var payload services.Payload
	if err := services.PayloadCodec.Unmarshal(c.Body(), &payload); err != nil || payload == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "request body must be a json object")
	}
	return payload, nil
}

// ParamsKey reads a business key from the route parameters
func ParamsKey(c *fiber.Ctx, name string) (int64, error) {
	key, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+", must be an integer")
	}
	return key, nil
}
