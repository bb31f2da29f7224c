package api

import (
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

// resourceController serves list, get, create, update and delete of one entity
type resourceController[T models.Entity] struct {
	resource *services.Resource[T]
	param    string
	present  func(item T) T
	index    fiber.Handler
}

func newResourceController[T models.Entity](resource *services.Resource[T], param string) *resourceController[T] {
	return &resourceController[T]{
		resource: resource,
		param:    param,
		present:  func(item T) T { return item },
	}
}

func (v *resourceController[T]) mount(router fiber.Router) {
	if v.index != nil {
		router.Get("/", v.index)
	} else {
		router.Get("/", v.list)
	}
	router.Get("/:"+v.param, v.get)
	router.Post("/", v.create)
	router.Put("/:"+v.param, v.update)
	router.Delete("/:"+v.param, v.delete)
}

func (v *resourceController[T]) presentAll(items []T) []T {
	return lo.Map(items, func(item T, index int) T {
		return v.present(item)
	})
}

func (v *resourceController[T]) list(c *fiber.Ctx) error {
	items, err := v.resource.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(v.presentAll(items))
}

func (v *resourceController[T]) get(c *fiber.Ctx) error {
	key, err := exts.ParamsKey(c, v.param)
	if err != nil {
		return err
	}
	item, err := v.resource.Get(c.UserContext(), key)
	if err != nil {
		return err
	}
	return c.JSON(v.present(item))
}

func (v *resourceController[T]) create(c *fiber.Ctx) error {
	payload, err := exts.BindPayload(c)
	if err != nil {
		return err
	}
	item, err := v.resource.Create(c.UserContext(), payload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(v.present(item))
}

func (v *resourceController[T]) update(c *fiber.Ctx) error {
	key, err := exts.ParamsKey(c, v.param)
	if err != nil {
		return err
	}
	payload, err := exts.BindPayload(c)
	if err != nil {
		return err
	}
	item, err := v.resource.Update(c.UserContext(), key, payload)
	if err != nil {
		return err
	}
	return c.JSON(v.present(item))
}

func (v *resourceController[T]) delete(c *fiber.Ctx) error {
	key, err := exts.ParamsKey(c, v.param)
	if err != nil {
		return err
	}
	if err := v.resource.Delete(c.UserContext(), key); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}
