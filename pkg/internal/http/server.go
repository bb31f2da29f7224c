package http

import (
	nethttp "net/http"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/http/admin"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/http/api"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type App struct {
	app *fiber.App
}

func NewServer(core *services.Core) *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		ServerHeader:          "Hypernet.Socialgraph",
		AppName:               "Hypernet.Socialgraph",
		ProxyHeader:           fiber.HeaderXForwardedFor,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:             8 * 1024 * 1024,
		EnablePrintRoutes:     viper.GetBool("debug.print_routes"),
		ErrorHandler:          exts.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,HEAD",
	}))
	app.Use(exts.RequestLogger)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api.MapControllers(app, core, "/api")
	admin.MapControllers(app, core, "/admin", viper.GetString("security.admin_token"))

	return &App{app}
}

// Test sends a request through the app without a listener
func (v *App) Test(req *nethttp.Request, msTimeout ...int) (*nethttp.Response, error) {
	return v.app.Test(req, msTimeout...)
}

func (v *App) Listen() error {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Error().Err(err).Msg("An error occurred when starting server...")
		return err
	}
	return nil
}

func (v *App) Shutdown() error {
	return v.app.Shutdown()
}
