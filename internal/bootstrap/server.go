package bootstrap

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	httpecho "github.com/mohammadpnp/account-import/internal/interfaces/http/echo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewHTTPServer(c *Container) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(httpecho.RequestLogger(c.Logger.Named("http")))
	server.Use(middleware.BodyLimit("10M"))

	routes := httpecho.Routes{
		Auth:     httpecho.NewAuthHandler(c.PasswordSignIn, c.CredentialSignIn),
		Sessions: c.Sessions,
	}
	if c.Config.Import.Enabled {
		routes.Import = httpecho.NewImportHandler(c.RunImport, c.Logger.Named("http"))
	}
	if c.GetProfile != nil {
		routes.Profile = httpecho.NewProfileHandler(c.GetProfile)
	}
	httpecho.RegisterRoutes(server, routes)

	server.GET("/healthz", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	server.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{Registry: c.Registry})))

	return server
}
