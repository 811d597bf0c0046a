package server

import (
	"orderapi/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	d.AuthH.RegisterRoutes(api.Group("/auth"))
	d.OrderH.RegisterRoutes(api.Group("/order"), d.Config, d.Users)
}
