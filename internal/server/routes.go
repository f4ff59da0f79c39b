package server

import (
	"shopcart/internal/config"
	"shopcart/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	authH *handler.AuthHandler,
	itemH *handler.ItemHandler,
	cartH *handler.CartHandler,
) {
	authH.RegisterRoutes(e, cfg)
	itemH.RegisterRoutes(e, cfg)
	cartH.RegisterRoutes(e, cfg)
}
