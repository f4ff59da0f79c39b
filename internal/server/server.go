package server

import (
	"net/http"

	"shopcart/internal/config"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はCORS等を設定済みのechoを返す。
// CORSの方針はConfigに一本化してある（起動ファイルごとに差異を作らない）。
func New(cfg config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())

	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			// devは全オリジン許可
			if cfg.GoEnv != "prod" {
				return true, nil
			}
			for _, allowed := range cfg.AllowedOrigins {
				if origin == allowed {
					return true, nil
				}
			}
			return false, nil
		},
		AllowCredentials: cfg.CORSCredentials,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	return e
}

func Start(e *echo.Echo, cfg config.Config) error {
	addr := cfg.Port
	if addr == "" || addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}
