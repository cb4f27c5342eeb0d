package server

import (
	"app/internal/config"
	"app/internal/handler"
	appvalidator "app/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Address  *handler.AddressHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
	Webhook  *handler.WebhookHandler
}

// echoインスタンスを組み立てる
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = appvalidator.New()

	registerRoutes(e, cfg, h)
	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
