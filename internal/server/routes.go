package server

import (
	"net/http"

	"app/internal/config"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	//公開
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Webhook.RegisterRoutes(e)

	//要認証
	h.Cart.RegisterRoutes(e, cfg)
	h.Address.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
}
