package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// POST /checkout のHTTP
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type CheckoutRequest struct {
	AddressID int64 `json:"address_id" validate:"required,gt=0"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/checkout")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.checkout)
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "address is required"})
	}

	out, err := h.uc.InitiateCheckout(c.Request().Context(), userID, usecase.CheckoutInput{
		AddressID: req.AddressID,
	})
	if err != nil {
		return writeError(c, err)
	}

	//クライアントはcheckout_urlへリダイレクトして決済を完了させる
	return c.JSON(http.StatusCreated, out)
}
