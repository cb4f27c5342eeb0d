package handler

import (
	"io"
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 決済プロバイダからのwebhook受け口。
// 認証はJWTではなく署名ヘッダで行うので、AuthJWTは通さない。
type WebhookHandler struct {
	uc *usecase.WebhookUsecase
}

// DI
func NewWebhookHandler(uc *usecase.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhooks/payment", h.handle)
}

func (h *WebhookHandler) handle(c echo.Context) error {
	//署名は生のボディに対して検証するので、bindせずそのまま読む
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")

	if err := h.uc.HandleEvent(c.Request().Context(), body, sig); err != nil {
		return writeError(c, err)
	}

	//2xxを返せばプロバイダは再送しない
	return c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}
