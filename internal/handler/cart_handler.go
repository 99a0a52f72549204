package handler

import (
	"net/http"

	"eshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type SyncCartRequest struct {
	Cart []usecase.SyncItemInput `json:"cart"`
}

func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/data", h.getCart)
	g.POST("/sync", h.sync)
	g.POST("/guest/reset", h.resetGuest)
}

func (h *CartHandler) getCart(c echo.Context) error {
	id := resolveIdentity(c)

	out, err := h.uc.GetCart(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) sync(c echo.Context) error {
	id := resolveIdentity(c)

	var req SyncCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SyncCart(c.Request().Context(), id, req.Cart)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"cart":    out.Items,
	})
}

// ログアウト後にゲストカートを作り直す
func (h *CartHandler) resetGuest(c echo.Context) error {
	oldToken := guestTokenFromCookie(c)

	newToken, err := h.uc.ResetGuestSession(c.Request().Context(), oldToken)
	if err != nil {
		return writeError(c, err)
	}

	setGuestCookie(c, newToken)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":        true,
		"message":        "Guest session reset",
		"new_session_id": newToken,
	})
}
