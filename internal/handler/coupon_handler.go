package handler

import (
	"net/http"

	"eshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CouponHandler struct {
	uc *usecase.CouponUsecase
}

func NewCouponHandler(uc *usecase.CouponUsecase) *CouponHandler {
	return &CouponHandler{uc: uc}
}

type VerifyCouponRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

func (h *CouponHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/verify", h.verify)
}

func (h *CouponHandler) verify(c echo.Context) error {
	var req VerifyCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Verify(c.Request().Context(), req.Code, req.Subtotal)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Coupon is valid",
		"coupon":  out,
	})
}
