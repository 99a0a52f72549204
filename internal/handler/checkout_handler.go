package handler

import (
	"net/http"

	"eshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

// フロントから来るフラットなフォーム
type CheckoutRequest struct {
	ShippingFirstName string `json:"shipping_first_name"`
	ShippingLastName  string `json:"shipping_last_name"`
	ShippingEmail     string `json:"shipping_email"`
	ShippingPhone     string `json:"shipping_phone"`
	ShippingAddress1  string `json:"shipping_address1"`
	ShippingAddress2  string `json:"shipping_address2"`
	ShippingCity      string `json:"shipping_city"`
	ShippingState     string `json:"shipping_state"`
	ShippingZip       string `json:"shipping_zip"`
	ShippingCountry   string `json:"shipping_country"`

	CardNumber string `json:"card_number"`
	CardExpiry string `json:"card_expiry"`
	CardCVC    string `json:"card_cvc"`
	CardName   string `json:"card_name"`

	CouponCode string                      `json:"coupon_code"`
	Items      []usecase.CheckoutItemInput `json:"items"`
}

func (h *CheckoutHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/process", h.process)
}

func (h *CheckoutHandler) process(c echo.Context) error {
	id := resolveIdentity(c)

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Process(c.Request().Context(), id, usecase.CheckoutInput{
		Shipping: usecase.ShippingInput{
			FirstName: req.ShippingFirstName,
			LastName:  req.ShippingLastName,
			Email:     req.ShippingEmail,
			Phone:     req.ShippingPhone,
			Address1:  req.ShippingAddress1,
			Address2:  req.ShippingAddress2,
			City:      req.ShippingCity,
			State:     req.ShippingState,
			Zip:       req.ShippingZip,
			Country:   req.ShippingCountry,
		},
		Card: usecase.CardInput{
			Number: req.CardNumber,
			Expiry: req.CardExpiry,
			CVC:    req.CardCVC,
			Name:   req.CardName,
		},
		CouponCode: req.CouponCode,
		Items:      req.Items,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order placed successfully!",
		"order":   out,
	})
}
