package usecase

import (
	"context"
	"net/http"

	repo "eshop/internal/repository"
)

type CouponUsecase struct {
	couponRepo repo.CouponRepository
	clock      Clock
}

func NewCouponUsecase(couponRepo repo.CouponRepository, clock Clock) *CouponUsecase {
	return &CouponUsecase{couponRepo: couponRepo, clock: clock}
}

type VerifyCouponOutput struct {
	Code           string  `json:"code"`
	Description    string  `json:"description"`
	DiscountType   string  `json:"discount_type"`
	DiscountValue  float64 `json:"discount_value"`
	DiscountAmount float64 `json:"discount_amount"`
}

// クーポンコードを検証して割引額を返す。
func (u *CouponUsecase) Verify(ctx context.Context, code string, subtotal float64) (VerifyCouponOutput, error) {
	if code == "" || len(code) > 50 {
		return VerifyCouponOutput{}, NewHTTPError(http.StatusUnprocessableEntity, "Validation failed")
	}
	if subtotal < 0 {
		return VerifyCouponOutput{}, NewHTTPError(http.StatusUnprocessableEntity, "Validation failed")
	}

	coupon, err := u.couponRepo.FindByCode(ctx, code)
	if err == repo.ErrNotFound {
		return VerifyCouponOutput{}, NewHTTPError(http.StatusNotFound, "Invalid coupon code.")
	}
	if err != nil {
		return VerifyCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if ok, msg := coupon.IsValid(u.clock.Now(), subtotal); !ok {
		return VerifyCouponOutput{}, NewHTTPError(http.StatusBadRequest, msg)
	}

	return VerifyCouponOutput{
		Code:           coupon.Code,
		Description:    coupon.Description,
		DiscountType:   string(coupon.DiscountType),
		DiscountValue:  coupon.DiscountValue,
		DiscountAmount: coupon.CalculateDiscount(subtotal),
	}, nil
}
