package usecase

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"eshop/internal/domain/model"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

// UUID等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 送料・税の設定値。ビジネス上の秘密ではなく構成値。
type PricingConfig struct {
	ShippingFee           float64 // デフォルト10
	FreeShippingThreshold float64 // これ以上で送料無料（デフォルト150）
	TaxRate               float64 // デフォルト0.08
}

// クライアントが送ってきた行。価格は信用しない。
type CheckoutItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// サーバー側の価格で確定した行
type PricedLine struct {
	ProductID    int64
	ProductName  string
	ProductPrice float64
	Quantity     int64
	Total        float64
}

// 小計と確定明細を作る。
// 価格は必ずDBから引き直す。在庫不足は全行ぶん集めてから失敗させる。
func priceLines(products map[int64]model.Product, items []CheckoutItemInput) (float64, []PricedLine, error) {
	invalid := []string{}
	stockErrors := []string{}
	lines := make([]PricedLine, 0, len(items))
	subtotal := 0.0

	for _, it := range items {
		if it.Quantity < 1 {
			invalid = append(invalid, fmt.Sprintf("Invalid quantity for product %d.", it.ProductID))
			continue
		}

		p, ok := products[it.ProductID]
		if !ok {
			// 存在しない商品はその行の検証エラー扱い
			invalid = append(invalid, fmt.Sprintf("The selected product %d is invalid.", it.ProductID))
			continue
		}

		if p.TrackInventory && !p.ContinueSellingWhenOutOfStock && p.StockQuantity < it.Quantity {
			stockErrors = append(stockErrors, fmt.Sprintf("Insufficient stock for %s. Available: %d", p.Name, p.StockQuantity))
		}

		lineTotal := round2(p.Price * float64(it.Quantity))
		subtotal += p.Price * float64(it.Quantity)

		lines = append(lines, PricedLine{
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductPrice: p.Price,
			Quantity:     it.Quantity,
			Total:        lineTotal,
		})
	}

	if len(invalid) > 0 {
		return 0, nil, NewValidationError("Validation failed", map[string][]string{"items": invalid})
	}
	if len(stockErrors) > 0 {
		return 0, nil, &HTTPError{
			Status:  http.StatusBadRequest,
			Message: "Stock availability issue",
			Fields:  map[string][]string{"stock": stockErrors},
		}
	}

	return round2(subtotal), lines, nil
}

// 送料と税。税は割引前の小計にかかる（現行ポリシー）。
func computeTotals(cfg PricingConfig, subtotal float64, discount float64) (shipping float64, tax float64, total float64) {
	shipping = cfg.ShippingFee
	if subtotal >= cfg.FreeShippingThreshold {
		shipping = 0
	}
	tax = round2(subtotal * cfg.TaxRate)
	total = round2(subtotal + shipping + tax - discount)
	return shipping, tax, total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
