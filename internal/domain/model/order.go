package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 注文確定時点の金額と配送先のスナップショット。
// 後から商品が変わっても再計算しない。
type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      *int64      `gorm:"index" json:"user_id"`
	OrderNumber string      `gorm:"type:varchar(32);not null;uniqueIndex" json:"order_number"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	Subtotal   float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax        float64 `gorm:"type:decimal(10,2);not null" json:"tax"`
	Shipping   float64 `gorm:"type:decimal(10,2);not null" json:"shipping"`
	Discount   float64 `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	Total      float64 `gorm:"type:decimal(10,2);not null" json:"total"`
	CouponCode *string `gorm:"type:varchar(50)" json:"coupon_code"`

	ShippingFirstName string  `gorm:"type:varchar(100);not null" json:"shipping_first_name"`
	ShippingLastName  string  `gorm:"type:varchar(100);not null" json:"shipping_last_name"`
	ShippingEmail     string  `gorm:"type:varchar(255);not null" json:"shipping_email"`
	ShippingPhone     *string `gorm:"type:varchar(20)" json:"shipping_phone"`
	ShippingAddress1  string  `gorm:"type:varchar(255);not null" json:"shipping_address1"`
	ShippingAddress2  *string `gorm:"type:varchar(255)" json:"shipping_address2"`
	ShippingCity      string  `gorm:"type:varchar(100);not null" json:"shipping_city"`
	ShippingState     string  `gorm:"type:varchar(100);not null" json:"shipping_state"`
	ShippingZip       string  `gorm:"type:varchar(20);not null" json:"shipping_zip"`
	ShippingCountry   string  `gorm:"type:varchar(100);not null" json:"shipping_country"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
