package model

import "time"

// 注文明細。商品名と価格は注文時点のスナップショット。
type OrderItem struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64     `gorm:"not null;index" json:"order_id"`
	ProductID    int64     `gorm:"not null;index" json:"product_id"`
	ProductName  string    `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductPrice float64   `gorm:"type:decimal(10,2);not null" json:"product_price"`
	Quantity     int64     `gorm:"not null" json:"quantity"`
	Total        float64   `gorm:"type:decimal(10,2);not null" json:"total"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
