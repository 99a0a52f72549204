package model

import (
	"time"

	"gorm.io/gorm"
)

// 在庫の扱いは track_inventory / continue_selling_when_out_of_stock の2フラグ
type Product struct {
	ID                            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                          string         `gorm:"type:varchar(255);not null" json:"name"`
	Description                   string         `gorm:"type:text" json:"description"`
	Price                         float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	StockQuantity                 int64          `gorm:"not null;default:0" json:"stock_quantity"`
	TrackInventory                bool           `gorm:"not null;default:true" json:"track_inventory"`
	ContinueSellingWhenOutOfStock bool           `gorm:"not null;default:false" json:"continue_selling_when_out_of_stock"`
	IsActive                      bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt                     time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt                     time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt                     gorm.DeletedAt `gorm:"index" json:"-"`
}
