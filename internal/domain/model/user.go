package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string  `gorm:"type:varchar(50);not null" json:"first_name"`
	MiddleName   *string `gorm:"type:varchar(50)" json:"middle_name"`
	LastName     string  `gorm:"type:varchar(50);not null" json:"last_name"`
	Email        string  `gorm:"type:varchar(100);not null;uniqueIndex" json:"email"`
	PasswordHash string  `gorm:"column:password_hash;not null" json:"-"`
	Address1     string  `gorm:"type:varchar(100);not null" json:"address1"`
	Address2     *string `gorm:"type:varchar(100)" json:"address2"`
	CountryCode  string  `gorm:"type:varchar(10);not null;default:'+64'" json:"country_code"`
	Phone        *string `gorm:"type:varchar(15)" json:"phone"`
	Role         Role    `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
