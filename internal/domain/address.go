package domain

import "time"

// Address 用户地址簿；每个用户至多一个默认地址，
// 置默认时由写入方清掉其余默认位
type Address struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId"`
	Label     string    `gorm:"size:100;not null" json:"label"`
	FirstName string    `gorm:"size:100;not null" json:"firstName"`
	LastName  string    `gorm:"size:100;not null" json:"lastName"`
	Street    string    `gorm:"size:255;not null" json:"street"`
	City      string    `gorm:"size:100;not null" json:"city"`
	State     string    `gorm:"size:100;not null" json:"state"`
	ZipCode   string    `gorm:"size:20;not null" json:"zipCode"`
	Country   string    `gorm:"size:100;not null" json:"country"`
	IsDefault bool      `gorm:"not null;default:false" json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Address) TableName() string { return "addresses" }
