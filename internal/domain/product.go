package domain

import (
	"context"
	"time"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string    `gorm:"size:100;not null;index" json:"category"`
	Image       string    `gorm:"size:255" json:"image,omitempty"`
	Stock       int       `gorm:"not null" json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

// ProductFilter 列表查询条件；Category 为 "all" 或空表示不过滤
type ProductFilter struct {
	Category string
	Search   string // 名称/描述大小写不敏感子串匹配
	Limit    int
	Offset   int
}

// Normalize 钳位分页参数：limit 默认 50、上限 100，offset 不小于 0
func (f *ProductFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	// DecrementStock 原子条件扣减：stock >= qty 时才生效，返回是否扣减成功
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
}
