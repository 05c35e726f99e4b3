package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryClothing Category = "clothing"
	CategoryPerfume  Category = "perfume"
	CategoryShoe     Category = "shoe"
)

type Subcategory string

const (
	SubcategoryMen    Subcategory = "men"
	SubcategoryWomen  Subcategory = "women"
	SubcategoryUnisex Subcategory = "unisex"
)

func ValidCategory(c Category) bool {
	return c == CategoryClothing || c == CategoryPerfume || c == CategoryShoe
}

func ValidSubcategory(s Subcategory) bool {
	return s == SubcategoryMen || s == SubcategoryWomen || s == SubcategoryUnisex
}

type Product struct {
	ID          string          `json:"_id"`
	SellerID    string          `json:"seller"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Subcategory Subcategory     `json:"subcategory"`
	ImageURL    string          `json:"image"`
	InStock     bool            `json:"inStock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ProductFilter struct {
	Category    Category
	Subcategory Subcategory
	SellerID    string
}
